package features

import (
	"testing"
	"time"

	"StockTrend/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func series(dates ...string) models.PriceSeries {
	s := models.PriceSeries{Ticker: "TEST"}
	for i, ds := range dates {
		s.Bars = append(s.Bars, models.Bar{Date: d(ds), Close: 100 + float64(i)})
	}
	return s
}

func TestPreprocessOffsets(t *testing.T) {
	rows := Preprocess(series("2020-01-02", "2020-01-03", "2020-01-06", "2020-01-07"))

	require.Len(t, rows, 4)
	offsets := []int{rows[0].DayOffset, rows[1].DayOffset, rows[2].DayOffset, rows[3].DayOffset}
	// weekends are calendar days, so they still advance the offset
	assert.Equal(t, []int{0, 1, 4, 5}, offsets)
	assert.Equal(t, 100.0, rows[0].Close)
	assert.Equal(t, 103.0, rows[3].Close)
	assert.Equal(t, d("2020-01-06"), rows[2].Date)
}

func TestPreprocessFirstOffsetZeroAndNonDecreasing(t *testing.T) {
	rows := Preprocess(series("2021-03-01", "2021-03-01", "2021-03-02", "2021-04-15", "2022-01-01"))

	require.NotEmpty(t, rows)
	assert.Equal(t, 0, rows[0].DayOffset)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i].DayOffset, rows[i-1].DayOffset)
	}
}

func TestPreprocessIgnoresClock(t *testing.T) {
	s := models.PriceSeries{Bars: []models.Bar{
		{Date: time.Date(2020, 1, 2, 21, 0, 0, 0, time.UTC), Close: 1},
		{Date: time.Date(2020, 1, 3, 1, 0, 0, 0, time.UTC), Close: 2},
	}}

	rows := Preprocess(s)
	assert.Equal(t, 0, rows[0].DayOffset)
	assert.Equal(t, 1, rows[1].DayOffset)
}

func TestPreprocessSingleRow(t *testing.T) {
	rows := Preprocess(series("2020-01-02"))
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].DayOffset)
}

func TestPreprocessEmpty(t *testing.T) {
	assert.Nil(t, Preprocess(models.PriceSeries{}))
}

func TestPreprocessDeterministic(t *testing.T) {
	s := series("2020-01-02", "2020-02-03", "2020-03-04")
	assert.Equal(t, Preprocess(s), Preprocess(s))
}

func TestSortByDate(t *testing.T) {
	bars := []models.Bar{
		{Date: d("2020-01-03"), Close: 3},
		{Date: d("2020-01-01"), Close: 1},
		{Date: d("2020-01-02"), Close: 2},
	}
	SortByDate(bars)
	assert.Equal(t, []float64{1, 2, 3}, []float64{bars[0].Close, bars[1].Close, bars[2].Close})
}

func TestOffsetsAndCloses(t *testing.T) {
	rows := []models.FeatureRow{{DayOffset: 0, Close: 10}, {DayOffset: 3, Close: 12.5}}
	assert.Equal(t, []float64{0, 3}, Offsets(rows))
	assert.Equal(t, []float64{10, 12.5}, Closes(rows))
}
