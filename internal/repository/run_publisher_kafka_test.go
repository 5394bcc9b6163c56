package repository

import (
	"context"
	"errors"
	"testing"

	"StockTrend/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	topic  string
	key    []byte
	value  interface{}
	err    error
	closed bool
}

func (w *fakeWriter) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	w.topic, w.key, w.value = topic, key, value
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaRunPublisher(t *testing.T) {
	w := &fakeWriter{}
	p, err := NewKafkaRunPublisher(w, "stocktrend.runs")
	require.NoError(t, err)

	ev := runEvent()
	require.NoError(t, p.PublishRun(context.Background(), ev))
	assert.Equal(t, "stocktrend.runs", w.topic)
	assert.Equal(t, []byte("AAPL"), w.key)
	assert.Equal(t, ev, w.value.(models.RunEvent))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaRunPublisherError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p, err := NewKafkaRunPublisher(w, "runs")
	require.NoError(t, err)

	err = p.PublishRun(context.Background(), runEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestKafkaRunPublisherRequiresTopic(t *testing.T) {
	_, err := NewKafkaRunPublisher(&fakeWriter{}, "")
	assert.Error(t, err)
}
