package server

import (
	"errors"
	"testing"

	applogger "StockTrend/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestResourcesCloseInReverseOrder(t *testing.T) {
	var order []string
	r := &Resources{}
	r.Add("first", func() error { order = append(order, "first"); return nil })
	r.Add("nil", nil)
	r.Add("second", func() error { order = append(order, "second"); return errors.New("boom") })
	r.Add("third", func() error { order = append(order, "third"); return nil })

	r.Close(applogger.Nop())
	assert.Equal(t, []string{"third", "second", "first"}, order)

	r.Close(applogger.Nop())
	assert.Len(t, order, 3, "closers run once")
}

func TestNilResourcesClose(t *testing.T) {
	var r *Resources
	assert.NotPanics(t, func() { r.Close(applogger.Nop()) })
}
