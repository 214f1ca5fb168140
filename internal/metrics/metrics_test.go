package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDomainCounters(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	d := NewDomain(reg)

	d.Checkout("success")
	d.Checkout("success")
	d.Checkout("insufficient_stock")
	d.Callback("settlement", "updated")

	assert.InDelta(t, 2, testutil.ToFloat64(d.Checkouts.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(d.Checkouts.WithLabelValues("insufficient_stock")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(d.Callbacks.WithLabelValues("settlement", "updated")), 0)
}

func TestNilDomainIsNoop(t *testing.T) {
	t.Parallel()
	var d *Domain
	assert.NotPanics(t, func() {
		d.Checkout("success")
		d.Callback("settlement", "updated")
	})
}
