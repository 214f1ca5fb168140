package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	pkgmetrics "github.com/Skotchmaster/marketplace/pkg/metrics"
)

// Domain counts checkout and payment callback outcomes. A nil *Domain is valid
// and records nothing.
type Domain struct {
	Checkouts *prometheus.CounterVec
	Callbacks *prometheus.CounterVec
}

func NewDomain(reg prometheus.Registerer) *Domain {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: pkgmetrics.Namespace,
		Name:      "checkouts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})
	callbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: pkgmetrics.Namespace,
		Name:      "payment_callbacks_total",
		Help:      "Payment gateway callbacks by transaction status and result.",
	}, []string{"transaction_status", "result"})

	reg.MustRegister(checkouts, callbacks)
	return &Domain{Checkouts: checkouts, Callbacks: callbacks}
}

func (d *Domain) Checkout(result string) {
	if d == nil {
		return
	}
	d.Checkouts.WithLabelValues(result).Inc()
}

func (d *Domain) Callback(transactionStatus, result string) {
	if d == nil {
		return
	}
	d.Callbacks.WithLabelValues(transactionStatus, result).Inc()
}
