package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersCreated    prometheus.Counter
	OrdersRejected   prometheus.Counter // insufficient stock
	OrdersShipped    prometheus.Counter
	Returns          prometheus.Counter
	Restocks         prometheus.Counter
	WaitlistNotified prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_orders_created_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_orders_rejected_total"})
	shipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_orders_shipped_total"})
	returns := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_returns_total"})
	restocks := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_restocks_total"})
	notified := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_waitlist_notified_total"})

	r.MustRegister(created, rejected, shipped, returns, restocks, notified)
	return &Registry{
		reg:              r,
		OrdersCreated:    created,
		OrdersRejected:   rejected,
		OrdersShipped:    shipped,
		Returns:          returns,
		Restocks:         restocks,
		WaitlistNotified: notified,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
