package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsRegistry struct {
	registry            *prometheus.Registry
	vouchersTotal       *prometheus.CounterVec
	transformsTotal     *prometheus.CounterVec
	profileLookupsTotal *prometheus.CounterVec
	supplyRemaining     prometheus.Gauge
}

func newMetricsRegistry() *metricsRegistry {
	vouchers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelmint_vouchers_total",
		Help: "Total mint voucher issuance attempts",
	}, []string{"status"})

	transforms := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelmint_art_transforms_total",
		Help: "Total art transform requests",
	}, []string{"status"})

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelmint_profile_lookups_total",
		Help: "Total profile lookup requests",
	}, []string{"status"})

	supply := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pixelmint_supply_remaining",
		Help: "Tokens left under the supply cap at the last chain read",
	})

	r := prometheus.NewRegistry()
	r.MustRegister(vouchers, transforms, lookups, supply)

	return &metricsRegistry{
		registry:            r,
		vouchersTotal:       vouchers,
		transformsTotal:     transforms,
		profileLookupsTotal: lookups,
		supplyRemaining:     supply,
	}
}

func (m *metricsRegistry) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metricsRegistry) incVoucher(status string) {
	m.vouchersTotal.WithLabelValues(status).Inc()
}

func (m *metricsRegistry) incTransform(status string) {
	m.transformsTotal.WithLabelValues(status).Inc()
}

func (m *metricsRegistry) incLookup(status string) {
	m.profileLookupsTotal.WithLabelValues(status).Inc()
}

func (m *metricsRegistry) setSupplyRemaining(remaining float64) {
	m.supplyRemaining.Set(remaining)
}
