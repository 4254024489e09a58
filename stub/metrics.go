package stub

import (
	"github.com/nsmithuk/dnssec-stub/validator"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts validation outcomes by status, for scraping over /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	validationsByStatus *prometheus.CounterVec
	chainDepthExceeded  prometheus.Counter
	cnameHopsFollowed   prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	validationsByStatus := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dnssec_stub_validations_total",
		Help: "Number of validated responses, by resulting security status",
	}, []string{"status"})

	chainDepthExceeded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dnssec_stub_chain_depth_exceeded_total",
		Help: "Number of validations abandoned for exceeding the maximum chain depth",
	})

	cnameHopsFollowed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dnssec_stub_cname_hops_followed_total",
		Help: "Number of CNAME hops followed while resolving a query",
	})

	reg.MustRegister(validationsByStatus, chainDepthExceeded, cnameHopsFollowed)

	return &Metrics{
		Registry:            reg,
		validationsByStatus: validationsByStatus,
		chainDepthExceeded:  chainDepthExceeded,
		cnameHopsFollowed:   cnameHopsFollowed,
	}
}

func (m *Metrics) recordStatus(status validator.AuthenticationResult) {
	if m == nil {
		return
	}
	m.validationsByStatus.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) recordChainDepthExceeded() {
	if m == nil {
		return
	}
	m.chainDepthExceeded.Inc()
}

func (m *Metrics) recordCNAMEHop() {
	if m == nil {
		return
	}
	m.cnameHopsFollowed.Inc()
}
