package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the inverse-design proposal HTTP handler
	DesignProposalLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "design_proposal_latency_seconds",
		Help:    "Latency of inverse design proposal handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of design proposal requests served
	DesignProposalRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "design_proposal_requests_total",
		Help: "Total number of design proposal requests",
	})

	// Time spent inside the optimizer solve call
	SolverDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "design_solver_duration_seconds",
		Help:    "Duration of optimizer solve calls",
		Buckets: prometheus.DefBuckets,
	})

	// Search requests by mode (exact / approximate)
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_search_requests_total",
			Help: "Count of product search requests by mode.",
		},
		[]string{"mode"},
	)
)

func Init() {
	prometheus.MustRegister(
		DesignProposalLatency,
		DesignProposalRequests,
		SolverDuration,
		SearchRequestsTotal,
	)
}
