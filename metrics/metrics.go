package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ordersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel_ops",
			Name:      "orders_placed_total",
			Help:      "Count of food orders placed, by payment method.",
		},
		[]string{"method"},
	)

	paymentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel_ops",
			Name:      "payment_outcomes_total",
			Help:      "Count of payment finalizations, by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	sweepCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotel_ops",
			Name:      "sweep_cancelled_orders_total",
			Help:      "Count of abandoned orders cancelled by the cleanup sweep.",
		},
	)
)

// Register registers all collectors (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(ordersPlaced, paymentOutcomes, sweepCancelled)
	})
}

func IncOrderPlaced(method string) {
	ordersPlaced.WithLabelValues(method).Inc()
}

func IncPaymentOutcome(source, outcome string) {
	paymentOutcomes.WithLabelValues(source, outcome).Inc()
}

func AddSweepCancelled(n int) {
	sweepCancelled.Add(float64(n))
}
