// Package metrics holds the Prometheus collectors exported by the server.
//
// Collectors are registered once on the default registry; every Ledger in the
// process feeds the same series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spliteasy"

var (
	UsersAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_added_total",
		Help:      "Number of users added to the ledger.",
	})

	ExpensesAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_added_total",
		Help:      "Number of expenses recorded.",
	})

	ExpensesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_removed_total",
		Help:      "Number of expenses removed, including edits.",
	})

	SettlementsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_confirmed_total",
		Help:      "Number of settlements confirmed.",
	})

	SplitErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "split_errors_total",
		Help:      "Number of expenses rejected because custom shares did not add up.",
	})

	// Outstanding is the sum of positive positions after the last mutation.
	Outstanding = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "outstanding_amount",
		Help:      "Total amount still owed across all users.",
	})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Duration of RPC calls by procedure and result code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)
