package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BudgetlordRollupTotal tracks the number of rollups computed per root category
	BudgetlordRollupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budgetlord_rollup_total",
			Help: "Total number of category rollups computed",
		},
		[]string{"root_id", "mode"},
	)

	// BudgetlordRollupCents tracks the last computed rollup amount per root category
	BudgetlordRollupCents = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "budgetlord_rollup_cents",
			Help: "Last computed spending rollup in cents for a root category",
		},
		[]string{"root_id"},
	)

	// BudgetlordCycleGroups tracks the number of circular goal-dependency groups
	BudgetlordCycleGroups = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "budgetlord_cycle_groups",
			Help: "Number of circular goal dependency groups found by the last analysis",
		},
	)

	// BudgetlordGraphNodes tracks the size of the category graph
	BudgetlordGraphNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "budgetlord_graph_nodes",
			Help: "Number of nodes in the category hierarchy graph",
		},
	)

	// BudgetlordGraphEdges tracks the edge-slot count of the category graph
	BudgetlordGraphEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "budgetlord_graph_edges",
			Help: "Number of adjacency slots in the category hierarchy graph",
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(BudgetlordRollupTotal)
	prometheus.MustRegister(BudgetlordRollupCents)
	prometheus.MustRegister(BudgetlordCycleGroups)
	prometheus.MustRegister(BudgetlordGraphNodes)
	prometheus.MustRegister(BudgetlordGraphEdges)
}
