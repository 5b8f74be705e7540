package client

import "time"

// Types mirror the daemon's API JSON. The client deliberately does not
// import pkg/store or pkg/engine so embedding it stays dependency-light.

// Category is one spending category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RollupResult is the spending total across one category subtree.
type RollupResult struct {
	RootID      int64     `json:"root_id"`
	CategoryIDs []int64   `json:"category_ids"`
	TotalCents  int64     `json:"total_cents"`
	ComputedAt  time.Time `json:"computed_at"`
}

// CycleReport lists circular goal-dependency groups.
type CycleReport struct {
	Groups     [][]int64 `json:"groups"`
	GoalCount  int       `json:"goal_count"`
	ComputedAt time.Time `json:"computed_at"`
}

// Goal is a savings goal.
type Goal struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TargetCents int64  `json:"target_cents"`
}

// Transaction is a single monetary movement.
type Transaction struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note,omitempty"`
	TsPosted    time.Time `json:"ts_posted"`
}

// Status represents the health check response.
type Status struct {
	Status string `json:"status"`
}
