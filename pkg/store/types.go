package store

import "time"

// Category is one spending category. Hierarchy is kept separately in
// category_links so a category can be re-parented without touching its row.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryLink is one parent/child relation between two categories.
type CategoryLink struct {
	ParentID int64 `json:"parent_id"`
	ChildID  int64 `json:"child_id"`
}

// Transaction is a single monetary movement tagged with a category.
// Amounts are integer cents; negative amounts are refunds.
type Transaction struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note,omitempty"`
	TsPosted    time.Time `json:"ts_posted"`
}

// TransactionFilter restricts transaction queries. Zero-value fields are
// ignored.
type TransactionFilter struct {
	From        time.Time
	To          time.Time
	CategoryIDs []int64
	Limit       int
}

// Goal is a savings goal. Dependencies between goals live in goal_deps.
type Goal struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TargetCents int64     `json:"target_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// GoalDependency records that a goal cannot complete before another.
type GoalDependency struct {
	GoalID      int64 `json:"goal_id"`
	DependsOnID int64 `json:"depends_on_id"`
}

// Identity is an authenticated API caller. Only the SHA-256 hash of the
// bearer token is stored.
type Identity struct {
	IdentityID string    `json:"identity_id"`
	Kind       string    `json:"kind"`
	TokenHash  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
