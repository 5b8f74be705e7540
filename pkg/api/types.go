package api

// CreateCategoryRequest matches the payload for POST /v1/categories.
// ParentID is optional; when set, the new category is linked under it.
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// CreateCategoryResponse returns the new category's ID.
type CreateCategoryResponse struct {
	ID int64 `json:"id"`
}

// LinkCategoriesRequest matches the payload for POST /v1/categories/links.
type LinkCategoriesRequest struct {
	ParentID int64 `json:"parent_id"`
	ChildID  int64 `json:"child_id"`
}

// AddTransactionRequest matches the payload for POST /v1/transactions.
type AddTransactionRequest struct {
	CategoryID  int64  `json:"category_id"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note,omitempty"`
}

// AddTransactionResponse returns the new transaction's ID.
type AddTransactionResponse struct {
	ID int64 `json:"id"`
}

// CreateGoalRequest matches the payload for POST /v1/goals.
type CreateGoalRequest struct {
	Name        string `json:"name"`
	TargetCents int64  `json:"target_cents"`
}

// CreateGoalResponse returns the new goal's ID.
type CreateGoalResponse struct {
	ID int64 `json:"id"`
}

// AddGoalDepRequest matches the payload for POST /v1/goals/deps.
type AddGoalDepRequest struct {
	GoalID      int64 `json:"goal_id"`
	DependsOnID int64 `json:"depends_on_id"`
}

// IdentityRegistration matches the payload for POST /v1/identities.
// If Token is empty the server generates one and returns it once.
type IdentityRegistration struct {
	IdentityID string `json:"identity_id"`
	Kind       string `json:"kind"`
	Token      string `json:"token,omitempty"`
}

// IdentityResponse echoes the registered identity and, on creation, the
// plaintext token. The token is never retrievable again.
type IdentityResponse struct {
	IdentityID string `json:"identity_id"`
	Token      string `json:"token,omitempty"`
}
