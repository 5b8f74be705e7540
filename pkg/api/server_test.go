package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rmax-ai/budgetlord/pkg/engine"
	"github.com/rmax-ai/budgetlord/pkg/reports"
	"github.com/rmax-ai/budgetlord/pkg/store"
)

// mockStore is an in-memory StoreInterface that also backs the engine
// services in tests.
type mockStore struct {
	categories []*store.Category
	links      []store.CategoryLink
	txs        []*store.Transaction
	goals      []*store.Goal
	deps       map[int64][]int64
	identities map[string]*store.Identity // keyed by token hash
	nextID     int64
}

func newMockStore() *mockStore {
	return &mockStore{
		deps:       map[int64][]int64{},
		identities: map[string]*store.Identity{},
	}
}

func (m *mockStore) CreateCategory(ctx context.Context, name string) (int64, error) {
	m.nextID++
	m.categories = append(m.categories, &store.Category{ID: m.nextID, Name: name, CreatedAt: time.Now()})
	return m.nextID, nil
}

func (m *mockStore) ListCategories(ctx context.Context) ([]*store.Category, error) {
	return m.categories, nil
}

func (m *mockStore) LinkCategories(ctx context.Context, parentID, childID int64) error {
	m.links = append(m.links, store.CategoryLink{ParentID: parentID, ChildID: childID})
	return nil
}

func (m *mockStore) ListCategoryLinks(ctx context.Context) ([]store.CategoryLink, error) {
	return m.links, nil
}

func (m *mockStore) SumByCategories(ctx context.Context, ids []int64) (int64, error) {
	var total int64
	for _, tx := range m.txs {
		for _, id := range ids {
			if tx.CategoryID == id {
				total += tx.AmountCents
			}
		}
	}
	return total, nil
}

func (m *mockStore) SetSystemState(ctx context.Context, key, value string) error { return nil }

func (m *mockStore) AddTransaction(ctx context.Context, tx *store.Transaction) (int64, error) {
	m.nextID++
	tx.ID = m.nextID
	m.txs = append(m.txs, tx)
	return tx.ID, nil
}

func (m *mockStore) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]*store.Transaction, error) {
	if len(filter.CategoryIDs) == 0 {
		return m.txs, nil
	}
	var out []*store.Transaction
	for _, tx := range m.txs {
		for _, id := range filter.CategoryIDs {
			if tx.CategoryID == id {
				out = append(out, tx)
			}
		}
	}
	return out, nil
}

func (m *mockStore) CreateGoal(ctx context.Context, name string, targetCents int64) (int64, error) {
	m.nextID++
	m.goals = append(m.goals, &store.Goal{ID: m.nextID, Name: name, TargetCents: targetCents})
	return m.nextID, nil
}

func (m *mockStore) ListGoals(ctx context.Context) ([]*store.Goal, error) {
	return m.goals, nil
}

func (m *mockStore) AddGoalDependency(ctx context.Context, goalID, dependsOnID int64) error {
	m.deps[goalID] = append(m.deps[goalID], dependsOnID)
	return nil
}

func (m *mockStore) ListGoalDependencies(ctx context.Context) (map[int64][]int64, error) {
	return m.deps, nil
}

func (m *mockStore) RegisterIdentity(ctx context.Context, identityID, kind, tokenHash string) error {
	m.identities[tokenHash] = &store.Identity{IdentityID: identityID, Kind: kind, TokenHash: tokenHash}
	return nil
}

func (m *mockStore) GetIdentityByTokenHash(ctx context.Context, tokenHash string) (*store.Identity, error) {
	return m.identities[tokenHash], nil
}

// fakeCache records cache traffic.
type fakeCache struct {
	entries     map[int64]*engine.RollupResult
	invalidated int
}

func (f *fakeCache) Get(ctx context.Context, rootID int64) (*engine.RollupResult, bool) {
	res, ok := f.entries[rootID]
	return res, ok
}

func (f *fakeCache) Set(ctx context.Context, res *engine.RollupResult) {
	f.entries[res.RootID] = res
}

func (f *fakeCache) Invalidate(ctx context.Context) {
	f.entries = map[int64]*engine.RollupResult{}
	f.invalidated++
}

const testToken = "test-token"

func newTestServer(t *testing.T, st *mockStore) *Server {
	t.Helper()
	st.identities[hashToken(testToken)] = &store.Identity{IdentityID: "tester", Kind: "user"}

	categories := engine.NewCategoryService(st)
	if err := categories.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	return NewServer(st, categories, engine.NewGoalService(st), "")
}

func doRequest(s *Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, newMockStore())
	rec := doRequest(s, http.MethodGet, "/v1/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
}

func TestCreateCategory_RequiresAuth(t *testing.T) {
	s := newTestServer(t, newMockStore())

	rec := doRequest(s, http.MethodPost, "/v1/categories", CreateCategoryRequest{Name: "food"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/v1/categories", CreateCategoryRequest{Name: "food"}, "wrong-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", rec.Code)
	}
}

func TestCreateCategory_WithParentLink(t *testing.T) {
	st := newMockStore()
	s := newTestServer(t, st)

	rec := doRequest(s, http.MethodPost, "/v1/categories", CreateCategoryRequest{Name: "food"}, testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("create category returned %d: %s", rec.Code, rec.Body.String())
	}
	var first CreateCategoryResponse
	json.NewDecoder(rec.Body).Decode(&first)

	rec = doRequest(s, http.MethodPost, "/v1/categories", CreateCategoryRequest{Name: "groceries", ParentID: first.ID}, testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("create child returned %d", rec.Code)
	}

	if len(st.links) != 1 || st.links[0].ParentID != first.ID {
		t.Errorf("expected parent link, got %v", st.links)
	}
}

func TestRollup_EndToEnd(t *testing.T) {
	st := newMockStore()
	food, _ := st.CreateCategory(context.Background(), "food")
	groceries, _ := st.CreateCategory(context.Background(), "groceries")
	rent, _ := st.CreateCategory(context.Background(), "rent")
	st.LinkCategories(context.Background(), food, groceries)
	st.AddTransaction(context.Background(), &store.Transaction{CategoryID: food, AmountCents: 1000})
	st.AddTransaction(context.Background(), &store.Transaction{CategoryID: groceries, AmountCents: 2500})
	st.AddTransaction(context.Background(), &store.Transaction{CategoryID: rent, AmountCents: 90000})

	s := newTestServer(t, st)

	rec := doRequest(s, http.MethodGet, fmt.Sprintf("/v1/rollup?root=%d", food), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rollup returned %d: %s", rec.Code, rec.Body.String())
	}

	var res engine.RollupResult
	json.NewDecoder(rec.Body).Decode(&res)
	if res.TotalCents != 3500 {
		t.Errorf("TotalCents = %d, want 3500 (rent excluded)", res.TotalCents)
	}
}

func TestRollup_InvalidParams(t *testing.T) {
	s := newTestServer(t, newMockStore())

	if rec := doRequest(s, http.MethodGet, "/v1/rollup", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing root should 400, got %d", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/v1/rollup?root=1&mode=sideways", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad mode should 400, got %d", rec.Code)
	}
}

func TestRollup_CacheHit(t *testing.T) {
	st := newMockStore()
	s := newTestServer(t, st)

	cache := &fakeCache{entries: map[int64]*engine.RollupResult{
		5: {RootID: 5, TotalCents: 777},
	}}
	s.SetRollupCache(cache)

	rec := doRequest(s, http.MethodGet, "/v1/rollup?root=5", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rollup returned %d", rec.Code)
	}
	if rec.Header().Get("X-Budgetlord-Cache") != "hit" {
		t.Errorf("expected cache hit header")
	}
	var res engine.RollupResult
	json.NewDecoder(rec.Body).Decode(&res)
	if res.TotalCents != 777 {
		t.Errorf("TotalCents = %d, want cached 777", res.TotalCents)
	}
}

func TestTransactions_InvalidatesCache(t *testing.T) {
	st := newMockStore()
	food, _ := st.CreateCategory(context.Background(), "food")
	s := newTestServer(t, st)

	cache := &fakeCache{entries: map[int64]*engine.RollupResult{food: {RootID: food}}}
	s.SetRollupCache(cache)

	rec := doRequest(s, http.MethodPost, "/v1/transactions", AddTransactionRequest{CategoryID: food, AmountCents: 100}, testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("add transaction returned %d: %s", rec.Code, rec.Body.String())
	}
	if cache.invalidated != 1 {
		t.Errorf("expected 1 invalidation, got %d", cache.invalidated)
	}
}

func TestCycles_Endpoint(t *testing.T) {
	st := newMockStore()
	a, _ := st.CreateGoal(context.Background(), "a", 0)
	b, _ := st.CreateGoal(context.Background(), "b", 0)
	st.AddGoalDependency(context.Background(), a, b)
	st.AddGoalDependency(context.Background(), b, a)

	s := newTestServer(t, st)

	rec := doRequest(s, http.MethodGet, "/v1/goals/cycles", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cycles returned %d", rec.Code)
	}

	var report engine.CycleReport
	json.NewDecoder(rec.Body).Decode(&report)
	if len(report.Groups) != 1 || len(report.Groups[0]) != 2 {
		t.Errorf("unexpected cycle report %+v", report)
	}
}

func TestReports_RollupCSV(t *testing.T) {
	st := newMockStore()
	food, _ := st.CreateCategory(context.Background(), "food")
	st.AddTransaction(context.Background(), &store.Transaction{CategoryID: food, AmountCents: 250})

	s := newTestServer(t, st)

	rec := doRequest(s, http.MethodGet, fmt.Sprintf("/v1/reports?type=rollup&root=%d", food), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("report returned %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if !strings.Contains(rec.Body.String(), "total,250") {
		t.Errorf("unexpected report body %q", rec.Body.String())
	}
}

func TestReports_ArchivedToDisk(t *testing.T) {
	st := newMockStore()
	food, _ := st.CreateCategory(context.Background(), "food")
	st.AddTransaction(context.Background(), &store.Transaction{CategoryID: food, AmountCents: 250})

	s := newTestServer(t, st)
	archive := reports.NewArchive(t.TempDir())
	s.SetReportArchive(archive)

	rec := doRequest(s, http.MethodGet, fmt.Sprintf("/v1/reports?type=rollup&root=%d", food), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("report returned %d: %s", rec.Code, rec.Body.String())
	}

	names, err := archive.List(context.Background(), "rollup-")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected 1 archived report, got %v", names)
	}

	rc, err := archive.Open(context.Background(), names[0])
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != rec.Body.String() {
		t.Errorf("archived report differs from served report")
	}
}

func TestReports_UnknownType(t *testing.T) {
	s := newTestServer(t, newMockStore())
	if rec := doRequest(s, http.MethodGet, "/v1/reports?type=bogus", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown report type should 400, got %d", rec.Code)
	}
}

func TestIdentities_GeneratesToken(t *testing.T) {
	st := newMockStore()
	s := newTestServer(t, st)

	rec := doRequest(s, http.MethodPost, "/v1/identities", IdentityRegistration{IdentityID: "alex"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("register identity returned %d", rec.Code)
	}

	var resp IdentityResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatal("expected generated token in response")
	}

	// The returned token authenticates subsequent requests.
	rec = doRequest(s, http.MethodPost, "/v1/goals", CreateGoalRequest{Name: "vacation"}, resp.Token)
	if rec.Code != http.StatusOK {
		t.Errorf("goal create with new token returned %d", rec.Code)
	}
}
