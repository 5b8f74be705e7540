package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rmax-ai/budgetlord/pkg/engine"
	"github.com/rmax-ai/budgetlord/pkg/reports"
	"github.com/rmax-ai/budgetlord/pkg/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_encode_response","error":"%v"}`+"\n", err)
	}
}

// handleCategories serves GET (list) and POST (create, authenticated).
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.store.ListCategories(r.Context())
		if err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_list_categories","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, cats)
	case http.MethodPost:
		s.withAuth(s.createCategory)(w, r)
	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
		return
	}

	id, err := s.store.CreateCategory(r.Context(), req.Name)
	if err != nil {
		http.Error(w, `{"error":"category_create_failed"}`, http.StatusConflict)
		return
	}

	if req.ParentID != 0 {
		if err := s.store.LinkCategories(r.Context(), req.ParentID, id); err != nil {
			http.Error(w, `{"error":"category_link_failed"}`, http.StatusInternalServerError)
			return
		}
	}

	s.refreshHierarchy(r)
	writeJSON(w, http.StatusOK, CreateCategoryResponse{ID: id})
}

func (s *Server) handleCategoryLinks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req LinkCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}
	if req.ParentID == 0 || req.ChildID == 0 {
		http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
		return
	}

	if err := s.store.LinkCategories(r.Context(), req.ParentID, req.ChildID); err != nil {
		http.Error(w, `{"error":"category_link_failed"}`, http.StatusInternalServerError)
		return
	}

	s.refreshHierarchy(r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "linked"})
}

// refreshHierarchy rebuilds the category graph and drops stale cached
// rollups after any mutation that can change subtree membership or totals.
func (s *Server) refreshHierarchy(r *http.Request) {
	if err := s.categories.Refresh(r.Context()); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_refresh_hierarchy","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
	}
	if s.cache != nil {
		s.cache.Invalidate(r.Context())
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := store.TransactionFilter{}
		if v := r.URL.Query().Get("category"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, `{"error":"invalid_category"}`, http.StatusBadRequest)
				return
			}
			filter.CategoryIDs = []int64{id}
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, `{"error":"invalid_limit"}`, http.StatusBadRequest)
				return
			}
			filter.Limit = limit
		}

		txs, err := s.store.ListTransactions(r.Context(), filter)
		if err != nil {
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	case http.MethodPost:
		s.withAuth(s.addTransaction)(w, r)
	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (s *Server) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}
	if req.CategoryID == 0 {
		http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
		return
	}

	id, err := s.store.AddTransaction(r.Context(), &store.Transaction{
		CategoryID:  req.CategoryID,
		AmountCents: req.AmountCents,
		Note:        req.Note,
	})
	if err != nil {
		http.Error(w, `{"error":"transaction_insert_failed"}`, http.StatusInternalServerError)
		return
	}

	// Totals changed; cached rollups are stale.
	if s.cache != nil {
		s.cache.Invalidate(r.Context())
	}
	writeJSON(w, http.StatusOK, AddTransactionResponse{ID: id})
}

func (s *Server) handleRollup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	root, err := strconv.ParseInt(r.URL.Query().Get("root"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid_root"}`, http.StatusBadRequest)
		return
	}

	mode := engine.TraversalMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = engine.TraversalBFS
	}
	if mode != engine.TraversalBFS && mode != engine.TraversalDFS {
		http.Error(w, `{"error":"invalid_mode"}`, http.StatusBadRequest)
		return
	}

	if s.cache != nil && mode == engine.TraversalBFS {
		if res, ok := s.cache.Get(r.Context(), root); ok {
			w.Header().Set("X-Budgetlord-Cache", "hit")
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	res, err := s.categories.Rollup(r.Context(), root, mode)
	if err != nil {
		fmt.Printf(`{"level":"error","msg":"rollup_failed","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"rollup_failed"}`, http.StatusInternalServerError)
		return
	}

	if s.cache != nil && mode == engine.TraversalBFS {
		s.cache.Set(r.Context(), res)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals, err := s.store.ListGoals(r.Context())
		if err != nil {
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, goals)
	case http.MethodPost:
		s.withAuth(s.createGoal)(w, r)
	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
		return
	}

	id, err := s.store.CreateGoal(r.Context(), req.Name, req.TargetCents)
	if err != nil {
		http.Error(w, `{"error":"goal_create_failed"}`, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, CreateGoalResponse{ID: id})
}

func (s *Server) handleGoalDeps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req AddGoalDepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}
	if req.GoalID == 0 || req.DependsOnID == 0 {
		http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
		return
	}

	if err := s.store.AddGoalDependency(r.Context(), req.GoalID, req.DependsOnID); err != nil {
		http.Error(w, `{"error":"goal_dep_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	report, err := s.goals.Cycles(r.Context())
	if err != nil {
		fmt.Printf(`{"level":"error","msg":"cycle_analysis_failed","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"cycle_analysis_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	reportType := reports.ReportType(r.URL.Query().Get("type"))
	gen, err := reports.NewReportGenerator(reportType, s.categories, s.goals, s.store)
	if err != nil {
		http.Error(w, `{"error":"unknown_report_type"}`, http.StatusBadRequest)
		return
	}

	params := reports.ReportParams{Mode: engine.TraversalBFS}
	if v := r.URL.Query().Get("root"); v != "" {
		root, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid_root"}`, http.StatusBadRequest)
			return
		}
		params.RootID = root
	} else if reportType == reports.ReportTypeRollup {
		http.Error(w, `{"error":"missing_root"}`, http.StatusBadRequest)
		return
	}

	out, err := gen.Generate(r.Context(), params)
	if err != nil {
		fmt.Printf(`{"level":"error","msg":"report_failed","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"report_failed"}`, http.StatusInternalServerError)
		return
	}

	data, err := io.ReadAll(out)
	if err != nil {
		http.Error(w, `{"error":"report_failed"}`, http.StatusInternalServerError)
		return
	}

	if s.archive != nil {
		name := fmt.Sprintf("%s-%s.csv", reportType, time.Now().UTC().Format("20060102T150405"))
		if err := s.archive.Save(r.Context(), name, data); err != nil {
			// Archiving is best effort; the caller still gets their report.
			fmt.Printf(`{"level":"error","msg":"report_archive_failed","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		fmt.Printf(`{"level":"error","msg":"report_write_failed","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
	}
}

func (s *Server) handleIdentities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req IdentityRegistration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}
	if req.IdentityID == "" {
		http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = "user"
	}

	token := req.Token
	generated := false
	if token == "" {
		token = generateToken()
		generated = true
	}

	if err := s.store.RegisterIdentity(r.Context(), req.IdentityID, kind, hashToken(token)); err != nil {
		http.Error(w, `{"error":"identity_register_failed"}`, http.StatusInternalServerError)
		return
	}

	resp := IdentityResponse{IdentityID: req.IdentityID}
	if generated {
		resp.Token = token
	}
	writeJSON(w, http.StatusOK, resp)
}
