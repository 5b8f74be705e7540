package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/goals/cycles":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"groups":[[1,2]],"goal_count":3}`))
		case "/v1/rollup":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"root_id":4,"category_ids":[4,5],"total_cents":900}`))
		case "/v1/categories":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":1,"name":"food"}]`))
		default:
			http.NotFound(w, r)
		}
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestMCPServer_ReadCycles(t *testing.T) {
	ts := newTestAPI(t)
	s := NewServer(ts.URL)

	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: "budgetlord://cycles",
		},
	}

	result, err := s.handleReadCycles(context.Background(), req)
	if err != nil {
		t.Fatalf("handleReadCycles failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 resource content, got %d", len(result))
	}

	content, ok := result[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("Expected TextResourceContents")
	}
	if !strings.Contains(content.Text, `"goal_count": 3`) {
		t.Errorf("unexpected resource text: %s", content.Text)
	}
}

func TestMCPServer_CategoryRollupTool(t *testing.T) {
	ts := newTestAPI(t)
	s := NewServer(ts.URL)

	req := mcp.CallToolRequest{}
	req.Params.Name = "category_rollup"
	req.Params.Arguments = map[string]interface{}{
		"root_id": float64(4),
	}

	result, err := s.handleCategoryRollup(context.Background(), req)
	if err != nil {
		t.Fatalf("handleCategoryRollup failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error result: %+v", result)
	}

	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("expected text content")
	}
	if !strings.Contains(text.Text, "total 900 cents") {
		t.Errorf("unexpected tool result: %s", text.Text)
	}
}

func TestMCPServer_UnknownPrompt(t *testing.T) {
	ts := newTestAPI(t)
	s := NewServer(ts.URL)

	req := mcp.GetPromptRequest{}
	req.Params.Name = "nope"

	if _, err := s.handleGetPrompt(context.Background(), req); err == nil {
		t.Error("expected error for unknown prompt")
	}
}
