package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/agent"
	"github.com/logis-assistant/server/internal/agent/conversations"
	"github.com/logis-assistant/server/internal/agent/model"
	"github.com/logis-assistant/server/internal/agent/repo"
	"github.com/logis-assistant/server/internal/agent/router"
	"github.com/logis-assistant/server/internal/agent/tools"
	"github.com/logis-assistant/server/internal/feedback"
	"github.com/logis-assistant/server/internal/inventory"
	"github.com/logis-assistant/server/pkg/sqlitedb"
)

// echoEngine answers every delegated request with fixed text.
type echoEngine struct {
	answer string
}

func (e echoEngine) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	return schema.AssistantMessage(e.answer, nil), nil
}

func (e echoEngine) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type nopFeedback struct{}

func (nopFeedback) Append(ctx context.Context, question, answer string) error { return nil }
func (nopFeedback) RecentN(ctx context.Context, n int) ([]feedback.Record, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (*Server, *conversations.SessionManager) {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := inventory.NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO productos (material, cantidad, precio, minimo) VALUES ('nafta super 10l', 40, 15000, 10)`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sessions := conversations.NewSessionManager(repo.NewMemoryConversationRepository())
	a := agent.New(agent.Config{
		Engine:    echoEngine{answer: "Hay 40 unidades."},
		Registry:  tools.NewRegistry(tools.Deps{Store: store, Resolver: inventory.NewResolver(store)}),
		Responder: router.NewResponder(store),
		Sessions:  sessions,
		Feedback:  nopFeedback{},
		Prompt:    model.PromptConfig{AssistantName: "Logis", BusinessLine: "combustibles", RecallLimit: 3},
	})
	return New(a, store, sessions), sessions
}

func TestHandleChat(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"message":"cuanto queda de nafta?","session_id":"abc"}`))
	rec := httptest.NewRecorder()
	s.handleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Response  string `json:"response"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Response != "Hay 40 unidades." || resp.SessionID != "abc" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleChatMintsSessionID(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hola"}`))
	rec := httptest.NewRecorder()
	s.handleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SessionID == "" {
		t.Errorf("expected a minted session id")
	}
}

func TestHandleChatRejectsEmptyMessage(t *testing.T) {
	s, _ := newTestServer(t)

	for _, body := range []string{`{"message":"  "}`, `{}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.handleChat(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleClearSession(t *testing.T) {
	s, sessions := newTestServer(t)
	ctx := context.Background()

	// One chat turn leaves the user message and the answer in the log.
	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"message":"cuanto queda de nafta?","session_id":"abc"}`))
	rec := httptest.NewRecorder()
	s.handleChat(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/sessions/abc", nil)
	req.SetPathValue("id", "abc")
	rec = httptest.NewRecorder()
	s.handleClearSession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		SessionID string `json:"session_id"`
		Cleared   int    `json:"cleared"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SessionID != "abc" || resp.Cleared != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}

	if n, err := sessions.Size(ctx, "abc"); err != nil || n != 0 {
		t.Errorf("log after clear = %d, %v; want empty", n, err)
	}
}

func TestHandleClearSessionMissingID(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/", nil)
	rec := httptest.NewRecorder()
	s.handleClearSession(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Status   string `json:"status"`
		Products int    `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ok" || resp.Products != 1 {
		t.Errorf("unexpected health: %+v", resp)
	}
}
