package conversations

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/agent/repo"
)

func TestSeedDelegate(t *testing.T) {
	m := NewSessionManager(repo.NewMemoryConversationRepository())
	ctx := context.Background()

	msgs, err := m.SeedDelegate(ctx, "s1", "instrucciones", "primera pregunta")
	if err != nil {
		t.Fatalf("SeedDelegate: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want system + user", len(msgs))
	}
	if msgs[0].Role != schema.System || msgs[0].Content != "instrucciones" {
		t.Errorf("head = %+v", msgs[0])
	}
	if msgs[1].Role != schema.User || msgs[1].Content != "primera pregunta" {
		t.Errorf("tail = %+v", msgs[1])
	}

	if err := m.SaveAnswer(ctx, "s1", "primera respuesta"); err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}

	// A later turn replays history but not the previous system instruction.
	msgs, err = m.SeedDelegate(ctx, "s1", "instrucciones nuevas", "segunda pregunta")
	if err != nil {
		t.Fatalf("SeedDelegate: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want system + 3 turns", len(msgs))
	}
	if msgs[0].Content != "instrucciones nuevas" {
		t.Errorf("system instruction not rebuilt: %q", msgs[0].Content)
	}
	if msgs[2].Role != schema.Assistant || msgs[2].Content != "primera respuesta" {
		t.Errorf("history missing saved answer: %+v", msgs[2])
	}
	if msgs[3].Content != "segunda pregunta" {
		t.Errorf("new question not last: %+v", msgs[3])
	}
}

func TestClearAndSize(t *testing.T) {
	m := NewSessionManager(repo.NewMemoryConversationRepository())
	ctx := context.Background()

	if _, err := m.SeedDelegate(ctx, "s1", "sys", "pregunta"); err != nil {
		t.Fatalf("SeedDelegate: %v", err)
	}
	if err := m.SaveAnswer(ctx, "s1", "respuesta"); err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}

	if n, err := m.Size(ctx, "s1"); err != nil || n != 2 {
		t.Errorf("Size = %d, %v; want 2", n, err)
	}

	if err := m.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, err := m.Size(ctx, "s1"); err != nil || n != 0 {
		t.Errorf("Size after clear = %d, %v; want 0", n, err)
	}

	// A cleared session starts over with just the new turn.
	msgs, err := m.SeedDelegate(ctx, "s1", "sys", "otra pregunta")
	if err != nil {
		t.Fatalf("SeedDelegate: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("got %d messages after clear, want system + user", len(msgs))
	}
}

func TestHistoryIsolatedPerSession(t *testing.T) {
	m := NewSessionManager(repo.NewMemoryConversationRepository())
	ctx := context.Background()

	if _, err := m.SeedDelegate(ctx, "a", "sys", "hola a"); err != nil {
		t.Fatalf("SeedDelegate: %v", err)
	}
	if _, err := m.SeedDelegate(ctx, "b", "sys", "hola b"); err != nil {
		t.Fatalf("SeedDelegate: %v", err)
	}

	hist, err := m.History(ctx, "a")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].Content != "hola a" {
		t.Errorf("session a log = %+v", hist)
	}
}
