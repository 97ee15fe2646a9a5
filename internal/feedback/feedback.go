package feedback

import (
	"context"
	"sort"
	"strings"

	"github.com/logis-assistant/server/internal/inventory"
	logx "github.com/logis-assistant/server/pkg/logger"
)

// Record is a past question/answer pair. Records are append-only; the core
// never mutates or deletes them.
type Record struct {
	Question string
	Answer   string
}

// Match is a recalled record annotated with its token-overlap score.
type Match struct {
	Score    int
	Question string
	Answer   string
}

// Store is the persistence contract for feedback records.
type Store interface {
	// Append stores one completed question/answer pair.
	Append(ctx context.Context, question, answer string) error

	// RecentN returns up to n records, most recent first.
	RecentN(ctx context.Context, n int) ([]Record, error)
}

// recallWindow bounds how many recent records a recall scans. The bound
// controls cost, not correctness.
const recallWindow = 100

// minRecallScore is the minimum token overlap for a record to qualify.
const minRecallScore = 2

// Recall returns up to limit stored records whose questions overlap the
// current question by at least two tokens (whitespace-separated words longer
// than three characters), sorted descending by score. It is advisory
// grounding context for the reasoning engine and degrades silently to nothing
// on failure.
func Recall(ctx context.Context, store Store, question string, limit int) []Match {
	tokens := recallTokens(question)
	if len(tokens) == 0 {
		return nil
	}

	records, err := store.RecentN(ctx, recallWindow)
	if err != nil {
		logx.Warn().Err(err).Msg("feedback recall unavailable; continuing without context")
		return nil
	}

	var matches []Match
	for _, rec := range records {
		stored := inventory.Normalize(rec.Question)
		score := 0
		for _, t := range tokens {
			if stored != "" && containsToken(stored, t) {
				score++
			}
		}
		if score >= minRecallScore {
			matches = append(matches, Match{Score: score, Question: rec.Question, Answer: rec.Answer})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// recallTokens splits on whitespace only, so compound words like "5w-40"
// stay whole and score as one token.
func recallTokens(question string) []string {
	var tokens []string
	for _, f := range strings.Fields(inventory.Normalize(question)) {
		if len([]rune(f)) > 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func containsToken(s, token string) bool {
	return token != "" && strings.Contains(s, token)
}
