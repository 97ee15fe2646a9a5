package inventory

import (
	"context"
	"strings"
)

// Resolver maps a free-text product mention to a canonical inventory key.
//
// The matching policy is deliberately a heuristic, not a ranked search: a
// canonical key appearing as a substring of the normalized input wins
// immediately in iteration order, otherwise the key matching the most input
// tokens (at least two) wins, ties broken by iteration order. No edit
// distance is involved.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the canonical name for the mention, or ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, freeText string) (string, error) {
	names, err := r.store.Names(ctx)
	if err != nil {
		return "", err
	}

	normalized := Normalize(freeText)
	tokens := Tokenize(freeText, 2)

	best, bestScore := "", 0
	for _, name := range names {
		if contains(normalized, name) {
			return name, nil
		}
		score := 0
		for _, t := range tokens {
			if contains(name, t) {
				score++
			}
		}
		if score >= 2 && score > bestScore {
			best, bestScore = name, score
		}
	}
	if best == "" {
		return "", ErrNotFound
	}
	return best, nil
}

// Suggest returns up to max canonical names sharing any token (longer than
// two runes) with the query, for not-found responses.
func (r *Resolver) Suggest(ctx context.Context, freeText string, max int) []string {
	names, err := r.store.Names(ctx)
	if err != nil {
		// Suggestions are best-effort decoration on a miss.
		return nil
	}

	tokens := Tokenize(freeText, 2)
	var out []string
	for _, name := range names {
		for _, t := range tokens {
			if contains(name, t) {
				out = append(out, name)
				break
			}
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

func contains(s, sub string) bool {
	return sub != "" && strings.Contains(s, sub)
}
