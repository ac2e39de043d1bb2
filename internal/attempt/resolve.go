package attempt

import (
	"context"
	"net/url"
	"strings"

	"quiz-taker/internal/domain"
)

// ResolveQuizID extracts the quiz id from a pasted quiz link or bare id.
// Lookup order follows the backend's links: query ?id=, then hash #id=,
// then the stored active quiz. An empty result is ErrNoQuizID.
func ResolveQuizID(ctx context.Context, raw string, store AttemptStore) (string, error) {
	raw = strings.TrimSpace(raw)

	if raw != "" && !looksLikeLink(raw) {
		return raw, nil
	}

	if raw != "" {
		if id := idFromLink(raw); id != "" {
			return id, nil
		}
	}

	if store != nil {
		if id, ok := store.ActiveQuiz(ctx); ok && id != "" {
			return id, nil
		}
	}
	return "", domain.ErrNoQuizID
}

func looksLikeLink(raw string) bool {
	return strings.ContainsAny(raw, "?#/") || strings.Contains(raw, "://")
}

func idFromLink(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("id"); id != "" {
		return id
	}
	// Hash links look like #id=abc or #/take?id=abc.
	frag := u.Fragment
	if i := strings.IndexByte(frag, '?'); i >= 0 {
		frag = frag[i+1:]
	}
	frag = strings.TrimPrefix(frag, "/")
	if vals, err := url.ParseQuery(frag); err == nil {
		if id := vals.Get("id"); id != "" {
			return id
		}
	}
	return ""
}
