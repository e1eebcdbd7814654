package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"nunchakuclub/internal/cache"
	"nunchakuclub/internal/result"
)

// serveCached answers from the response cache when it holds key, and
// otherwise runs load and stores its encoded value. Failures are never
// cached. A nil cache always misses.
func serveCached[T any](w http.ResponseWriter, r *http.Request, rc *cache.ResponseCache, key string, load func() result.Result[T]) {
	if body, ok := rc.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		_, _ = w.Write(body)
		return
	}

	res := load()
	if fail(w, res) {
		return
	}
	body, err := json.Marshal(res.Value())
	if err != nil {
		slog.Error("encode response failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	rc.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	_, _ = w.Write(body)
}
