package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

type contextKey string

const ownerKey contextKey = "owner_id"

// Owner authenticates requests via the X-User-ID header set by the
// fronting auth proxy and stores the owner id in the request context.
// A missing or malformed header is rejected with 400.
func Owner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-ID")
			ownerID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || ownerID <= 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    "bad_request",
					"message": "missing or invalid X-User-ID header",
				})
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerID extracts the authenticated owner id from the request context.
// It is zero when the Owner middleware did not run.
func OwnerID(ctx context.Context) int64 {
	id, _ := ctx.Value(ownerKey).(int64)
	return id
}
