package handlers

import (
	"net/http"

	"github.com/premiun-cakes/api/internal/platform/httpx"
)

// EnforceOrigin rejects state-changing requests whose Origin header names a
// site outside the allowed list. Requests without an Origin header pass,
// so curl and server-to-server calls keep working. An empty list disables
// the check.
func EnforceOrigin(allowed []string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		allowedSet[origin] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowedSet) > 0 && r.Method != http.MethodGet && r.Method != http.MethodOptions {
				if origin := r.Header.Get("Origin"); origin != "" {
					if _, ok := allowedSet[origin]; !ok {
						httpx.WriteError(r.Context(), w, httpx.NewError("forbidden_origin", "origin not allowed", http.StatusForbidden))
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
