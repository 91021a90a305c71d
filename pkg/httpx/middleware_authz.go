package httpx

import (
	"net/http"
	"strings"
)

// RequireAllScopes enforces that the caller's token carries every scope
// listed. An empty required set degrades to authentication-only, which is
// how plain (non-privileged) endpoints are gated.
func RequireAllScopes(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := make(map[string]struct{})
			for _, s := range scopesFromCtx(r.Context()) {
				have[s] = struct{}{}
			}

			for _, req := range required {
				if _, ok := have[req]; !ok {
					writeBearerScopeError(w, required...)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole enforces that the resolved principal's stored role matches.
// This is an independent check on top of scope membership: a token whose
// scope claim and the account's actual role have diverged stops here.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || p.Role != role {
				w.Header().Set("WWW-Authenticate", "Bearer")
				WriteDetail(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeBearerScopeError(w http.ResponseWriter, required ...string) {
	w.Header().Set("WWW-Authenticate", `Bearer scope="`+strings.Join(required, " ")+`"`)
	WriteDetail(w, http.StatusUnauthorized, "Not enough permissions")
}
