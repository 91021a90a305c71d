package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/quizlab/quizd/pkg/jwtx"
	"github.com/quizlab/quizd/pkg/slogx"
)

// PrincipalResolver maps a verified token subject back to a live account.
// Resolution failing means the subject no longer exists; an old token for a
// deleted user must not authenticate.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, subject string) (Principal, error)
}

// AuthnMiddleware verifies the bearer token and resolves its subject against
// the credential store. On success the principal and the token's scope claim
// are injected into the request context. Every failure mode (missing header,
// undecodable token, empty subject, unresolvable subject) is reported with
// the same reason so callers learn nothing about which check tripped.
func AuthnMiddleware(v jwtx.Verifier, resolver PrincipalResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				writeBearerError(w)
				return
			}

			if claims.Subject == "" {
				writeBearerError(w)
				return
			}

			principal, err := resolver.ResolvePrincipal(ctx, claims.Subject)
			if err != nil {
				log.Warn("token subject not resolvable", "subject", claims.Subject, "err", err)
				writeBearerError(w)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyPrincipal, principal)
			ctx = context.WithValue(ctx, CtxKeyScopes, claims.Scopes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}
