package httpx

import "context"

// Principal is the caller identity resolved by the authentication
// middleware: token subject re-checked against the credential store.
type Principal struct {
	ID       string
	Username string
	Role     string
}

type ctxKey string

const (
	CtxKeyPrincipal ctxKey = "principal"
	CtxKeyScopes    ctxKey = "scopes"
)

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
