package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/quizlab/quizd/internal/quiz/service"
	"github.com/quizlab/quizd/internal/quiz/store"
	"github.com/quizlab/quizd/pkg/httpx"
	"github.com/quizlab/quizd/pkg/jwtx"
	"github.com/quizlab/quizd/pkg/slogx"
)

// AdminScope gates the question-append endpoint. The token must carry it
// AND the resolved account must hold the admin role.
const AdminScope = "admin"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	QuizService *service.QuizService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Default middleware chain applied to every route.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerQuestions()
	r.registerAdmin()
	r.registerSystem()
}

func (r *Router) registerAuth() {
	// POST /token - strict rate limit by IP + username to slow brute force.
	tokenHandler := &TokenHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)
}

func (r *Router) registerQuestions() {
	resolver := principalResolver{auth: r.AuthService}

	// Authenticated read endpoints: valid token required, no scopes.
	secure := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier, resolver),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /uses", secure(&UsesHandler{QuizService: r.QuizService}))
	r.Mux.Handle("GET /subjects", secure(&SubjectsHandler{QuizService: r.QuizService}))
	r.Mux.Handle("GET /questions", secure(&QuestionsHandler{QuizService: r.QuizService}))
}

func (r *Router) registerAdmin() {
	resolver := principalResolver{auth: r.AuthService}

	// POST /admin - admin scope AND admin role. The role check is a second,
	// independent gate: scopes are issued as requested at login, so a token
	// can claim "admin" while the account's stored role says otherwise.
	secured := httpx.Chain(&AdminHandler{QuizService: r.QuizService},
		httpx.AuthnMiddleware(r.verifier, resolver),
		httpx.RequireAllScopes(AdminScope),
		httpx.RequireRole("admin"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /admin", secured)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// principalResolver adapts AuthService to the middleware's resolver
// interface.
type principalResolver struct {
	auth *service.AuthService
}

func (pr principalResolver) ResolvePrincipal(
	ctx context.Context,
	subject string,
) (httpx.Principal, error) {
	p, err := pr.auth.ResolvePrincipal(ctx, subject)
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{
		ID:       p.ID,
		Username: p.Username,
		Role:     string(p.Role),
	}, nil
}
