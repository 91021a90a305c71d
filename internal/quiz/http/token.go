package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/quizlab/quizd/internal/quiz/service"
	"github.com/quizlab/quizd/pkg/httpx"
	"github.com/quizlab/quizd/pkg/slogx"
)

// TokenHandler serves POST /token.
// Accepts application/x-www-form-urlencoded in the OAuth2 password-form
// shape: username, password, and an optional space-delimited scope list.
type TokenHandler struct {
	AuthService *service.AuthService
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		httpx.WriteDetail(w, http.StatusBadRequest, "Invalid content type")
		return
	}

	if err := r.ParseForm(); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")
	scopes := httpx.ParseSpaceDelimitedFields(r.Form.Get("scope"))

	if username == "" || password == "" {
		httpx.WriteDetail(w, http.StatusBadRequest, "Missing username or password")
		return
	}

	user, err := h.AuthService.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httpx.WriteDetail(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	pair, err := h.AuthService.IssueToken(user, scopes)
	if err != nil {
		log.Error("failed to sign access token", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
	})
}
