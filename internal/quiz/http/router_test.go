package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	quizhttp "github.com/quizlab/quizd/internal/quiz/http"
	"github.com/quizlab/quizd/internal/quiz/domain"
	"github.com/quizlab/quizd/internal/quiz/service"
	"github.com/quizlab/quizd/internal/quiz/store"
	"github.com/quizlab/quizd/internal/quiz/store/drivers/sqlite"
	"github.com/quizlab/quizd/pkg/httpx"
	"github.com/quizlab/quizd/pkg/idx"
	"github.com/quizlab/quizd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var e2eSecret = []byte("0123456789abcdef0123456789abcdef")

const e2eIssuer = "quizd-test"

// newTestServer stands up the full router over a seeded sqlite store, the
// same wiring the application performs at startup.
func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "quizd_e2e.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	ctx := context.Background()
	seed := &service.SeedService{Store: st}
	require.NoError(t, seed.Run(ctx))

	// The starter bank is too small for a full questionnaire; widen one
	// subject so nb_questions=5 has a pool to draw from.
	for i := 0; i < 6; i++ {
		q := domain.Question{
			ID:        idx.New().String(),
			Question:  fmt.Sprintf("question supplémentaire %d", i),
			Subject:   "Bases de données NoSQL",
			Use:       "Test de positionnement",
			Correct:   "a",
			ResponseA: "a",
			ResponseB: "b",
			ResponseC: "c",
		}
		require.NoError(t, st.Questions().CreateQuestion(ctx, q))
	}

	signer, err := jwtx.NewSignerHS256(e2eSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(e2eSecret, e2eIssuer)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := quizhttp.NewRouter(signer, verifier, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:     st,
		Signer:    signer,
		Issuer:    e2eIssuer,
		AccessTTL: jwtx.DefaultAccessTokenTTL,
	}
	router.QuizService = &service.QuizService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, st
}

func login(t *testing.T, srv *httptest.Server, username, password, scope string) (*nethttp.Response, []byte) {
	t.Helper()

	form := url.Values{
		"username": {username},
		"password": {password},
	}
	if scope != "" {
		form.Set("scope", scope)
	}

	resp, err := srv.Client().Post(srv.URL+"/token",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

func loginToken(t *testing.T, srv *httptest.Server, username, password, scope string) string {
	t.Helper()

	resp, body := login(t, srv, username, password, scope)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

	var tr quizhttp.TokenResponse
	require.NoError(t, json.Unmarshal(body, &tr))
	require.Equal(t, "bearer", tr.TokenType)
	require.NotEmpty(t, tr.AccessToken)
	return tr.AccessToken
}

func doGet(t *testing.T, srv *httptest.Server, path, token string) (*nethttp.Response, []byte) {
	t.Helper()

	req, err := nethttp.NewRequest(nethttp.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

func postJSON(t *testing.T, srv *httptest.Server, path, token string, payload any) (*nethttp.Response, []byte) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := nethttp.NewRequest(nethttp.MethodPost, srv.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

func detailOf(t *testing.T, body []byte) string {
	t.Helper()

	var d httpx.DetailResponse
	require.NoError(t, json.Unmarshal(body, &d))
	return d.Detail
}

func TestAPI(t *testing.T) {
	srv, _ := newTestServer(t)

	// One login per identity; tokens are reused across subtests to stay
	// inside the login endpoint's per-username rate budget.
	adminToken := loginToken(t, srv, "admin", "4dm1N", "admin")
	aliceAdminScope := loginToken(t, srv, "alice", "wonderland", "admin")
	aliceToken := loginToken(t, srv, "alice", "wonderland", "")

	t.Run("login rejects bad password", func(t *testing.T) {
		resp, body := login(t, srv, "bob", "not-builder", "")
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
		require.Equal(t, "Incorrect username or password", detailOf(t, body))
	})

	t.Run("login rejects missing fields", func(t *testing.T) {
		resp, err := srv.Client().Post(srv.URL+"/token",
			"application/x-www-form-urlencoded",
			strings.NewReader("username=clementine"))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("uses requires a token", func(t *testing.T) {
		resp, body := doGet(t, srv, "/uses", "")
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Could not validate credentials", detailOf(t, body))
	})

	t.Run("uses with a valid token", func(t *testing.T) {
		resp, body := doGet(t, srv, "/uses", aliceToken)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)

		var uses []string
		require.NoError(t, json.Unmarshal(body, &uses))
		require.Contains(t, uses, "Test de positionnement")
		require.Contains(t, uses, "Test de validation")
	})

	t.Run("subjects for a known use", func(t *testing.T) {
		resp, body := doGet(t, srv,
			"/subjects?use="+url.QueryEscape("Test de positionnement"), aliceToken)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)

		var subjects []string
		require.NoError(t, json.Unmarshal(body, &subjects))
		require.Contains(t, subjects, "Bases de données NoSQL")
	})

	t.Run("subjects for an unknown use", func(t *testing.T) {
		resp, body := doGet(t, srv, "/subjects?use=nope", aliceToken)
		require.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
		require.Equal(t, "The type of test chosen is not in the database", detailOf(t, body))
	})

	t.Run("questionnaire of five", func(t *testing.T) {
		q := url.Values{
			"use":          {"Test de positionnement"},
			"subject":      {"Bases de données NoSQL"},
			"nb_questions": {"5"},
		}
		resp, body := doGet(t, srv, "/questions?"+q.Encode(), aliceToken)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

		var decoded map[string]domain.QuizItem
		require.NoError(t, json.Unmarshal(body, &decoded))
		require.Len(t, decoded, 5)
		require.Contains(t, decoded, "Question 1")
		require.Contains(t, decoded, "Question 5")
		require.NotContains(t, string(body), "correct")
	})

	t.Run("questionnaire with bad count parameter", func(t *testing.T) {
		q := url.Values{
			"use":          {"Test de positionnement"},
			"subject":      {"Bases de données NoSQL"},
			"nb_questions": {"five"},
		}
		resp, _ := doGet(t, srv, "/questions?"+q.Encode(), aliceToken)
		require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("questionnaire with foreign subject", func(t *testing.T) {
		q := url.Values{
			"use":          {"Test de positionnement"},
			"subject":      {"Classification"},
			"nb_questions": {"5"},
		}
		resp, body := doGet(t, srv, "/questions?"+q.Encode(), aliceToken)
		require.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
		require.Equal(t, "One or several subjects not in the type selected", detailOf(t, body))
	})

	newQuestion := domain.Question{
		Question:  "Quel protocole sécurise HTTP ?",
		Subject:   "Réseaux",
		Use:       "Test de positionnement",
		Correct:   "TLS",
		ResponseA: "TLS",
		ResponseB: "FTP",
		ResponseC: "SMTP",
	}

	t.Run("admin appends a question", func(t *testing.T) {
		resp, body := postJSON(t, srv, "/admin", adminToken, newQuestion)
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode, string(body))

		var created quizhttp.QuestionCreatedResponse
		require.NoError(t, json.Unmarshal(body, &created))
		require.Equal(t, "The new question was created", created.Status)
		require.Equal(t, newQuestion.Question, created.CreatedItem.Question)
	})

	t.Run("admin scope without admin role", func(t *testing.T) {
		// alice asked for (and received) the admin scope at login, but her
		// stored role is plain user. The role gate must stop her.
		resp, body := postJSON(t, srv, "/admin", aliceAdminScope, newQuestion)
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Not authorized", detailOf(t, body))
	})

	t.Run("token without admin scope", func(t *testing.T) {
		resp, body := postJSON(t, srv, "/admin", aliceToken, newQuestion)
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Not enough permissions", detailOf(t, body))
	})

	t.Run("admin appending an incomplete question", func(t *testing.T) {
		bad := newQuestion
		bad.Correct = ""
		resp, _ := postJSON(t, srv, "/admin", adminToken, bad)
		require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("health probes", func(t *testing.T) {
		resp, body := doGet(t, srv, "/livez", "")
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)

		var health quizhttp.HealthResponse
		require.NoError(t, json.Unmarshal(body, &health))
		require.Equal(t, "ok", health.Status)

		resp, body = doGet(t, srv, "/readyz", "")
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &health))
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
	})
}

func TestTokenSubjectMustResolve(t *testing.T) {
	srv, _ := newTestServer(t)

	// A token signed with the right key but naming an account that is not
	// in the credential store must not authenticate.
	signer, err := jwtx.NewSignerHS256(e2eSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("ghost", nil, jwtx.DefaultAccessTokenTTL, e2eIssuer, time.Now())
	ghost, err := signer.Sign(claims)
	require.NoError(t, err)

	resp, body := doGet(t, srv, "/uses", ghost)
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Could not validate credentials", detailOf(t, body))
}
