package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quizlab/quizd/internal/quiz/domain"
	"github.com/quizlab/quizd/internal/quiz/store"
	"github.com/quizlab/quizd/pkg/cryptox"
	"github.com/quizlab/quizd/pkg/jwtx"
	"github.com/quizlab/quizd/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// AuthService verifies username/password pairs against the credential store
// and issues signed scoped access tokens.
type AuthService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Authenticate looks the username up and verifies the password against the
// stored hash. Unknown usernames and wrong passwords produce the same error
// so the response does not leak which accounts exist.
func (s *AuthService) Authenticate(
	ctx context.Context,
	username, password string,
) (domain.User, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("username", username))
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}

// IssueToken signs an access token for the user carrying the requested
// scopes. Scopes are issued exactly as requested, without intersecting with
// the user's role; the role check on admin endpoints is the backstop for
// over-broad scope requests.
func (s *AuthService) IssueToken(
	user domain.User,
	requestedScopes []string,
) (domain.TokenPair, error) {
	claims := jwtx.NewAccessClaims(
		user.Username,
		dedupe(requestedScopes),
		s.AccessTTL,
		s.Issuer,
		time.Now(),
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.AccessTTL,
	}, nil
}

// ResolvePrincipal maps a verified token subject back to a live account.
// A subject that no longer exists in the store does not resolve, so tokens
// for deleted users stop working immediately.
func (s *AuthService) ResolvePrincipal(
	ctx context.Context,
	subject string,
) (domain.Principal, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, subject)
	if err != nil {
		return domain.Principal{}, err
	}
	return u.Principal(), nil
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
