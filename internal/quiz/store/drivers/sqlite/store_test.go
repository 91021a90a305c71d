package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quizlab/quizd/internal/quiz/domain"
	"github.com/quizlab/quizd/internal/quiz/store"
	"github.com/quizlab/quizd/internal/quiz/store/drivers/sqlite"
	"github.com/quizlab/quizd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "quizd_test.db")
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	// Re-running against an already migrated database is a no-op.
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsersRepo(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		PasswordHash: "$2a$12$notarealhashbutstoredverbatim",
		Role:         domain.RoleUser,
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("round trip", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, u.Username, got.Username)
		require.Equal(t, u.PasswordHash, got.PasswordHash)
		require.Equal(t, domain.RoleUser, got.Role)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	empty, err = s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestQuestionsRepo(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Questions().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	seed := []domain.Question{
		{
			Question: "q1", Subject: "Bases de données NoSQL", Use: "Test de positionnement",
			Correct: "a", ResponseA: "a", ResponseB: "b", ResponseC: "c", ResponseD: "d",
			Remark: "voir cours 3",
		},
		{
			Question: "q2", Subject: "Bases de données NoSQL", Use: "Test de positionnement",
			Correct: "b", ResponseA: "a", ResponseB: "b", ResponseC: "c",
		},
		{
			Question: "q3", Subject: "Systèmes distribués", Use: "Test de positionnement",
			Correct: "c", ResponseA: "a", ResponseB: "b", ResponseC: "c",
		},
		{
			Question: "q4", Subject: "Classification", Use: "Test de validation",
			Correct: "a", ResponseA: "a", ResponseB: "b", ResponseC: "c",
		},
	}
	for i := range seed {
		seed[i].ID = idx.New().String()
		require.NoError(t, s.Questions().CreateQuestion(ctx, seed[i]))
	}

	t.Run("list uses", func(t *testing.T) {
		uses, err := s.Questions().ListUses(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Test de positionnement", "Test de validation"}, uses)
	})

	t.Run("list subjects", func(t *testing.T) {
		subjects, err := s.Questions().ListSubjects(ctx, "Test de positionnement")
		require.NoError(t, err)
		require.Equal(t, []string{"Bases de données NoSQL", "Systèmes distribués"}, subjects)
	})

	t.Run("list subjects of unknown use is empty", func(t *testing.T) {
		subjects, err := s.Questions().ListSubjects(ctx, "nope")
		require.NoError(t, err)
		require.Empty(t, subjects)
	})

	t.Run("list by use and subjects", func(t *testing.T) {
		got, err := s.Questions().ListByUseAndSubjects(ctx,
			"Test de positionnement", []string{"Bases de données NoSQL"})
		require.NoError(t, err)
		require.Len(t, got, 2)

		byText := map[string]domain.Question{}
		for _, q := range got {
			byText[q.Question] = q
		}
		require.Equal(t, "d", byText["q1"].ResponseD)
		require.Equal(t, "voir cours 3", byText["q1"].Remark)

		// NULL response_d and remark come back as empty strings.
		require.Empty(t, byText["q2"].ResponseD)
		require.Empty(t, byText["q2"].Remark)
	})

	t.Run("filter never crosses uses", func(t *testing.T) {
		got, err := s.Questions().ListByUseAndSubjects(ctx,
			"Test de validation", []string{"Bases de données NoSQL", "Classification"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "q4", got[0].Question)
	})

	t.Run("no subjects means no rows", func(t *testing.T) {
		got, err := s.Questions().ListByUseAndSubjects(ctx, "Test de positionnement", nil)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
