package service

import (
	"context"
	"fmt"

	"github.com/quizlab/quizd/internal/quiz/domain"
	"github.com/quizlab/quizd/internal/quiz/store"
	"github.com/quizlab/quizd/pkg/cryptox"
	"github.com/quizlab/quizd/pkg/idx"
	"github.com/quizlab/quizd/pkg/slogx"
)

// seedCredential is one row of the static credential table loaded at
// startup. Passwords are development defaults; override the table before
// exposing the service anywhere that matters.
type seedCredential struct {
	Username string
	Password string
	Role     domain.Role
}

func defaultCredentials() []seedCredential {
	return []seedCredential{
		{Username: "alice", Password: "wonderland", Role: domain.RoleUser},
		{Username: "bob", Password: "builder", Role: domain.RoleUser},
		{Username: "clementine", Password: "mandarine", Role: domain.RoleUser},
		{Username: "admin", Password: "4dm1N", Role: domain.RoleAdmin},
	}
}

func starterQuestions() []domain.Question {
	return []domain.Question{
		{
			Question:  "MongoDB et CouchDB sont des bases de données",
			Subject:   "Bases de données NoSQL",
			Use:       "Test de positionnement",
			Correct:   "documents",
			ResponseA: "relationnelles",
			ResponseB: "documents",
			ResponseC: "orientées colonne",
			ResponseD: "orientées graphe",
		},
		{
			Question:  "Quelle commande liste les fichiers d'un répertoire ?",
			Subject:   "Systèmes distribués",
			Use:       "Test de positionnement",
			Correct:   "ls",
			ResponseA: "ls",
			ResponseB: "pwd",
			ResponseC: "rm",
		},
		{
			Question:  "Quel mot-clé déclare une fonction en Python ?",
			Subject:   "Classification",
			Use:       "Test de validation",
			Correct:   "def",
			ResponseA: "func",
			ResponseB: "def",
			ResponseC: "lambda",
		},
	}
}

// SeedService loads the static credential table (and a handful of starter
// questions) into an empty store. It runs once at startup and never touches
// existing rows, so restarting against a populated database is a no-op.
type SeedService struct {
	Store store.Store
}

func (s *SeedService) Run(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("seed: checking users: %w", err)
	}
	if empty {
		for _, c := range defaultCredentials() {
			hash, err := cryptox.HashPassword(c.Password)
			if err != nil {
				return fmt.Errorf("seed: hashing password for %s: %w", c.Username, err)
			}
			u := domain.User{
				ID:           idx.New().String(),
				Username:     c.Username,
				PasswordHash: hash,
				Role:         c.Role,
			}
			if err := s.Store.Users().CreateUser(ctx, u); err != nil {
				return fmt.Errorf("seed: creating user %s: %w", c.Username, err)
			}
		}
		l.Info("seeded credential table", "users", len(defaultCredentials()))
	}

	empty, err = s.Store.Questions().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("seed: checking questions: %w", err)
	}
	if empty {
		for _, q := range starterQuestions() {
			q.ID = idx.New().String()
			if err := s.Store.Questions().CreateQuestion(ctx, q); err != nil {
				return fmt.Errorf("seed: creating question: %w", err)
			}
		}
		l.Info("seeded question bank", "questions", len(starterQuestions()))
	}

	return nil
}
