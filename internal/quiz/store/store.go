package store

import (
	"context"
	"errors"

	"github.com/quizlab/quizd/internal/quiz/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// possibly postgres later) implement this. It exposes sub-repositories to
// keep concerns tidy and testable.
type Store interface {
	Users() Users
	Questions() Questions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Users is the credential store. It is read-only at request time; writes
// happen only during startup seeding. Swapping the backing driver must
// preserve username uniqueness.
type Users interface {
	// GetUserByUsername is used during login and when resolving a token
	// subject back to a live account.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

// Questions is the question bank: an append-only row store.
type Questions interface {
	// ListUses returns the distinct test types in the bank.
	ListUses(ctx context.Context) ([]string, error)

	// ListSubjects returns the distinct subjects for a test type.
	ListSubjects(ctx context.Context, use string) ([]string, error)

	// ListByUseAndSubjects returns every question matching the test type
	// and any of the given subjects.
	ListByUseAndSubjects(ctx context.Context, use string, subjects []string) ([]domain.Question, error)

	// CreateQuestion appends a question row (id is ULID).
	CreateQuestion(ctx context.Context, q domain.Question) error

	// IsEmpty returns true if the bank holds no questions.
	IsEmpty(ctx context.Context) (bool, error)
}
