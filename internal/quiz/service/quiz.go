package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/quizlab/quizd/internal/quiz/domain"
	"github.com/quizlab/quizd/internal/quiz/store"
	"github.com/quizlab/quizd/pkg/idx"
)

var (
	ErrUnknownUse       = errors.New("unknown_use")
	ErrSubjectNotInUse  = errors.New("subject_not_in_use")
	ErrBadQuestionCount = errors.New("bad_question_count")
	ErrInvalidQuestion  = errors.New("invalid_question")
)

// AllowedQuestionCounts are the accepted questionnaire lengths.
var AllowedQuestionCounts = []int{5, 10, 20}

// QuizService assembles randomized questionnaires from the question bank
// and appends new questions to it.
type QuizService struct {
	Store store.Store

	// appendMu serializes appends against each other. Reads and token
	// verification never take it.
	appendMu sync.Mutex
}

// Uses returns the distinct test types in the bank.
func (s *QuizService) Uses(ctx context.Context) ([]string, error) {
	return s.Store.Questions().ListUses(ctx)
}

// Subjects returns the distinct subjects for a test type, or ErrUnknownUse.
func (s *QuizService) Subjects(ctx context.Context, use string) ([]string, error) {
	if err := s.verifyUse(ctx, use); err != nil {
		return nil, err
	}
	return s.Store.Questions().ListSubjects(ctx, use)
}

// Generate builds a questionnaire of count questions for the test type,
// sampling uniformly without replacement from the requested subjects.
// The requested subjects must all belong to the test type, and the
// resulting sample size must be one of AllowedQuestionCounts.
func (s *QuizService) Generate(
	ctx context.Context,
	use string,
	subjects []string,
	count int,
) (domain.Questionnaire, error) {
	if err := s.verifyUse(ctx, use); err != nil {
		return nil, err
	}

	known, err := s.Store.Questions().ListSubjects(ctx, use)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, ErrSubjectNotInUse
	}
	for _, sub := range subjects {
		if !slices.Contains(known, sub) {
			return nil, ErrSubjectNotInUse
		}
	}

	pool, err := s.Store.Questions().ListByUseAndSubjects(ctx, use, subjects)
	if err != nil {
		return nil, err
	}

	// Shuffle so every request draws a different questionnaire.
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if count > 0 && count < len(pool) {
		pool = pool[:count]
	}

	if !slices.Contains(AllowedQuestionCounts, len(pool)) {
		return nil, ErrBadQuestionCount
	}

	out := make(domain.Questionnaire, 0, len(pool))
	for _, q := range pool {
		out = append(out, q.Item())
	}
	return out, nil
}

// Append validates and stores a new question, returning it with its
// assigned ID. Appends serialize against each other only.
func (s *QuizService) Append(ctx context.Context, q domain.Question) (domain.Question, error) {
	if q.Question == "" || q.Subject == "" || q.Use == "" || q.Correct == "" ||
		q.ResponseA == "" || q.ResponseB == "" || q.ResponseC == "" {
		return domain.Question{}, ErrInvalidQuestion
	}

	q.ID = idx.New().String()

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	if err := s.Store.Questions().CreateQuestion(ctx, q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func (s *QuizService) verifyUse(ctx context.Context, use string) error {
	uses, err := s.Store.Questions().ListUses(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(uses, use) {
		return ErrUnknownUse
	}
	return nil
}
