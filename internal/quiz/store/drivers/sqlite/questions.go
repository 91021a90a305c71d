package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/quizlab/quizd/internal/quiz/domain"
)

type questionsRepo struct {
	db *sql.DB
}

func (r *questionsRepo) ListUses(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT use FROM questions ORDER BY use`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStrings(rows)
}

func (r *questionsRepo) ListSubjects(ctx context.Context, use string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT subject FROM questions WHERE use = ? ORDER BY subject`, use)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStrings(rows)
}

func (r *questionsRepo) ListByUseAndSubjects(
	ctx context.Context,
	use string,
	subjects []string,
) ([]domain.Question, error) {
	if len(subjects) == 0 {
		return nil, nil
	}

	// Build an IN (?, ?, ...) clause; database/sql has no slice expansion.
	placeholders := strings.Repeat("?,", len(subjects))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(subjects)+1)
	args = append(args, use)
	for _, s := range subjects {
		args = append(args, s)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, subject, use, correct,
		       response_a, response_b, response_c, response_d, remark,
		       created_at
		FROM questions
		WHERE use = ? AND subject IN (`+placeholders+`)
		ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		var respD, remark sql.NullString
		if err := rows.Scan(
			&q.ID, &q.Question, &q.Subject, &q.Use, &q.Correct,
			&q.ResponseA, &q.ResponseB, &q.ResponseC, &respD, &remark,
			&q.CreatedAt,
		); err != nil {
			return nil, err
		}
		q.ResponseD = mapNullString(respD)
		q.Remark = mapNullString(remark)
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *questionsRepo) CreateQuestion(ctx context.Context, q domain.Question) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO questions
			(id, question, subject, use, correct,
			 response_a, response_b, response_c, response_d, remark)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Question, q.Subject, q.Use, q.Correct,
		q.ResponseA, q.ResponseB, q.ResponseC,
		mapStringNull(q.ResponseD), mapStringNull(q.Remark))
	return err
}

func (r *questionsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
