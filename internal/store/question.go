package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/askloop/forum/types"
)

// QuestionRepository handles persistence for questions.
type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// List returns all questions ordered by creation time, newest first, with
// the author's username joined in.
func (r *QuestionRepository) List(ctx context.Context) ([]types.Question, error) {
	const query = `
		SELECT q.id, q.title, q.content, q.author_id, u.username, q.created_at
		FROM questions q
		JOIN users u ON u.id = q.author_id
		ORDER BY q.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// Search returns questions whose title or content contains the given
// substring, case-insensitively, newest first. An empty term matches every
// question.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]types.Question, error) {
	const query = `
		SELECT q.id, q.title, q.content, q.author_id, u.username, q.created_at
		FROM questions q
		JOIN users u ON u.id = q.author_id
		WHERE q.title ILIKE '%' || $1 || '%' OR q.content ILIKE '%' || $1 || '%'
		ORDER BY q.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *QuestionRepository) Get(ctx context.Context, id int) (types.Question, error) {
	const query = `
		SELECT q.id, q.title, q.content, q.author_id, u.username, q.created_at
		FROM questions q
		JOIN users u ON u.id = q.author_id
		WHERE q.id = $1`
	var question types.Question
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&question.ID,
		&question.Title,
		&question.Content,
		&question.AuthorID,
		&question.AuthorName,
		&question.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Question{}, ErrNotFound
		}
		return types.Question{}, err
	}
	return question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question types.Question) (types.Question, error) {
	question.CreatedAt = time.Now()

	const query = `
		INSERT INTO questions (title, content, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		question.Title,
		question.Content,
		question.AuthorID,
		question.CreatedAt,
	).Scan(&question.ID); err != nil {
		return types.Question{}, err
	}
	return question, nil
}

func scanQuestions(rows *sql.Rows) ([]types.Question, error) {
	questions := make([]types.Question, 0)
	for rows.Next() {
		var question types.Question
		if err := rows.Scan(
			&question.ID,
			&question.Title,
			&question.Content,
			&question.AuthorID,
			&question.AuthorName,
			&question.CreatedAt,
		); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}
