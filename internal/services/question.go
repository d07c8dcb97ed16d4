package services

import (
	"context"
	"strings"

	"github.com/askloop/forum/types"
)

// QuestionRepository defines persistence operations for questions.
type QuestionRepository interface {
	List(ctx context.Context) ([]types.Question, error)
	Search(ctx context.Context, term string) ([]types.Question, error)
	Get(ctx context.Context, id int) (types.Question, error)
	Create(ctx context.Context, question types.Question) (types.Question, error)
}

// QuestionService encapsulates question use-cases.
type QuestionService struct {
	repo QuestionRepository
}

func NewQuestionService(repo QuestionRepository) *QuestionService {
	return &QuestionService{repo: repo}
}

func (s *QuestionService) List(ctx context.Context) ([]types.Question, error) {
	return s.repo.List(ctx)
}

// Search filters questions by substring match on title or content. A blank
// term falls back to the full listing.
func (s *QuestionService) Search(ctx context.Context, term string) ([]types.Question, error) {
	if strings.TrimSpace(term) == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, term)
}

func (s *QuestionService) Get(ctx context.Context, id int) (types.Question, error) {
	return s.repo.Get(ctx, id)
}

func (s *QuestionService) Create(ctx context.Context, question types.Question) (types.Question, error) {
	return s.repo.Create(ctx, question)
}
