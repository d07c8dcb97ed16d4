package services

import (
	"context"

	"github.com/askloop/forum/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByQuestion(ctx context.Context, questionID int) ([]types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	repo CommentRepository
}

func NewCommentService(repo CommentRepository) *CommentService {
	return &CommentService{repo: repo}
}

func (s *CommentService) ListByQuestion(ctx context.Context, questionID int) ([]types.Comment, error) {
	return s.repo.ListByQuestion(ctx, questionID)
}

func (s *CommentService) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	return s.repo.Create(ctx, comment)
}
