package repository

import (
	"context"
	"time"

	"github.com/hyx1081487532/firefly-comments/internal/database"
	"github.com/hyx1081487532/firefly-comments/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, sub *models.Submission) (int64, error)
	List(ctx context.Context, status models.Status) ([]*models.Comment, error)
	ListApprovedByURL(ctx context.Context, url string, limit int) ([]*models.PublicComment, error)
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	UpdateFields(ctx context.Context, id int64, upd *models.CommentUpdate) error
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
	}
}
