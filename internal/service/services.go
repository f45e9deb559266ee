package service

import (
	"context"
	"io"

	"github.com/hyx1081487532/firefly-comments/internal/config"
	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/repository"
	"github.com/rs/zerolog"
)

// CommentsService defines the interface for public comment operations
type CommentsService interface {
	Submit(ctx context.Context, sub *models.Submission) (int64, error)
	ListPublic(ctx context.Context, url string, limit int) ([]*models.PublicComment, error)
}

// ModerationService defines the interface for admin moderation operations
type ModerationService interface {
	List(ctx context.Context, status models.Status) ([]*models.Comment, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	Edit(ctx context.Context, id int64, upd *models.CommentUpdate) error
	Delete(ctx context.Context, id int64) error
}

// Services holds all service interfaces
type Services struct {
	Comments   CommentsService
	Moderation ModerationService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Comments:   newCommentsService(repos, cfg, log),
		Moderation: newModerationService(repos, log),
	}
}
