package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/hyx1081487532/firefly-comments/internal/config"
	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/repository"
	"github.com/rs/zerolog"
)

// ErrRateLimited is returned when an IP exceeds the submission limit
// inside the trailing window
var ErrRateLimited = errors.New("rate_limited")

// Default and hard cap for public reads
const maxPublicLimit = 100

// commentsService is the concrete implementation of CommentsService
type commentsService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
}

// newCommentsService creates a new CommentsService
func newCommentsService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *commentsService {
	return &commentsService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "comments").Logger(),
	}
}

// Submit stores a validated submission in pending state. The rate check
// counts stored rows per IP inside the trailing window; check and insert
// are separate statements, so concurrent submissions from one IP can
// briefly overshoot the limit.
func (s *commentsService) Submit(ctx context.Context, sub *models.Submission) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.RateLimit.Window)
	count, err := s.repos.Comment.CountByIPSince(ctx, sub.IP, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent submissions: %w", err)
	}
	if count >= s.cfg.RateLimit.Max {
		s.log.Warn().
			Str("ip", sub.IP).
			Int("count", count).
			Dur("window", s.cfg.RateLimit.Window).
			Msg("Submission rate limited")
		return 0, ErrRateLimited
	}

	// Stored content is always the escaped form of the trimmed input
	stored := *sub
	stored.Content = html.EscapeString(sub.Content)

	id, err := s.repos.Comment.Create(ctx, &stored)
	if err != nil {
		return 0, fmt.Errorf("failed to store comment: %w", err)
	}

	s.log.Info().
		Int64("id", id).
		Str("url", sub.URL).
		Msg("Comment submitted")

	return id, nil
}

// ListPublic returns approved comments for a page, newest first. The
// limit defaults to and is capped at 100.
func (s *commentsService) ListPublic(ctx context.Context, url string, limit int) ([]*models.PublicComment, error) {
	if limit <= 0 || limit > maxPublicLimit {
		limit = maxPublicLimit
	}
	return s.repos.Comment.ListApprovedByURL(ctx, url, limit)
}
