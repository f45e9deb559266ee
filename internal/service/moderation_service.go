package service

import (
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/repository"
	"github.com/rs/zerolog"
)

// csvHeader is the fixed column order of the export
const csvHeader = "id,url,name,email,content,ip,user_agent,status,created_at"

// moderationService is the concrete implementation of ModerationService
type moderationService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newModerationService creates a new ModerationService
func newModerationService(repos *repository.Repositories, log zerolog.Logger) *moderationService {
	return &moderationService{
		repos: repos,
		log:   log.With().Str("service", "moderation").Logger(),
	}
}

// List returns all comments, optionally filtered by exact status match,
// newest first
func (s *moderationService) List(ctx context.Context, status models.Status) ([]*models.Comment, error) {
	return s.repos.Comment.List(ctx, status)
}

// ExportCSV writes every comment as CSV. Every field is quoted and
// embedded quotes are doubled.
func (s *moderationService) ExportCSV(ctx context.Context, w io.Writer) error {
	comments, err := s.repos.Comment.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to load comments for export: %w", err)
	}

	if _, err := io.WriteString(w, csvHeader); err != nil {
		return err
	}
	for _, c := range comments {
		row := strings.Join([]string{
			csvField(strconv.FormatInt(c.ID, 10)),
			csvField(c.URL),
			csvField(deref(c.Name)),
			csvField(deref(c.Email)),
			csvField(c.Content),
			csvField(c.IP),
			csvField(deref(c.UserAgent)),
			csvField(string(c.Status)),
			csvField(c.CreatedAt.UTC().Format(time.RFC3339)),
		}, ",")
		if _, err := io.WriteString(w, "\n"+row); err != nil {
			return err
		}
	}

	s.log.Info().Int("count", len(comments)).Msg("Comments exported")
	return nil
}

// Approve sets a comment's status to approved. A no-op on an unknown id
// is not an error; every moderation action stays idempotent.
func (s *moderationService) Approve(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, models.StatusApproved)
}

// Reject sets a comment's status to rejected
func (s *moderationService) Reject(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, models.StatusRejected)
}

func (s *moderationService) setStatus(ctx context.Context, id int64, status models.Status) error {
	if err := s.repos.Comment.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update comment status: %w", err)
	}
	s.log.Info().Int64("id", id).Str("status", string(status)).Msg("Comment status updated")
	return nil
}

// Edit overwrites only the supplied fields. New content arrives trimmed
// and truncated from validation and is re-escaped here before storage.
func (s *moderationService) Edit(ctx context.Context, id int64, upd *models.CommentUpdate) error {
	stored := *upd
	if upd.Content != nil {
		escaped := html.EscapeString(*upd.Content)
		stored.Content = &escaped
	}

	if err := s.repos.Comment.UpdateFields(ctx, id, &stored); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	s.log.Info().
		Int64("id", id).
		Bool("content_changed", upd.Content != nil).
		Bool("name_changed", upd.SetName).
		Msg("Comment edited")
	return nil
}

// Delete removes a comment. Deleting an unknown id is a no-op.
func (s *moderationService) Delete(ctx context.Context, id int64) error {
	if err := s.repos.Comment.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	s.log.Info().Int64("id", id).Msg("Comment deleted")
	return nil
}

func csvField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
