package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hyx1081487532/firefly-comments/internal/database"
	"github.com/hyx1081487532/firefly-comments/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment in pending state and returns its id
func (r *commentRepo) Create(ctx context.Context, sub *models.Submission) (int64, error) {
	query := `
		INSERT INTO comments (url, name, email, content, ip, user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		sub.URL, sub.Name, sub.Email, sub.Content, sub.IP, sub.UserAgent,
	).Scan(&id)
	return id, err
}

// List retrieves all comments, optionally filtered by exact status match,
// newest first
func (r *commentRepo) List(ctx context.Context, status models.Status) ([]*models.Comment, error) {
	query := `SELECT id, url, name, email, content, ip, user_agent, status, created_at FROM comments`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(
			&c.ID, &c.URL, &c.Name, &c.Email, &c.Content,
			&c.IP, &c.UserAgent, &c.Status, &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

// ListApprovedByURL retrieves the public projection of approved comments
// for a page, newest first
func (r *commentRepo) ListApprovedByURL(ctx context.Context, url string, limit int) ([]*models.PublicComment, error) {
	query := `
		SELECT id, url, name, content, created_at FROM comments
		WHERE url = $1 AND status = 'approved'
		ORDER BY created_at DESC LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, url, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*models.PublicComment{}
	for rows.Next() {
		var c models.PublicComment
		if err := rows.Scan(&c.ID, &c.URL, &c.Name, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

// CountByIPSince counts comments submitted from an IP after the cutoff.
// The rate limiter derives its state from this query on every check.
func (r *commentRepo) CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE ip = $1 AND created_at > $2`,
		ip, since,
	).Scan(&count)
	return count, err
}

// UpdateStatus overwrites a comment's moderation status
func (r *commentRepo) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET status = $1 WHERE id = $2`,
		status, id,
	)
	return err
}

// UpdateFields overwrites only the fields supplied in the update
func (r *commentRepo) UpdateFields(ctx context.Context, id int64, upd *models.CommentUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Content != nil {
		args = append(args, *upd.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if upd.SetName {
		args = append(args, upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE comments SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Delete removes a comment by id
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}
