package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/repository"
)

// MockCommentRepository is an in-memory mock implementation of
// CommentRepository. Now is injectable so tests can slide the rate window.
type MockCommentRepository struct {
	Comments  map[int64]*models.Comment
	NextID    int64
	Now       func() time.Time
	CreateErr error
	CountErr  error
	ListErr   error
}

// Verify interface compliance
var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int64]*models.Comment),
		NextID:   1,
		Now:      time.Now,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, sub *models.Submission) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	id := m.NextID
	m.NextID++
	m.Comments[id] = &models.Comment{
		ID:        id,
		URL:       sub.URL,
		Name:      sub.Name,
		Email:     sub.Email,
		Content:   sub.Content,
		IP:        sub.IP,
		UserAgent: sub.UserAgent,
		Status:    models.StatusPending,
		CreatedAt: m.Now(),
	}
	return id, nil
}

func (m *MockCommentRepository) List(ctx context.Context, status models.Status) ([]*models.Comment, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	comments := []*models.Comment{}
	for _, c := range m.Comments {
		if status == "" || c.Status == status {
			comments = append(comments, c)
		}
	}
	sortNewestFirst(comments)
	return comments, nil
}

func (m *MockCommentRepository) ListApprovedByURL(ctx context.Context, url string, limit int) ([]*models.PublicComment, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	matched := []*models.Comment{}
	for _, c := range m.Comments {
		if c.URL == url && c.Status == models.StatusApproved {
			matched = append(matched, c)
		}
	}
	sortNewestFirst(matched)

	public := []*models.PublicComment{}
	for _, c := range matched {
		if len(public) >= limit {
			break
		}
		public = append(public, &models.PublicComment{
			ID:        c.ID,
			URL:       c.URL,
			Name:      c.Name,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return public, nil
}

func (m *MockCommentRepository) CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	count := 0
	for _, c := range m.Comments {
		if c.IP == ip && c.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	if c, ok := m.Comments[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *MockCommentRepository) UpdateFields(ctx context.Context, id int64, upd *models.CommentUpdate) error {
	c, ok := m.Comments[id]
	if !ok {
		return nil
	}
	if upd.Content != nil {
		c.Content = *upd.Content
	}
	if upd.SetName {
		c.Name = upd.Name
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	delete(m.Comments, id)
	return nil
}

func sortNewestFirst(comments []*models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}
