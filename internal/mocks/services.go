package mocks

import (
	"context"
	"io"

	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/service"
)

// MockCommentsService is a mock implementation of CommentsService
type MockCommentsService struct {
	SubmitFunc     func(ctx context.Context, sub *models.Submission) (int64, error)
	ListPublicFunc func(ctx context.Context, url string, limit int) ([]*models.PublicComment, error)
	Submissions    []*models.Submission
	Public         map[string][]*models.PublicComment
	NextID         int64
}

// Verify interface compliance
var _ service.CommentsService = (*MockCommentsService)(nil)

func NewMockCommentsService() *MockCommentsService {
	return &MockCommentsService{
		Submissions: make([]*models.Submission, 0),
		Public:      make(map[string][]*models.PublicComment),
		NextID:      1,
	}
}

func (m *MockCommentsService) Submit(ctx context.Context, sub *models.Submission) (int64, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sub)
	}
	m.Submissions = append(m.Submissions, sub)
	id := m.NextID
	m.NextID++
	return id, nil
}

func (m *MockCommentsService) ListPublic(ctx context.Context, url string, limit int) ([]*models.PublicComment, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, url, limit)
	}
	comments, ok := m.Public[url]
	if !ok {
		return []*models.PublicComment{}, nil
	}
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

// MockModerationService is a mock implementation of ModerationService
type MockModerationService struct {
	ListFunc      func(ctx context.Context, status models.Status) ([]*models.Comment, error)
	ExportFunc    func(ctx context.Context, w io.Writer) error
	Comments      []*models.Comment
	CSV           string
	StatusUpdates map[int64]models.Status
	Edits         map[int64]*models.CommentUpdate
	Deleted       []int64
	Err           error
}

// Verify interface compliance
var _ service.ModerationService = (*MockModerationService)(nil)

func NewMockModerationService() *MockModerationService {
	return &MockModerationService{
		Comments:      make([]*models.Comment, 0),
		StatusUpdates: make(map[int64]models.Status),
		Edits:         make(map[int64]*models.CommentUpdate),
		Deleted:       make([]int64, 0),
	}
}

func (m *MockModerationService) List(ctx context.Context, status models.Status) ([]*models.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	comments := []*models.Comment{}
	for _, c := range m.Comments {
		if status == "" || c.Status == status {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func (m *MockModerationService) ExportCSV(ctx context.Context, w io.Writer) error {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, w)
	}
	if m.Err != nil {
		return m.Err
	}
	_, err := io.WriteString(w, m.CSV)
	return err
}

func (m *MockModerationService) Approve(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.StatusUpdates[id] = models.StatusApproved
	return nil
}

func (m *MockModerationService) Reject(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.StatusUpdates[id] = models.StatusRejected
	return nil
}

func (m *MockModerationService) Edit(ctx context.Context, id int64, upd *models.CommentUpdate) error {
	if m.Err != nil {
		return m.Err
	}
	m.Edits[id] = upd
	return nil
}

func (m *MockModerationService) Delete(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}
