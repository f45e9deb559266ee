package validation

import (
	"regexp"
	"strings"

	"github.com/hyx1081487532/firefly-comments/internal/models"
)

// Accepts anything shaped like local@domain.tld without whitespace
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateSubmission normalizes a raw submission into a storable record or
// rejects it. Pure transform: no side effects, no store access.
func ValidateSubmission(req *models.SubmitRequest) (*models.Submission, *ValidationError) {
	if req == nil || req.URL == "" || req.Content == "" {
		return nil, &ValidationError{Field: "url", Message: "url and content required"}
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &ValidationError{Field: "content", Message: "content required"}
	}
	if runeLen(content) > models.MaxContentLength {
		return nil, &ValidationError{Field: "content", Message: "content too long"}
	}

	sub := &models.Submission{
		URL:     req.URL,
		Content: content,
	}

	// Name is truncated silently, never rejected
	if name := truncate(strings.TrimSpace(req.Name), models.MaxNameLength); name != "" {
		sub.Name = &name
	}

	if email := truncate(strings.TrimSpace(req.Email), models.MaxEmailLength); email != "" {
		if !emailRegex.MatchString(email) {
			return nil, &ValidationError{Field: "email", Message: "invalid email"}
		}
		sub.Email = &email
	}

	return sub, nil
}

// ValidateEdit normalizes an admin edit into field overwrites. At least one
// of content or name must be supplied. Content empty after trimming counts
// as absent; name present but null clears the stored value.
func ValidateEdit(req *models.EditRequest) (*models.CommentUpdate, *ValidationError) {
	upd := &models.CommentUpdate{}

	if req != nil && req.Content != nil {
		if content := truncate(strings.TrimSpace(*req.Content), models.MaxContentLength); content != "" {
			upd.Content = &content
		}
	}

	if req != nil && req.Name.Set {
		upd.SetName = true
		if req.Name.Value != nil {
			if name := truncate(strings.TrimSpace(*req.Name.Value), models.MaxNameLength); name != "" {
				upd.Name = &name
			}
		}
	}

	if upd.Content == nil && !upd.SetName {
		return nil, &ValidationError{Field: "content", Message: "nothing to update"}
	}

	return upd, nil
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
