package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hyx1081487532/firefly-comments/internal/api"
	"github.com/hyx1081487532/firefly-comments/internal/config"
	"github.com/hyx1081487532/firefly-comments/internal/mocks"
	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/service"
	"github.com/rs/zerolog"
)

const testAdminPassword = "sekret-123"

func setupTestRouter() (*gin.Engine, *mocks.MockCommentsService, *mocks.MockModerationService) {
	gin.SetMode(gin.TestMode)

	mockComments := mocks.NewMockCommentsService()
	mockModeration := mocks.NewMockModerationService()

	services := &service.Services{
		Comments:   mockComments,
		Moderation: mockModeration,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Admin:  config.AdminConfig{Password: testAdminPassword},
		RateLimit: config.RateLimitConfig{
			Window: 2 * time.Minute,
			Max:    5,
		},
	}

	log := zerolog.Nop()
	router := api.NewRouter(services, cfg, log)

	return router, mockComments, mockModeration
}

func postJSON(router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "firefly-comments" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestSubmitComment(t *testing.T) {
	router, mockComments, _ := setupTestRouter()

	w := postJSON(router, "/api/comments", `{"url":"http://x","content":"hi"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["ok"] != true {
		t.Errorf("Expected ok=true, got %v", response["ok"])
	}
	if response["id"].(float64) != 1 {
		t.Errorf("Expected id 1, got %v", response["id"])
	}

	if len(mockComments.Submissions) != 1 {
		t.Fatalf("Expected 1 recorded submission, got %d", len(mockComments.Submissions))
	}
	sub := mockComments.Submissions[0]
	if sub.URL != "http://x" || sub.Content != "hi" {
		t.Errorf("Unexpected submission %+v", sub)
	}
	if sub.IP == "" {
		t.Error("Expected a resolved client IP")
	}
}

func TestSubmitComment_WrongContentType(t *testing.T) {
	router, mockComments, _ := setupTestRouter()

	req := httptest.NewRequest("POST", "/api/comments", strings.NewReader("url=http://x&content=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected status 415, got %d", w.Code)
	}
	if len(mockComments.Submissions) != 0 {
		t.Error("Submission must not reach the service")
	}
}

func TestSubmitComment_InvalidJSON(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := postJSON(router, "/api/comments", `{"url": "http://x",`, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "invalid JSON body" {
		t.Errorf("Expected 'invalid JSON body', got %q", response["error"])
	}
}

func TestSubmitComment_MissingFields(t *testing.T) {
	router, mockComments, _ := setupTestRouter()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"no url", `{"content":"hi"}`, "url and content required"},
		{"no content", `{"url":"http://x"}`, "url and content required"},
		{"blank content", `{"url":"http://x","content":"   "}`, "content required"},
		{"bad email", `{"url":"http://x","content":"hi","email":"nope"}`, "invalid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/comments", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			var response map[string]string
			json.Unmarshal(w.Body.Bytes(), &response)
			if response["error"] != tt.want {
				t.Errorf("Expected error %q, got %q", tt.want, response["error"])
			}
		})
	}

	if len(mockComments.Submissions) != 0 {
		t.Error("Rejected submissions must not reach the service")
	}
}

func TestSubmitComment_RateLimited(t *testing.T) {
	router, mockComments, _ := setupTestRouter()
	mockComments.SubmitFunc = func(ctx context.Context, sub *models.Submission) (int64, error) {
		return 0, service.ErrRateLimited
	}

	w := postJSON(router, "/api/comments", `{"url":"http://x","content":"hi"}`, nil)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "rate_limited" {
		t.Errorf("Expected 'rate_limited', got %q", response["error"])
	}
}

func TestPublicList_RequiresURL(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/comments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPublicList_OnlyPublicProjection(t *testing.T) {
	router, mockComments, _ := setupTestRouter()

	name := "Alice"
	mockComments.Public["http://x"] = []*models.PublicComment{
		{ID: 1, URL: "http://x", Name: &name, Content: "hi", CreatedAt: time.Now()},
	}

	req := httptest.NewRequest("GET", "/api/comments?url=http://x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on JSON response")
	}

	var comments []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &comments)
	if len(comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(comments))
	}
	for _, hidden := range []string{"email", "ip", "user_agent", "status"} {
		if _, present := comments[0][hidden]; present {
			t.Errorf("Field %q must never be exposed publicly", hidden)
		}
	}
	if comments[0]["content"] != "hi" {
		t.Errorf("Expected content 'hi', got %v", comments[0]["content"])
	}
}

func TestAdmin_RequiresCredential(t *testing.T) {
	router, _, mockModeration := setupTestRouter()

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/admin/comments"},
		{"GET", "/api/admin/comments/export"},
		{"POST", "/api/admin/comments/1/approve"},
		{"POST", "/api/admin/comments/1/reject"},
		{"POST", "/api/admin/comments/1/edit"},
		{"DELETE", "/api/admin/comments/1"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"content":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("x-admin-password", "wrong-password")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusForbidden {
				t.Errorf("Expected status 403, got %d", w.Code)
			}
			var response map[string]string
			json.Unmarshal(w.Body.Bytes(), &response)
			if response["error"] != "unauthorized" {
				t.Errorf("Expected 'unauthorized', got %q", response["error"])
			}
		})
	}

	// No mutation may have reached the service
	if len(mockModeration.StatusUpdates) != 0 || len(mockModeration.Edits) != 0 || len(mockModeration.Deleted) != 0 {
		t.Error("Unauthorized requests must not touch the moderation service")
	}
}

func TestAdmin_HeaderAndQueryCredential(t *testing.T) {
	router, _, _ := setupTestRouter()

	// Header
	req := httptest.NewRequest("GET", "/api/admin/comments", nil)
	req.Header.Set("x-admin-password", testAdminPassword)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Header credential: expected 200, got %d", w.Code)
	}

	// Query parameter fallback
	req = httptest.NewRequest("GET", "/api/admin/comments?x-admin-password="+testAdminPassword, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Query credential: expected 200, got %d", w.Code)
	}

	// Surrounding whitespace is trimmed
	req = httptest.NewRequest("GET", "/api/admin/comments", nil)
	req.Header.Set("x-admin-password", "  "+testAdminPassword+"  ")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Trimmed credential: expected 200, got %d", w.Code)
	}

	// No credential at all
	req = httptest.NewRequest("GET", "/api/admin/comments", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Missing credential: expected 403, got %d", w.Code)
	}
}

func TestAdminList_StatusFilter(t *testing.T) {
	router, _, mockModeration := setupTestRouter()

	email := "a@b.c"
	mockModeration.Comments = []*models.Comment{
		{ID: 1, URL: "http://x", Content: "one", IP: "1.1.1.1", Email: &email, Status: models.StatusPending, CreatedAt: time.Now()},
		{ID: 2, URL: "http://x", Content: "two", IP: "1.1.1.1", Status: models.StatusApproved, CreatedAt: time.Now()},
	}

	req := httptest.NewRequest("GET", "/api/admin/comments?status=pending", nil)
	req.Header.Set("x-admin-password", testAdminPassword)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var comments []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &comments)
	if len(comments) != 1 {
		t.Fatalf("Expected 1 pending comment, got %d", len(comments))
	}
	// The moderation surface does expose the full record
	if comments[0]["email"] != "a@b.c" || comments[0]["ip"] != "1.1.1.1" {
		t.Errorf("Expected full record on admin list, got %v", comments[0])
	}
}

func TestAdminExport(t *testing.T) {
	router, _, mockModeration := setupTestRouter()
	mockModeration.CSV = "id,url,name,email,content,ip,user_agent,status,created_at\n\"1\",\"http://x\",\"\",\"\",\"hi\",\"1.1.1.1\",\"\",\"pending\",\"2026-03-01T12:00:00Z\""

	req := httptest.NewRequest("GET", "/api/admin/comments/export", nil)
	req.Header.Set("x-admin-password", testAdminPassword)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("Expected text/csv content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=comments.csv" {
		t.Errorf("Unexpected content disposition %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "id,url,name,email,content") {
		t.Errorf("Unexpected body %q", w.Body.String())
	}
}

func TestAdminApproveReject(t *testing.T) {
	router, _, mockModeration := setupTestRouter()

	w := postJSON(router, "/api/admin/comments/7/approve", "", map[string]string{"x-admin-password": testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["ok"] != true {
		t.Errorf("Expected ok=true, got %v", response["ok"])
	}
	if mockModeration.StatusUpdates[7] != models.StatusApproved {
		t.Errorf("Expected comment 7 approved, got %v", mockModeration.StatusUpdates)
	}

	w = postJSON(router, "/api/admin/comments/7/reject", "", map[string]string{"x-admin-password": testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if mockModeration.StatusUpdates[7] != models.StatusRejected {
		t.Errorf("Expected comment 7 rejected, got %v", mockModeration.StatusUpdates)
	}
}

func TestAdminAction_UnknownAction(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := postJSON(router, "/api/admin/comments/7/publish", "", map[string]string{"x-admin-password": testAdminPassword})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "unknown action" {
		t.Errorf("Expected 'unknown action', got %q", response["error"])
	}
}

func TestAdminAction_InvalidID(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := postJSON(router, "/api/admin/comments/abc/approve", "", map[string]string{"x-admin-password": testAdminPassword})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "invalid path" {
		t.Errorf("Expected 'invalid path', got %q", response["error"])
	}
}

func TestAdminEdit(t *testing.T) {
	router, _, mockModeration := setupTestRouter()
	auth := map[string]string{"x-admin-password": testAdminPassword}

	// Content only
	w := postJSON(router, "/api/admin/comments/5/edit", `{"content":"updated"}`, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	upd := mockModeration.Edits[5]
	if upd == nil || upd.Content == nil || *upd.Content != "updated" || upd.SetName {
		t.Errorf("Unexpected update %+v", upd)
	}

	// Name null clears without touching content
	w = postJSON(router, "/api/admin/comments/6/edit", `{"name":null}`, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	upd = mockModeration.Edits[6]
	if upd == nil || upd.Content != nil || !upd.SetName || upd.Name != nil {
		t.Errorf("Unexpected update %+v", upd)
	}

	// Nothing to update
	w = postJSON(router, "/api/admin/comments/7/edit", `{}`, auth)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "nothing to update" {
		t.Errorf("Expected 'nothing to update', got %q", response["error"])
	}
}

func TestAdminDelete(t *testing.T) {
	router, _, mockModeration := setupTestRouter()

	req := httptest.NewRequest("DELETE", "/api/admin/comments/9", nil)
	req.Header.Set("x-admin-password", testAdminPassword)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(mockModeration.Deleted) != 1 || mockModeration.Deleted[0] != 9 {
		t.Errorf("Expected comment 9 deleted, got %v", mockModeration.Deleted)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("OPTIONS", "/api/comments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected wildcard allow-origin")
	}
	if w.Header().Get("Access-Control-Allow-Methods") != "GET,POST,OPTIONS" {
		t.Errorf("Unexpected allow-methods %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
	if w.Header().Get("Access-Control-Allow-Headers") != "Content-Type, x-admin-password" {
		t.Errorf("Unexpected allow-headers %q", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestUnknownPath(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w.Body.String() != "Not found" {
		t.Errorf("Expected plain 'Not found', got %q", w.Body.String())
	}
}

func TestPresentationAssets(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for /admin, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Expected HTML content type, got %q", w.Header().Get("Content-Type"))
	}

	req = httptest.NewRequest("GET", "/embed.js", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for /embed.js, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "javascript") {
		t.Errorf("Expected javascript content type, got %q", w.Header().Get("Content-Type"))
	}
}
