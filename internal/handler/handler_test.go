package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
	"snippetnav/internal/httputil"
)

type fakeTreeService struct {
	resp *models.FolderResponse
	err  error
	got  []string
}

func (s *fakeTreeService) GetFolderResponse(ctx context.Context, userID, projectRef string) (*models.FolderResponse, error) {
	s.got = []string{userID, projectRef}
	return s.resp, s.err
}

type fakeContentService struct {
	result *models.DeleteContentResult
	err    error
	req    *models.DeleteContentRequest
}

func (s *fakeContentService) DeleteContent(ctx context.Context, userID string, req *models.DeleteContentRequest) (*models.DeleteContentResult, error) {
	s.req = req
	return s.result, s.err
}

func newTestServer(tree *fakeTreeService, content *fakeContentService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := NewRouter(NewTreeHandler(tree, logger), NewContentHandler(content, logger))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, httputil.WithUserID(r, "user-1"))
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthCheck(t *testing.T) {
	rec, body := do(t, newTestServer(&fakeTreeService{}, &fakeContentService{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestTreeHandler_GetFolders(t *testing.T) {
	parent := "f1"
	tree := &fakeTreeService{resp: &models.FolderResponse{
		Folders:  []models.Folder{{ID: "f1", Name: "Reports"}},
		Contents: []models.Snippet{{ID: "s1", Name: "daily", FolderID: &parent, Visibility: models.VisibilityProject}},
	}}
	h := newTestServer(tree, &fakeContentService{})

	rec, body := do(t, h, http.MethodGet, "/api/projects/proj-1/content/folders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"user-1", "proj-1"}, tree.got)
	contents := body["contents"].([]interface{})
	require.Len(t, contents, 1)
	snippet := contents[0].(map[string]interface{})
	assert.Equal(t, "f1", snippet["folder_id"])
	assert.Equal(t, "project", snippet["visibility"])
	assert.NotContains(t, snippet, "IsEditing")
}

func TestTreeHandler_GetTree(t *testing.T) {
	ghost := "ghost"
	tree := &fakeTreeService{resp: &models.FolderResponse{
		Folders:  []models.Folder{{ID: "f1", Name: "Reports"}},
		Contents: []models.Snippet{{ID: "s1", Name: "lost", FolderID: &ghost}},
	}}
	h := newTestServer(tree, &fakeContentService{})

	rec, body := do(t, h, http.MethodGet, "/api/projects/proj-1/content/tree", "")

	require.Equal(t, http.StatusOK, rec.Code)
	nodes := body["nodes"].([]interface{})
	require.Len(t, nodes, 3)
	assert.Equal(t, "root", nodes[0].(map[string]interface{})["id"])
	anomalies := body["anomalies"].(map[string]interface{})
	assert.Equal(t, float64(1), anomalies["detached_snippets"])
}

func TestTreeHandler_Forbidden(t *testing.T) {
	tree := &fakeTreeService{err: domain.ErrForbidden}
	rec, body := do(t, newTestServer(tree, &fakeContentService{}), http.MethodGet, "/api/projects/proj-1/content/tree", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, float64(403), body["status"])
}

func TestContentHandler_DeleteContent(t *testing.T) {
	content := &fakeContentService{result: &models.DeleteContentResult{DeletedIDs: []string{"s1", "s2"}}}
	h := newTestServer(&fakeTreeService{}, content)

	rec, body := do(t, h, http.MethodDelete, "/api/projects/proj-1/content",
		`{"project_ref": "someone-else", "ids": ["s1", "s2"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "proj-1", content.req.ProjectRef, "path wins over body")
	assert.Equal(t, []string{"s1", "s2"}, content.req.IDs)
	assert.Equal(t, []interface{}{"s1", "s2"}, body["deleted_ids"])
}

func TestContentHandler_ContentsNotFound(t *testing.T) {
	content := &fakeContentService{
		result: &models.DeleteContentResult{DeletedIDs: []string{"s1"}},
		err:    &domain.ContentsNotFoundError{MissingIDs: []string{"s3"}, DeletedIDs: []string{"s1"}},
	}
	h := newTestServer(&fakeTreeService{}, content)

	rec, body := do(t, h, http.MethodDelete, "/api/projects/proj-1/content", `{"ids": ["s1", "s3"]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.CodeContentsNotFound, body["code"])
	assert.Equal(t, []interface{}{"s3"}, body["missing_ids"])
	assert.Equal(t, []interface{}{"s1"}, body["deleted_ids"])
	assert.Equal(t, "Contents not found", body["detail"])
}

func TestContentHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "bad json", body: `{"ids":`, status: http.StatusBadRequest},
		{name: "validation", body: `{"ids": []}`, err: domain.ErrValidation, status: http.StatusBadRequest},
		{name: "plain not found", body: `{"ids": ["s1"]}`, err: &domain.NotFoundError{Message: "project not found"}, status: http.StatusNotFound},
		{name: "internal", body: `{"ids": ["s1"]}`, err: errors.New("connection reset"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeTreeService{}, &fakeContentService{err: tt.err})

			rec, body := do(t, h, http.MethodDelete, "/api/projects/proj-1/content", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, body, "code")
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body["detail"], "internal errors are not leaked")
			}
		})
	}
}
