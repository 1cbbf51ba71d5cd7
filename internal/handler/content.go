package handler

import (
	"log/slog"
	"net/http"

	models "snippetnav/internal/domain/models/snippets"
	snippetsSvc "snippetnav/internal/domain/services/snippets"
	"snippetnav/internal/httputil"
)

// ContentHandler handles destructive snippet requests
type ContentHandler struct {
	contentService snippetsSvc.ContentService
	logger         *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService snippetsSvc.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// DeleteContent deletes snippets in bulk
// DELETE /api/projects/{ref}/content
// Returns 200 with deleted_ids, or 404 with code "contents_not_found" when
// some snippets were already gone (the rest are still deleted)
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	ref, ok := projectRef(w, r)
	if !ok {
		return
	}

	var req models.DeleteContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The path is authoritative
	req.ProjectRef = ref

	result, err := h.contentService.DeleteContent(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
