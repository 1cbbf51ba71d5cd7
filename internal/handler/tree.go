package handler

import (
	"log/slog"
	"net/http"

	snippetsSvc "snippetnav/internal/domain/services/snippets"
	"snippetnav/internal/httputil"
	"snippetnav/internal/navigator"
)

// TreeHandler handles HTTP requests for folder/snippet listings
type TreeHandler struct {
	treeService snippetsSvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService snippetsSvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetFolders returns the flat folder/snippet collection of a project
// GET /api/projects/{ref}/content/folders
func (h *TreeHandler) GetFolders(w http.ResponseWriter, r *http.Request) {
	ref, ok := projectRef(w, r)
	if !ok {
		return
	}

	resp, err := h.treeService.GetFolderResponse(r.Context(), httputil.GetUserID(r), ref)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// GetTree returns the flattened pre-order tree of a project
// GET /api/projects/{ref}/content/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	ref, ok := projectRef(w, r)
	if !ok {
		return
	}

	resp, err := h.treeService.GetFolderResponse(r.Context(), httputil.GetUserID(r), ref)
	if err != nil {
		handleError(w, err)
		return
	}

	tree := navigator.BuildTree(resp)
	if a := tree.Anomalies(); a.Total() > 0 {
		h.logger.Warn("project has malformed folder data",
			"project_id", ref,
			"detached_snippets", a.DetachedSnippets,
			"detached_folders", a.DetachedFolders,
			"cyclic_folders", a.CyclicFolders,
			"duplicate_ids", a.DuplicateIDs,
		)
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
