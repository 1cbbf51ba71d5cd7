package handler

import "net/http"

// NewRouter registers the API routes (Go 1.22+ enhanced patterns)
func NewRouter(treeHandler *TreeHandler, contentHandler *ContentHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)

	// Project content
	mux.HandleFunc("GET /api/projects/{ref}/content/folders", treeHandler.GetFolders)
	mux.HandleFunc("GET /api/projects/{ref}/content/tree", treeHandler.GetTree)
	mux.HandleFunc("DELETE /api/projects/{ref}/content", contentHandler.DeleteContent)

	return mux
}
