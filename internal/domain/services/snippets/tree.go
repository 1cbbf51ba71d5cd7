package snippets

import (
	"context"

	"snippetnav/internal/domain/models/snippets"
)

// TreeService serves the folder/snippet collection of a project
type TreeService interface {
	// GetFolderResponse returns every folder and snippet of a project, flat.
	// userID is used for authorization check
	GetFolderResponse(ctx context.Context, userID, projectRef string) (*snippets.FolderResponse, error)
}
