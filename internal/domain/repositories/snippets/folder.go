package snippets

import (
	"context"

	"snippetnav/internal/domain/models/snippets"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *snippets.Folder) error

	// GetAllByProject retrieves all folders in a project (flat list)
	GetAllByProject(ctx context.Context, projectID string) ([]snippets.Folder, error)
}
