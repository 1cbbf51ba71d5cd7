package snippets

import (
	"context"

	"snippetnav/internal/domain/models/snippets"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *snippets.Project) error

	// GetByID retrieves a project owned by userID
	GetByID(ctx context.Context, id, userID string) (*snippets.Project, error)
}
