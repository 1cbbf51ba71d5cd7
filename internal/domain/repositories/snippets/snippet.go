package snippets

import (
	"context"

	"snippetnav/internal/domain/models/snippets"
)

// SnippetRepository defines data access operations for snippets
type SnippetRepository interface {
	// Create creates a new snippet
	Create(ctx context.Context, snippet *snippets.Snippet) error

	// GetAllByProject retrieves all snippet metadata in a project (flat list)
	GetAllByProject(ctx context.Context, projectID string) ([]snippets.Snippet, error)

	// DeleteMany soft-deletes the given snippets and returns the IDs that were
	// actually deleted. IDs that did not exist (or were already deleted) are
	// simply absent from the result.
	DeleteMany(ctx context.Context, projectID string, ids []string) ([]string, error)
}
