package snippets

import (
	"context"

	"snippetnav/internal/domain/models/snippets"
)

// The interfaces below are what a dashboard session consumes. They are
// implemented by the HTTP client, the terminal UI and test fakes.

// FolderFetcher loads the flat folder/snippet collection of a project
type FolderFetcher interface {
	FetchFolders(ctx context.Context, projectRef string) (*snippets.FolderResponse, error)
}

// ContentDeleter issues bulk deletes. A *domain.ContentsNotFoundError means
// some targets were already absent.
type ContentDeleter interface {
	DeleteContent(ctx context.Context, req *snippets.DeleteContentRequest) (*snippets.DeleteContentResult, error)
}

// Navigator changes the current route. Fire-and-forget.
type Navigator interface {
	NavigateTo(path string)
}

// Notifier surfaces toasts to the user
type Notifier interface {
	NotifySuccess(message string)
	NotifyError(message string)
}

// SnippetOrder owns the canonical ordering of open snippets per project
type SnippetOrder interface {
	// Order returns the snippet IDs of a project in display order
	Order(projectRef string) []string
	// Replace sets the full ordering, typically after a fetch
	Replace(projectRef string, ids []string)
	// Remove drops the given IDs, keeping the order of the rest
	Remove(projectRef string, ids []string)
}
