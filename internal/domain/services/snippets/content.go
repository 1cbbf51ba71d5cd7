package snippets

import (
	"context"

	"snippetnav/internal/domain/models/snippets"
)

// ContentService performs destructive operations on snippets
type ContentService interface {
	// DeleteContent deletes snippets in bulk. When some requested snippets are
	// already gone, the rest are still deleted and a
	// *domain.ContentsNotFoundError is returned alongside the result.
	DeleteContent(ctx context.Context, userID string, req *snippets.DeleteContentRequest) (*snippets.DeleteContentResult, error)
}
