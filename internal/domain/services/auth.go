package services

import "context"

// ResourceAuthorizer decides whether a user may read or delete the snippets
// of a project. A nil error grants access; otherwise the error wraps
// domain.ErrUnauthorized or domain.ErrForbidden.
type ResourceAuthorizer interface {
	CanAccessProject(ctx context.Context, userID, projectRef string) error
}
