package auth

import (
	"context"
	"errors"
	"fmt"

	"snippetnav/internal/domain"
	snippetsRepo "snippetnav/internal/domain/repositories/snippets"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a project's folders and snippets if they own the project.
// Snippet visibility is displayed by clients but not enforced here.
type OwnerBasedAuthorizer struct {
	projectRepo snippetsRepo.ProjectRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(projectRepo snippetsRepo.ProjectRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{projectRepo: projectRepo}
}

// CanAccessProject checks if user owns the project
func (a *OwnerBasedAuthorizer) CanAccessProject(ctx context.Context, userID, projectID string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}

	// GetByID filters by userID, so not found means not owned
	_, err := a.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("access denied to project %s: %w", projectID, domain.ErrForbidden)
		}
		return fmt.Errorf("check project access: %w", err)
	}
	return nil
}
