package snippets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"snippetnav/internal/config"
	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
	"snippetnav/internal/domain/repositories"
	snippetsRepo "snippetnav/internal/domain/repositories/snippets"
	"snippetnav/internal/domain/services"
	snippetsSvc "snippetnav/internal/domain/services/snippets"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// contentService implements the ContentService interface
type contentService struct {
	snippetRepo snippetsRepo.SnippetRepository
	txManager   repositories.TransactionManager
	authorizer  services.ResourceAuthorizer
	logger      *slog.Logger
}

// NewContentService creates a new content service
func NewContentService(
	snippetRepo snippetsRepo.SnippetRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) snippetsSvc.ContentService {
	return &contentService{
		snippetRepo: snippetRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// DeleteContent soft-deletes snippets in bulk. Snippets that no longer exist
// do not stop the rest from being deleted; they are reported through a
// *domain.ContentsNotFoundError returned together with the result.
func (s *contentService) DeleteContent(ctx context.Context, userID string, req *models.DeleteContentRequest) (*models.DeleteContentResult, error) {
	if err := s.validateDeleteRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.authorizer.CanAccessProject(ctx, userID, req.ProjectRef); err != nil {
		return nil, err
	}

	ids := dedupe(req.IDs)

	var deleted []string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.snippetRepo.DeleteMany(txCtx, req.ProjectRef, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	if deleted == nil {
		deleted = []string{}
	}
	result := &models.DeleteContentResult{DeletedIDs: deleted}

	missing := make([]string, 0)
	for _, id := range ids {
		if !slices.Contains(deleted, id) {
			missing = append(missing, id)
		}
	}

	s.logger.Info("snippets deleted",
		"project_id", req.ProjectRef,
		"user_id", userID,
		"requested", len(ids),
		"deleted", len(deleted),
		"missing", len(missing),
	)

	if len(missing) > 0 {
		return result, &domain.ContentsNotFoundError{
			MissingIDs: missing,
			DeletedIDs: deleted,
		}
	}

	return result, nil
}

func (s *contentService) validateDeleteRequest(req *models.DeleteContentRequest) error {
	if req == nil {
		return errors.New("request is required")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectRef, validation.Required),
		validation.Field(&req.IDs,
			validation.Required,
			validation.Length(1, config.MaxBulkDeleteIDs),
			validation.Each(validation.By(validateUUID)),
		),
	)
}

func validateUUID(value interface{}) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

// dedupe canonicalizes IDs and drops repeats, keeping first occurrences in order
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			id = u.String()
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
