package snippets

import (
	"context"
	"fmt"
	"log/slog"

	models "snippetnav/internal/domain/models/snippets"
	snippetsRepo "snippetnav/internal/domain/repositories/snippets"
	"snippetnav/internal/domain/services"
	snippetsSvc "snippetnav/internal/domain/services/snippets"

	"golang.org/x/sync/errgroup"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo  snippetsRepo.FolderRepository
	snippetRepo snippetsRepo.SnippetRepository
	authorizer  services.ResourceAuthorizer
	logger      *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo snippetsRepo.FolderRepository,
	snippetRepo snippetsRepo.SnippetRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) snippetsSvc.TreeService {
	return &treeService{
		folderRepo:  folderRepo,
		snippetRepo: snippetRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// GetFolderResponse returns every folder and snippet of a project. Nesting is
// left to the client so malformed parent links can be normalized there.
func (s *treeService) GetFolderResponse(ctx context.Context, userID, projectRef string) (*models.FolderResponse, error) {
	if err := s.authorizer.CanAccessProject(ctx, userID, projectRef); err != nil {
		return nil, err
	}

	var (
		folders  []models.Folder
		contents []models.Snippet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folders, err = s.folderRepo.GetAllByProject(gctx, projectRef)
		if err != nil {
			return fmt.Errorf("load folders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		contents, err = s.snippetRepo.GetAllByProject(gctx, projectRef)
		if err != nil {
			return fmt.Errorf("load snippets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("folder response loaded",
		"project_id", projectRef,
		"folder_count", len(folders),
		"snippet_count", len(contents),
	)

	return &models.FolderResponse{
		Folders:  folders,
		Contents: contents,
	}, nil
}
