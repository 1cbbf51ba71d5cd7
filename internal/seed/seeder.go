// Package seed creates the schema and loads sample folders and snippets.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
	"snippetnav/internal/domain/repositories"
	snippetsRepo "snippetnav/internal/domain/repositories/snippets"
)

// Stats reports what a seed run created
type Stats struct {
	ProjectCreated bool
	Folders        int
	Snippets       int
}

// Seeder loads fixtures through the repositories
type Seeder struct {
	projects  snippetsRepo.ProjectRepository
	folders   snippetsRepo.FolderRepository
	snippets  snippetsRepo.SnippetRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	projects snippetsRepo.ProjectRepository,
	folders snippetsRepo.FolderRepository,
	snippets snippetsRepo.SnippetRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		projects:  projects,
		folders:   folders,
		snippets:  snippets,
		txManager: txManager,
		logger:    logger,
	}
}

// Seed creates the fixture's project for userID when missing, then its
// folders and snippets. Everything runs in one transaction.
func (s *Seeder) Seed(ctx context.Context, userID string, fixture *Fixture) (Stats, error) {
	var stats Stats
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		stats = Stats{}

		created, err := s.ensureProject(txCtx, userID, fixture.Project)
		if err != nil {
			return err
		}
		stats.ProjectCreated = created

		projectID := fixture.Project.ID
		if err := s.createSnippets(txCtx, projectID, nil, fixture.Snippets, &stats); err != nil {
			return err
		}
		return s.createFolders(txCtx, projectID, nil, fixture.Folders, &stats)
	})
	if err != nil {
		return Stats{}, err
	}

	s.logger.Info("seed complete",
		"project_id", fixture.Project.ID,
		"project_created", stats.ProjectCreated,
		"folders", stats.Folders,
		"snippets", stats.Snippets,
	)
	return stats, nil
}

func (s *Seeder) ensureProject(ctx context.Context, userID string, p FixtureProject) (bool, error) {
	_, err := s.projects.GetByID(ctx, p.ID, userID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("look up project: %w", err)
	}

	project := &models.Project{ID: p.ID, UserID: userID, Name: p.Name}
	if err := s.projects.Create(ctx, project); err != nil {
		return false, err
	}
	s.logger.Debug("project created", "project_id", project.ID)
	return true, nil
}

func (s *Seeder) createFolders(ctx context.Context, projectID string, parentID *string, folders []FixtureFolder, stats *Stats) error {
	for _, f := range folders {
		folder := &models.Folder{ProjectID: projectID, ParentID: parentID, Name: f.Name}
		if err := s.folders.Create(ctx, folder); err != nil {
			return fmt.Errorf("folder %q: %w", f.Name, err)
		}
		stats.Folders++

		id := folder.ID
		if err := s.createSnippets(ctx, projectID, &id, f.Snippets, stats); err != nil {
			return err
		}
		if err := s.createFolders(ctx, projectID, &id, f.Folders, stats); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createSnippets(ctx context.Context, projectID string, folderID *string, snippets []FixtureSnippet, stats *Stats) error {
	for _, sn := range snippets {
		snippet := &models.Snippet{
			ProjectID:  projectID,
			FolderID:   folderID,
			Name:       sn.Name,
			Visibility: sn.Visibility,
			Favorite:   sn.Favorite,
		}
		if err := s.snippets.Create(ctx, snippet); err != nil {
			return fmt.Errorf("snippet %q: %w", sn.Name, err)
		}
		stats.Snippets++
	}
	return nil
}
