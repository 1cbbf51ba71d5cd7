package snippets

import (
	"context"
	"fmt"
	"log/slog"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
	snippetsRepo "snippetnav/internal/domain/repositories/snippets"
	"snippetnav/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSnippetRepository implements the SnippetRepository interface
type PostgresSnippetRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewSnippetRepository creates a new snippet repository
func NewSnippetRepository(config *postgres.RepositoryConfig) snippetsRepo.SnippetRepository {
	return &PostgresSnippetRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new snippet
func (r *PostgresSnippetRepository) Create(ctx context.Context, snippet *models.Snippet) error {
	visibility := snippet.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, folder_id, name, visibility, favorite, created_at, updated_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, visibility, created_at, updated_at
	`, r.tables.Snippets)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		snippet.ID,
		snippet.ProjectID,
		snippet.FolderID,
		snippet.Name,
		visibility,
		snippet.Favorite,
	).Scan(&snippet.ID, &snippet.Visibility, &snippet.CreatedAt, &snippet.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("snippet '%s' already exists in this location", snippet.Name),
				ResourceType: "snippet",
				ResourceID:   snippet.ID,
			}
		}
		return fmt.Errorf("create snippet: %w", err)
	}

	return nil
}

// GetAllByProject retrieves all snippet metadata in a project
func (r *PostgresSnippetRepository) GetAllByProject(ctx context.Context, projectID string) ([]models.Snippet, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, folder_id, name, visibility, favorite, created_at, updated_at
		FROM %s
		WHERE project_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`, r.tables.Snippets)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("get all snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]models.Snippet, 0)
	for rows.Next() {
		var s models.Snippet
		err := rows.Scan(
			&s.ID,
			&s.ProjectID,
			&s.FolderID,
			&s.Name,
			&s.Visibility,
			&s.Favorite,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		snippets = append(snippets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snippets: %w", err)
	}

	return snippets, nil
}

// DeleteMany soft-deletes snippets and returns the IDs that were deleted
func (r *PostgresSnippetRepository) DeleteMany(ctx context.Context, projectID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE project_id = $1 AND id = ANY($2::uuid[]) AND deleted_at IS NULL
		RETURNING id
	`, r.tables.Snippets)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID, ids)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("snippet ids: %w", domain.ErrValidation)
		}
		return nil, fmt.Errorf("delete snippets: %w", err)
	}
	defer rows.Close()

	deleted := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted snippet id: %w", err)
		}
		deleted = append(deleted, id)
	}

	if err := rows.Err(); err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("snippet ids: %w", domain.ErrValidation)
		}
		return nil, fmt.Errorf("iterate deleted snippets: %w", err)
	}

	r.logger.Debug("snippets soft-deleted",
		"project_id", projectID,
		"requested", len(ids),
		"deleted", len(deleted),
	)

	return deleted, nil
}
