package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"snippetnav/internal/repository/postgres"
)

// SchemaStatements returns the DDL for the prefixed tables, in creation order
func SchemaStatements(tables *postgres.TableNames, tablePrefix string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Projects + ` (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Snippets + ` (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id) ON DELETE CASCADE,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			name VARCHAR(255) NOT NULL,
			visibility TEXT NOT NULL DEFAULT 'private' CHECK (visibility IN ('private', 'project', 'shared')),
			favorite BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_parent_name ON ` + tables.Folders + `(project_id, parent_id, name) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_root_name ON ` + tables.Folders + `(project_id, name) WHERE parent_id IS NULL AND deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `snippets_project_live ON ` + tables.Snippets + `(project_id) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `snippets_project_folder ON ` + tables.Snippets + `(project_id, folder_id)`,
	}
}

// EnsureSchema creates tables and indexes that do not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	for _, stmt := range SchemaStatements(tables, tablePrefix) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run schema: %w", err)
		}
	}
	return nil
}

// DropTables drops all tables in reverse order (to respect foreign keys)
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Snippets, tables.Folders, tables.Projects} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// ClearProject removes every snippet and folder of a project, including
// soft-deleted rows
func ClearProject(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, projectID string) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Snippets+" WHERE project_id = $1", projectID); err != nil {
		return fmt.Errorf("clear snippets: %w", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Folders+" WHERE project_id = $1", projectID); err != nil {
		return fmt.Errorf("clear folders: %w", err)
	}
	return nil
}
