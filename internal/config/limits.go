package config

import "time"

const (
	// MaxSnippetNameLength is the maximum length for snippet names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxSnippetNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as snippet names for consistency.
	MaxFolderNameLength = 255

	// MaxBulkDeleteIDs caps how many snippets a single delete request may target.
	MaxBulkDeleteIDs = 500

	// DefaultStaleTime is how long a fetched folder response is considered fresh
	// before the dashboard refetches it.
	DefaultStaleTime = 5 * time.Minute

	// DefaultLogMaxFiles is how many rotated log files are kept in LOG_DIR.
	DefaultLogMaxFiles = 10
)
