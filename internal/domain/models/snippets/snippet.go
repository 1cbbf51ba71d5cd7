package snippets

import (
	"time"
)

// Visibility is an opaque sharing attribute. It is displayed and used to pick
// confirmation copy, never enforced here.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityProject Visibility = "project"
	VisibilityShared  Visibility = "shared"
)

// IsShared reports whether the snippet is visible beyond its owner
func (v Visibility) IsShared() bool {
	return v == VisibilityProject || v == VisibilityShared
}

// Snippet is a saved SQL query document, the leaf unit of the tree.
type Snippet struct {
	ID         string     `json:"id" db:"id"`
	ProjectID  string     `json:"project_id" db:"project_id"`
	FolderID   *string    `json:"folder_id" db:"folder_id"` // NULL = root level
	Name       string     `json:"name" db:"name"`
	Visibility Visibility `json:"visibility" db:"visibility"`
	Favorite   bool       `json:"favorite" db:"favorite"`
	IsEditing  bool       `json:"-"` // UI-local rename state, never persisted
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
