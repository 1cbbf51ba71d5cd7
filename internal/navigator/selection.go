package navigator

import (
	"slices"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
)

// Selection holds the snippets targeted by the next operation. It is not
// checked against the current tree; consumers ignore entries that have gone
// stale since they were selected.
type Selection struct {
	items []models.Snippet
}

// Select replaces the selection with a single snippet
func (s *Selection) Select(snippet models.Snippet) {
	s.items = []models.Snippet{snippet}
}

// SelectNode selects the snippet behind a tree node. Folders and the root
// cannot be selected.
func (s *Selection) SelectNode(node TreeNode) error {
	if node.Kind != KindLeaf || node.Metadata.Snippet == nil {
		return &domain.ValidationError{Message: "only snippets can be selected"}
	}
	s.Select(*node.Metadata.Snippet)
	return nil
}

// SelectMany replaces the selection in one step. Order is kept and repeated
// IDs are dropped.
func (s *Selection) SelectMany(snippets []models.Snippet) {
	items := make([]models.Snippet, 0, len(snippets))
	seen := make(map[string]bool, len(snippets))
	for _, snippet := range snippets {
		if seen[snippet.ID] {
			continue
		}
		seen[snippet.ID] = true
		items = append(items, snippet)
	}
	s.items = items
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.items = nil
}

// Current returns a copy of the selected snippets
func (s *Selection) Current() []models.Snippet {
	return slices.Clone(s.items)
}

// IDs returns the selected snippet IDs in selection order
func (s *Selection) IDs() []string {
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	return ids
}

// Contains reports whether a snippet is selected
func (s *Selection) Contains(id string) bool {
	return slices.ContainsFunc(s.items, func(item models.Snippet) bool { return item.ID == id })
}

func (s *Selection) Len() int {
	return len(s.items)
}
