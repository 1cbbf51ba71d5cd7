package navigator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "snippetnav/internal/domain/models/snippets"
)

func TestLoadPromptCatalog(t *testing.T) {
	catalog, err := LoadPromptCatalog()
	require.NoError(t, err)

	assert.Equal(t, "Confirm to delete query", catalog.Delete.Title)
	assert.NotEmpty(t, catalog.Delete.ProjectAlert.Title)
}

func TestParsePromptCatalog_MissingKey(t *testing.T) {
	_, err := ParsePromptCatalog([]byte("delete:\n  title: Only a title\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompts: missing")

	_, err = ParsePromptCatalog([]byte("delete: [not, a, map]"))
	require.Error(t, err)
}

func TestDeletePrompt(t *testing.T) {
	catalog := MustLoadPromptCatalog()

	private := snippet("s1", "orders by day", nil)
	shared := snippet("s2", "team report", nil)
	shared.Visibility = models.VisibilityProject
	other := snippet("s3", "link only", nil)
	other.Visibility = models.VisibilityShared

	tests := []struct {
		name        string
		targets     []models.Snippet
		description string
		alert       bool
	}{
		{
			name:        "single private",
			targets:     []models.Snippet{private},
			description: "Are you sure you want to delete 'orders by day'?",
		},
		{
			name:        "single project snippet warns",
			targets:     []models.Snippet{shared},
			description: "Are you sure you want to delete 'team report'?",
			alert:       true,
		},
		{
			name:        "shared visibility does not warn",
			targets:     []models.Snippet{other},
			description: "Are you sure you want to delete 'link only'?",
		},
		{
			name:        "many with one project snippet",
			targets:     []models.Snippet{private, shared, other},
			description: "Are you sure you want to delete 3 queries?",
			alert:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := catalog.DeletePrompt(tt.targets)
			assert.Equal(t, tt.description, p.Description)
			assert.Equal(t, tt.alert, p.Alert != nil)
			assert.Equal(t, "Delete query", p.Label())

			p.Loading = true
			assert.Equal(t, "Deleting query", p.Label())
		})
	}
}

func TestDeleteNotifications(t *testing.T) {
	catalog := MustLoadPromptCatalog()

	assert.Equal(t, "Successfully deleted query", catalog.DeleteSuccess(1))
	assert.Equal(t, "Successfully deleted 4 queries", catalog.DeleteSuccess(4))
	assert.Equal(t, "Failed to delete query: connection reset", catalog.DeleteFailure(errors.New("connection reset")))
}
