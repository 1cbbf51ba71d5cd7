package navigator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
)

func newCoordinator() (*DeletionCoordinator, *Selection) {
	sel := &Selection{}
	return NewDeletionCoordinator(sel, MustLoadPromptCatalog()), sel
}

func confirmed(t *testing.T, ids ...string) (*DeletionCoordinator, *Selection) {
	t.Helper()
	c, sel := newCoordinator()
	targets := make([]models.Snippet, len(ids))
	for i, id := range ids {
		targets[i] = snippet(id, id, nil)
	}
	_, err := c.RequestDelete(targets)
	require.NoError(t, err)
	req, err := c.Confirm("proj")
	require.NoError(t, err)
	require.Equal(t, ids, req.IDs)
	require.Equal(t, PhaseInFlight, c.Phase())
	return c, sel
}

func TestDeletionCoordinator_RequestAndCancel(t *testing.T) {
	c, sel := newCoordinator()
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Nil(t, c.Prompt())

	prompt, err := c.RequestDelete([]models.Snippet{snippet("s1", "daily", nil)})
	require.NoError(t, err)
	assert.Equal(t, PhaseConfirmPending, c.Phase())
	assert.Equal(t, "Are you sure you want to delete 'daily'?", prompt.Description)
	require.NotNil(t, c.Prompt())

	c.Cancel()

	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Nil(t, c.Prompt())
	assert.Equal(t, []string{"s1"}, sel.IDs(), "cancel keeps the selection")
}

func TestDeletionCoordinator_RequestReplacesPending(t *testing.T) {
	c, sel := newCoordinator()
	_, err := c.RequestDelete([]models.Snippet{snippet("s1", "a", nil)})
	require.NoError(t, err)

	_, err = c.RequestDelete([]models.Snippet{snippet("s2", "b", nil), snippet("s3", "c", nil)})
	require.NoError(t, err)

	assert.Equal(t, []string{"s2", "s3"}, sel.IDs())
	assert.Equal(t, "Are you sure you want to delete 2 queries?", c.Prompt().Description)
}

func TestDeletionCoordinator_RequestWithoutTargets(t *testing.T) {
	c, _ := newCoordinator()
	_, err := c.RequestDelete(nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestDeletionCoordinator_InFlightGuards(t *testing.T) {
	c, _ := confirmed(t, "s1")

	assert.True(t, c.Prompt().Loading, "confirm is disabled while in flight")
	assert.Equal(t, "Deleting query", c.Prompt().Label())

	_, err := c.RequestDelete([]models.Snippet{snippet("s2", "b", nil)})
	assert.ErrorIs(t, err, ErrDeleteInFlight)
	_, err = c.Confirm("proj")
	assert.ErrorIs(t, err, ErrDeleteInFlight)

	c.Cancel()
	assert.Equal(t, PhaseInFlight, c.Phase(), "cancel does nothing once the request is out")
}

func TestDeletionCoordinator_ConfirmPreconditions(t *testing.T) {
	t.Run("not pending", func(t *testing.T) {
		c, _ := newCoordinator()
		_, err := c.Confirm("proj")
		assert.ErrorIs(t, err, ErrNoPendingDelete)
	})

	t.Run("missing project ref", func(t *testing.T) {
		c, sel := newCoordinator()
		_, err := c.RequestDelete([]models.Snippet{snippet("s1", "a", nil)})
		require.NoError(t, err)

		req, err := c.Confirm("")

		assert.Nil(t, req)
		var pre *PreconditionError
		require.True(t, errors.As(err, &pre))
		assert.Equal(t, "project ref", pre.Missing)
		assert.Equal(t, PhaseIdle, c.Phase())
		assert.Nil(t, c.Prompt())
		assert.Equal(t, []string{"s1"}, sel.IDs())
	})

	t.Run("selection cleared underneath", func(t *testing.T) {
		c, sel := newCoordinator()
		_, err := c.RequestDelete([]models.Snippet{snippet("s1", "a", nil)})
		require.NoError(t, err)
		sel.Clear()

		_, err = c.Confirm("proj")

		var pre *PreconditionError
		require.True(t, errors.As(err, &pre))
		assert.Equal(t, "target", pre.Missing)
		assert.Equal(t, PhaseIdle, c.Phase())
	})
}

func TestDeletionCoordinator_ResolveSuccess(t *testing.T) {
	c, sel := confirmed(t, "s1", "s2")

	res, err := c.Resolve(&models.DeleteContentResult{DeletedIDs: []string{"s2", "s1"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, []string{"s1", "s2"}, res.RemovedIDs)
	assert.Equal(t, "Successfully deleted 2 queries", res.Success)
	assert.Empty(t, res.Failure)
	assert.True(t, res.Reconciles())
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Nil(t, c.Prompt())
	assert.Zero(t, sel.Len(), "deleted snippets are no longer selected")
	assert.Equal(t, &res, c.LastResolution())
}

func TestDeletionCoordinator_ResolveSuccessWithoutIDs(t *testing.T) {
	c, _ := confirmed(t, "s1")

	res, err := c.Resolve(&models.DeleteContentResult{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"s1"}, res.RemovedIDs)
	assert.Equal(t, "Successfully deleted query", res.Success)
}

func TestDeletionCoordinator_ResolveNotFound(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		removed []string
	}{
		{
			name:    "all missing",
			err:     &domain.ContentsNotFoundError{MissingIDs: []string{"s3"}},
			removed: []string{"s3"},
		},
		{
			name:    "partially missing",
			err:     &domain.ContentsNotFoundError{MissingIDs: []string{"s4"}, DeletedIDs: []string{"s3"}},
			removed: []string{"s3", "s4"},
		},
		{
			name:    "wrapped without ids",
			err:     fmt.Errorf("delete content: %w", &domain.ContentsNotFoundError{}),
			removed: []string{"s3", "s4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sel := confirmed(t, "s3", "s4")

			res, err := c.Resolve(nil, tt.err)
			require.NoError(t, err)

			assert.Equal(t, OutcomePartialFailure, res.Outcome)
			assert.Equal(t, tt.removed, res.RemovedIDs)
			assert.Empty(t, res.Failure, "not found is never surfaced")
			assert.Empty(t, res.Success)
			assert.Zero(t, sel.Len())
			assert.Equal(t, PhaseIdle, c.Phase())
		})
	}
}

func TestDeletionCoordinator_ResolveFailure(t *testing.T) {
	c, sel := confirmed(t, "s4")

	// a message that looks like not-found is still a generic failure
	res, err := c.Resolve(nil, errors.New("Contents not found"))
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Empty(t, res.RemovedIDs)
	assert.False(t, res.Reconciles())
	assert.Equal(t, "Failed to delete query: Contents not found", res.Failure)
	assert.Equal(t, []string{"s4"}, sel.IDs(), "selection survives for a retry")
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Nil(t, c.Prompt())
}

func TestDeletionCoordinator_ResolveWithoutRequest(t *testing.T) {
	c, _ := newCoordinator()
	_, err := c.Resolve(nil, nil)
	assert.ErrorIs(t, err, ErrNoDeleteInFlight)
}

func TestDecideNavigation(t *testing.T) {
	tests := []struct {
		name      string
		remaining []string
		openID    string
		removed   []string
		wantPath  string
		wantOK    bool
	}{
		{
			name:     "nothing left",
			removed:  []string{"s1"},
			wantPath: "/project/proj/sql/new",
			wantOK:   true,
		},
		{
			name:      "open snippet removed",
			remaining: []string{"s3", "s4"},
			openID:    "s1",
			removed:   []string{"s1", "s2"},
			wantPath:  "/project/proj/sql/s3",
			wantOK:    true,
		},
		{
			name:      "open snippet kept",
			remaining: []string{"s3", "s4"},
			openID:    "s4",
			removed:   []string{"s1"},
		},
		{
			name:      "nothing open",
			remaining: []string{"s3"},
			removed:   []string{"s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := DecideNavigation("proj", tt.remaining, tt.openID, tt.removed)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
