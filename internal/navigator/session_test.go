package navigator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
)

type fetchFunc func(ctx context.Context, projectRef string) (*models.FolderResponse, error)

func (f fetchFunc) FetchFolders(ctx context.Context, projectRef string) (*models.FolderResponse, error) {
	return f(ctx, projectRef)
}

// fakeDeleter records requests and answers with a fixed result
type fakeDeleter struct {
	mu     sync.Mutex
	calls  []*models.DeleteContentRequest
	result *models.DeleteContentResult
	err    error
}

func (d *fakeDeleter) DeleteContent(ctx context.Context, req *models.DeleteContentRequest) (*models.DeleteContentResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, req)
	return d.result, d.err
}

func (d *fakeDeleter) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// recorder captures navigation and notifications
type recorder struct {
	mu        sync.Mutex
	paths     []string
	successes []string
	failures  []string
}

func (r *recorder) NavigateTo(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) NotifySuccess(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, message)
}

func (r *recorder) NotifyError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, message)
}

func (r *recorder) snapshot() (paths, successes, failures []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...), append([]string(nil), r.successes...), append([]string(nil), r.failures...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func flatResponse(ids ...string) *models.FolderResponse {
	resp := &models.FolderResponse{}
	for _, id := range ids {
		resp.Contents = append(resp.Contents, snippet(id, "name "+id, nil))
	}
	return resp
}

type harness struct {
	session  *Session
	deleter  *fakeDeleter
	rec      *recorder
	clock    *fakeClock
	resolved chan Resolution
}

func newHarness(t *testing.T, projectRef string, fetch fetchFunc, opts SessionOptions) *harness {
	t.Helper()
	h := &harness{
		deleter:  &fakeDeleter{},
		rec:      &recorder{},
		clock:    &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		resolved: make(chan Resolution, 4),
	}
	opts.Clock = h.clock.Now
	opts.OnResolve = func(res Resolution) { h.resolved <- res }

	h.session = NewSession(projectRef, Collaborators{
		Fetcher:   fetch,
		Deleter:   h.deleter,
		Navigator: h.rec,
		Notifier:  h.rec,
	}, opts, nil)
	t.Cleanup(h.session.Close)
	return h
}

// load refreshes and waits until the tree is in place
func (h *harness) load(t *testing.T) {
	t.Helper()
	started, err := h.session.Refresh(true)
	require.NoError(t, err)
	require.True(t, started)
	require.Eventually(t, func() bool {
		st, err := h.session.State()
		return err == nil && !st.Fetching && st.Tree != nil
	}, time.Second, 5*time.Millisecond)
}

func (h *harness) waitResolved(t *testing.T) Resolution {
	t.Helper()
	select {
	case res := <-h.resolved:
		return res
	case <-time.After(time.Second):
		t.Fatal("delete never resolved")
		return Resolution{}
	}
}

func staticFetch(resp *models.FolderResponse) fetchFunc {
	return func(ctx context.Context, projectRef string) (*models.FolderResponse, error) {
		return resp, nil
	}
}

func TestSession_DeleteSuccessNavigatesToFirstRemaining(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s1", "s2", "s3", "s4")), SessionOptions{})
	h.load(t)
	h.deleter.result = &models.DeleteContentResult{DeletedIDs: []string{"s1", "s2"}}

	require.NoError(t, h.session.Open("s1"))
	_, err := h.session.RequestDelete("s1", "s2")
	require.NoError(t, err)
	require.NoError(t, h.session.Confirm())

	res := h.waitResolved(t)
	assert.Equal(t, OutcomeSuccess, res.Outcome)

	paths, successes, failures := h.rec.snapshot()
	assert.Equal(t, []string{"/project/proj/sql/s1", "/project/proj/sql/s3"}, paths)
	assert.Equal(t, []string{"Successfully deleted 2 queries"}, successes)
	assert.Empty(t, failures)

	for _, id := range []string{"s1", "s2"} {
		assert.ErrorIs(t, h.session.Select(id), domain.ErrNotFound, "%s should not be selectable", id)
	}

	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.Prompt)
	assert.Empty(t, st.Selection)
	assert.Equal(t, "s3", st.OpenID)
	assert.Equal(t, []string{"s3", "s4"}, st.Tree.SnippetIDs())
}

func TestSession_DeleteLastSnippetLandsOnNew(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s1")), SessionOptions{})
	h.load(t)

	_, err := h.session.RequestDelete("s1")
	require.NoError(t, err)
	require.NoError(t, h.session.Confirm())
	h.waitResolved(t)

	paths, _, _ := h.rec.snapshot()
	assert.Equal(t, []string{"/project/proj/sql/new"}, paths)
}

func TestSession_DeleteOtherSnippetDoesNotNavigate(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s1", "s2")), SessionOptions{})
	h.load(t)

	require.NoError(t, h.session.Open("s1"))
	_, err := h.session.RequestDelete("s2")
	require.NoError(t, err)
	require.NoError(t, h.session.Confirm())
	h.waitResolved(t)

	paths, _, _ := h.rec.snapshot()
	assert.Equal(t, []string{"/project/proj/sql/s1"}, paths)
}

func TestSession_DeleteNotFoundReconcilesQuietly(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s3", "s5")), SessionOptions{})
	h.load(t)
	h.deleter.err = &domain.ContentsNotFoundError{MissingIDs: []string{"s3"}}

	_, err := h.session.RequestDelete("s3")
	require.NoError(t, err)
	require.NoError(t, h.session.Confirm())

	res := h.waitResolved(t)
	assert.Equal(t, OutcomePartialFailure, res.Outcome)

	_, successes, failures := h.rec.snapshot()
	assert.Empty(t, failures, "not found is not an error for the user")
	assert.Empty(t, successes)

	st, err := h.session.State()
	require.NoError(t, err)
	assert.False(t, st.Tree.HasSnippet("s3"))
	assert.Empty(t, st.Selection)
}

func TestSession_DeleteFailureKeepsState(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s4", "s5")), SessionOptions{})
	h.load(t)
	h.deleter.err = errors.New("network unreachable")

	_, err := h.session.RequestDelete("s4")
	require.NoError(t, err)
	require.NoError(t, h.session.Confirm())

	res := h.waitResolved(t)
	assert.Equal(t, OutcomeFailure, res.Outcome)

	paths, successes, failures := h.rec.snapshot()
	assert.Empty(t, paths)
	assert.Empty(t, successes)
	assert.Equal(t, []string{"Failed to delete query: network unreachable"}, failures)

	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, []string{"s4"}, st.Selection)
	assert.True(t, st.Tree.HasSnippet("s4"))
	assert.Equal(t, PhaseIdle, st.Phase)
}

func TestSession_CancelIssuesNothing(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s1", "s2")), SessionOptions{})
	h.load(t)

	before, err := h.session.State()
	require.NoError(t, err)

	_, err = h.session.RequestDelete("s1")
	require.NoError(t, err)
	require.NoError(t, h.session.Cancel())

	after, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, 0, h.deleter.callCount())
	assert.Equal(t, before.Tree.Nodes(), after.Tree.Nodes())
	assert.Equal(t, PhaseIdle, after.Phase)
	assert.Equal(t, []string{"s1"}, after.Selection)
}

func TestSession_ConfirmWithoutProjectRef(t *testing.T) {
	h := newHarness(t, "", staticFetch(flatResponse("s1")), SessionOptions{})
	h.load(t)

	_, err := h.session.RequestDelete("s1")
	require.NoError(t, err)

	err = h.session.Confirm()

	var pre *PreconditionError
	require.True(t, errors.As(err, &pre))
	assert.Equal(t, 0, h.deleter.callCount())
	_, _, failures := h.rec.snapshot()
	assert.Empty(t, failures, "precondition failures are only logged")

	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, st.Phase)
}

func TestSession_SecondConfirmWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, "proj", staticFetch(flatResponse("s1", "s2")), SessionOptions{})
	h.load(t)
	blocking := &blockingDeleter{release: release}
	h.session.collab.Deleter = blocking

	_, err := h.session.RequestDelete("s1")
	require.NoError(t, err)
	require.NoError(t, h.session.Confirm())

	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, PhaseInFlight, st.Phase)
	require.NotNil(t, st.Prompt)
	assert.True(t, st.Prompt.Loading)

	assert.ErrorIs(t, h.session.Confirm(), ErrDeleteInFlight)
	_, err = h.session.RequestDelete("s2")
	assert.ErrorIs(t, err, ErrDeleteInFlight)

	close(release)
	assert.Equal(t, OutcomeSuccess, h.waitResolved(t).Outcome)
}

type blockingDeleter struct {
	release chan struct{}
}

func (d *blockingDeleter) DeleteContent(ctx context.Context, req *models.DeleteContentRequest) (*models.DeleteContentResult, error) {
	select {
	case <-d.release:
		return &models.DeleteContentResult{DeletedIDs: req.IDs}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSession_StaleFetchDropped(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("fresh")), SessionOptions{})
	h.load(t)
	h.load(t)

	// a completion from the first generation arrives after the second
	require.NoError(t, h.session.do(func() {
		h.session.applyFetch(1, flatResponse("stale"), nil)
	}))

	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), st.Generation)
	assert.Equal(t, []string{"fresh"}, st.Tree.SnippetIDs())
}

func TestSession_FetchErrorKeepsTree(t *testing.T) {
	var mu sync.Mutex
	fail := false
	fetch := func(ctx context.Context, projectRef string) (*models.FolderResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("boom")
		}
		return flatResponse("s1"), nil
	}
	h := newHarness(t, "proj", fetch, SessionOptions{})
	h.load(t)

	mu.Lock()
	fail = true
	mu.Unlock()
	_, err := h.session.Refresh(true)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		st, err := h.session.State()
		return err == nil && st.FetchError == "boom"
	}, time.Second, 5*time.Millisecond)

	st, err := h.session.State()
	require.NoError(t, err)
	assert.True(t, st.Tree.HasSnippet("s1"))
}

func TestSession_RefreshPolicy(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context, projectRef string) (*models.FolderResponse, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return flatResponse("s1"), nil
	}

	t.Run("stale window", func(t *testing.T) {
		h := newHarness(t, "proj", fetch, SessionOptions{})
		h.load(t)

		started, err := h.session.Refresh(false)
		require.NoError(t, err)
		assert.False(t, started, "fresh data is not refetched")

		h.clock.Advance(5 * time.Minute)
		started, err = h.session.Refresh(false)
		require.NoError(t, err)
		assert.True(t, started)

		h.clock.Advance(time.Hour)
		started, err = h.session.Focus()
		require.NoError(t, err)
		assert.False(t, started, "focus never refetches by default")
	})

	t.Run("focus enabled", func(t *testing.T) {
		h := newHarness(t, "proj", fetch, SessionOptions{RefetchOnFocus: true, StaleTime: time.Minute})
		h.load(t)

		started, err := h.session.Focus()
		require.NoError(t, err)
		assert.False(t, started)

		h.clock.Advance(2 * time.Minute)
		started, err = h.session.Focus()
		require.NoError(t, err)
		assert.True(t, started)
	})
}

func TestSession_ContextActions(t *testing.T) {
	resp := flatResponse("s1")
	resp.Folders = []models.Folder{folder("f1", "F", nil)}
	h := newHarness(t, "proj", staticFetch(resp), SessionOptions{})
	h.load(t)

	assert.ErrorIs(t, h.session.HandleAction(ActionRename, "s1"), ErrActionUnavailable)
	assert.ErrorIs(t, h.session.HandleAction(ActionDelete, "f1"), ErrActionUnavailable)
	assert.ErrorIs(t, h.session.HandleAction(ActionOpen, RootNodeID), ErrActionUnavailable)
	assert.ErrorIs(t, h.session.HandleAction(ActionOpen, "missing"), domain.ErrNotFound)

	require.NoError(t, h.session.HandleAction(ActionOpen, "s1"))
	paths, _, _ := h.rec.snapshot()
	assert.Equal(t, []string{"/project/proj/sql/s1"}, paths)

	require.NoError(t, h.session.HandleAction(ActionDelete, "s1"))
	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, PhaseConfirmPending, st.Phase)
	assert.Equal(t, []string{"s1"}, st.Selection)

	var enabled []Action
	for _, a := range ContextActions(KindLeaf) {
		if a.Enabled {
			enabled = append(enabled, a.Action)
		}
	}
	assert.Equal(t, []Action{ActionOpen, ActionDelete}, enabled)
	for _, a := range ContextActions(KindBranch) {
		assert.False(t, a.Enabled)
	}

	labels := func(actions []ContextAction) []string {
		out := make([]string, 0, len(actions))
		for _, a := range actions {
			out = append(out, a.Label)
		}
		return out
	}
	assert.Equal(t, []string{"Open", "Open in new tab", "Share with team", "Rename", "Delete"}, labels(ContextActions(KindLeaf)))
	assert.Equal(t, []string{"New snippet", "Rename", "Delete"}, labels(ContextActions(KindBranch)))
	assert.ErrorIs(t, h.session.HandleAction(ActionShare, "s1"), ErrActionUnavailable)
	assert.ErrorIs(t, h.session.HandleAction(ActionNewSnippet, "f1"), ErrActionUnavailable)
}

func TestSession_SelectMany(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s1", "s2", "s3")), SessionOptions{})
	h.load(t)

	require.NoError(t, h.session.SelectMany([]string{"s3", "s1"}))
	assert.ErrorIs(t, h.session.SelectMany([]string{"s2", "nope"}), domain.ErrNotFound)

	prompt, err := h.session.RequestDelete()
	require.NoError(t, err)
	assert.Equal(t, "Are you sure you want to delete 2 queries?", prompt.Description)

	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s1"}, st.Selection)
}

func TestSession_ToggleGroup(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s1")), SessionOptions{})

	expanded, err := h.session.ToggleGroup(GroupFavorites)
	require.NoError(t, err)
	assert.True(t, expanded)

	st, err := h.session.State()
	require.NoError(t, err)
	assert.Equal(t, GroupVisibility{Favorites: true, Private: true}, st.Visibility)
}

func TestSession_Closed(t *testing.T) {
	h := newHarness(t, "proj", staticFetch(flatResponse("s1")), SessionOptions{})
	h.session.Close()
	h.session.Close()

	_, err := h.session.State()
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, h.session.Cancel(), ErrSessionClosed)
}
