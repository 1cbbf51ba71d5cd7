package navigator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
	snippetsSvc "snippetnav/internal/domain/services/snippets"
)

var (
	// ErrSessionClosed is returned by every method after Close
	ErrSessionClosed = errors.New("session closed")

	// ErrActionUnavailable is returned for context actions that are not
	// offered for a node, or are offered but disabled
	ErrActionUnavailable = errors.New("action unavailable")
)

// Action is a context-menu action
type Action string

const (
	ActionOpen       Action = "open"
	ActionOpenNewTab Action = "open_new_tab"
	ActionShare      Action = "share"
	ActionNewSnippet Action = "new_snippet"
	ActionRename     Action = "rename"
	ActionDelete     Action = "delete"
)

// ContextAction is one entry of a node's context menu
type ContextAction struct {
	Action  Action `json:"action"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// ContextActions lists the menu for a node kind. Only opening and deleting
// a snippet are enabled; folders are read-only.
func ContextActions(kind NodeKind) []ContextAction {
	if kind == KindLeaf {
		return []ContextAction{
			{Action: ActionOpen, Label: "Open", Enabled: true},
			{Action: ActionOpenNewTab, Label: "Open in new tab"},
			{Action: ActionShare, Label: "Share with team"},
			{Action: ActionRename, Label: "Rename"},
			{Action: ActionDelete, Label: "Delete", Enabled: true},
		}
	}
	return []ContextAction{
		{Action: ActionNewSnippet, Label: "New snippet"},
		{Action: ActionRename, Label: "Rename"},
		{Action: ActionDelete, Label: "Delete"},
	}
}

func actionEnabled(kind NodeKind, action Action) bool {
	for _, a := range ContextActions(kind) {
		if a.Action == action {
			return a.Enabled
		}
	}
	return false
}

// Collaborators are the external surfaces a session drives
type Collaborators struct {
	Fetcher   snippetsSvc.FolderFetcher
	Deleter   snippetsSvc.ContentDeleter
	Navigator snippetsSvc.Navigator
	Notifier  snippetsSvc.Notifier
	Order     snippetsSvc.SnippetOrder // defaults to a MemoryOrder
}

// SessionOptions tune a session. Hooks run on the event loop and must not
// call back into the session.
type SessionOptions struct {
	StaleTime      time.Duration
	RefetchOnFocus bool
	Prompts        *PromptCatalog   // defaults to the embedded catalog
	Clock          func() time.Time // defaults to time.Now
	OnRefresh      func(tree *Tree, err error)
	OnResolve      func(res Resolution)
}

// SessionState is a point-in-time copy of everything a surface renders
type SessionState struct {
	SessionID      string          `json:"session_id"`
	ProjectRef     string          `json:"project_ref"`
	Phase          Phase           `json:"phase"`
	Prompt         *Prompt         `json:"prompt,omitempty"`
	Selection      []string        `json:"selection"`
	OpenID         string          `json:"open_id,omitempty"`
	Visibility     GroupVisibility `json:"visibility"`
	Groups         []GroupView     `json:"groups"`
	Tree           *Tree           `json:"-"`
	Fetching       bool            `json:"fetching"`
	FetchedAt      time.Time       `json:"fetched_at"`
	Generation     uint64          `json:"generation"`
	FetchError     string          `json:"fetch_error,omitempty"`
	LastResolution *Resolution     `json:"last_resolution,omitempty"`
}

// Session is one open dashboard. All state lives on a single event-loop
// goroutine: public methods enqueue a handler and wait for it to finish, and
// fetch/delete completions are posted back as handlers, so state is never
// touched from two goroutines.
type Session struct {
	id         string
	projectRef string
	collab     Collaborators
	opts       SessionOptions
	logger     *slog.Logger

	view      *ViewState
	selection *Selection
	deletion  *DeletionCoordinator
	openID    string

	generation uint64
	fetching   bool
	fetchErr   error

	events    chan func()
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewSession starts the event loop for a project
func NewSession(projectRef string, collab Collaborators, opts SessionOptions, logger *slog.Logger) *Session {
	if collab.Order == nil {
		collab.Order = NewMemoryOrder()
	}
	if opts.Prompts == nil {
		opts.Prompts = MustLoadPromptCatalog()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	selection := &Selection{}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:         id,
		projectRef: projectRef,
		collab:     collab,
		opts:       opts,
		logger:     logger.With("session_id", id, "project_ref", projectRef),
		view: NewViewState(ViewStateOptions{
			StaleTime:      opts.StaleTime,
			RefetchOnFocus: opts.RefetchOnFocus,
		}),
		selection: selection,
		deletion:  NewDeletionCoordinator(selection, opts.Prompts),
		events:    make(chan func()),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Session) loop() {
	defer s.wg.Done()
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.done:
			return
		}
	}
}

// do runs fn on the loop and waits for it
func (s *Session) do(fn func()) error {
	ran := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(ran) }:
	case <-s.done:
		return ErrSessionClosed
	}
	select {
	case <-ran:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// post queues a completion from an async worker
func (s *Session) post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// Close stops the loop and waits for outstanding work. In-flight requests
// are cancelled and their completions discarded.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.done)
	})
	s.wg.Wait()
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Refresh fetches the tree when the data is stale, or always when force is
// set. It returns whether a fetch was started.
func (s *Session) Refresh(force bool) (bool, error) {
	var started bool
	err := s.do(func() {
		if force || s.view.NeedsRefresh(s.opts.Clock()) {
			s.startFetch()
			started = true
		}
	})
	return started, err
}

// Focus is called when the surface regains focus
func (s *Session) Focus() (bool, error) {
	var started bool
	err := s.do(func() {
		if s.view.ShouldRefetchOnFocus(s.opts.Clock()) {
			s.startFetch()
			started = true
		}
	})
	return started, err
}

func (s *Session) startFetch() {
	s.generation++
	gen := s.generation
	s.fetching = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		resp, err := s.collab.Fetcher.FetchFolders(s.ctx, s.projectRef)
		s.post(func() { s.applyFetch(gen, resp, err) })
	}()
}

func (s *Session) applyFetch(gen uint64, resp *models.FolderResponse, err error) {
	if gen != s.generation {
		s.logger.Debug("dropping stale fetch result", "generation", gen, "latest", s.generation)
		return
	}
	s.fetching = false

	if err != nil {
		s.fetchErr = err
		s.logger.Error("failed to fetch folders", "error", err)
		if s.opts.OnRefresh != nil {
			s.opts.OnRefresh(s.view.Tree(), err)
		}
		return
	}

	s.fetchErr = nil
	tree := s.view.Apply(resp, s.opts.Clock())
	s.collab.Order.Replace(s.projectRef, tree.SnippetIDs())

	if a := tree.Anomalies(); a.Total() > 0 {
		s.logger.Warn("normalized malformed folder data",
			"detached_snippets", a.DetachedSnippets,
			"detached_folders", a.DetachedFolders,
			"cyclic_folders", a.CyclicFolders,
			"duplicate_ids", a.DuplicateIDs,
		)
	}
	s.logger.Debug("tree rebuilt", "generation", gen, "nodes", tree.Len())

	if s.opts.OnRefresh != nil {
		s.opts.OnRefresh(tree, nil)
	}
}

// ToggleGroup flips a group's expanded state
func (s *Session) ToggleGroup(g Group) (bool, error) {
	var expanded bool
	err := s.do(func() { expanded = s.view.Toggle(g) })
	return expanded, err
}

// Open navigates to a snippet and records it as the open one
func (s *Session) Open(id string) error {
	var result error
	if err := s.do(func() { result = s.open(id) }); err != nil {
		return err
	}
	return result
}

func (s *Session) open(id string) error {
	tree := s.view.Tree()
	if tree == nil || !tree.HasSnippet(id) {
		return &domain.NotFoundError{Message: "snippet not found: " + id}
	}
	s.openID = id
	s.collab.Navigator.NavigateTo(SnippetPath(s.projectRef, id))
	return nil
}

// Select replaces the selection with the snippet behind a node
func (s *Session) Select(id string) error {
	var result error
	if err := s.do(func() { result = s.selectNode(id) }); err != nil {
		return err
	}
	return result
}

func (s *Session) selectNode(id string) error {
	node, ok := s.lookup(id)
	if !ok {
		return &domain.NotFoundError{Message: "node not found: " + id}
	}
	return s.selection.SelectNode(node)
}

// SelectMany replaces the selection with several snippets at once. Every ID
// must be a snippet in the current tree.
func (s *Session) SelectMany(ids []string) error {
	var result error
	err := s.do(func() {
		targets, err := s.resolveSnippets(ids, true)
		if err != nil {
			result = err
			return
		}
		s.selection.SelectMany(targets)
	})
	if err != nil {
		return err
	}
	return result
}

func (s *Session) lookup(id string) (TreeNode, bool) {
	tree := s.view.Tree()
	if tree == nil {
		return TreeNode{}, false
	}
	return tree.Node(id)
}

// resolveSnippets maps IDs to snippets of the current tree. With strict set
// an unknown ID is an error; otherwise it is skipped as stale.
func (s *Session) resolveSnippets(ids []string, strict bool) ([]models.Snippet, error) {
	out := make([]models.Snippet, 0, len(ids))
	for _, id := range ids {
		node, ok := s.lookup(id)
		if !ok || !node.IsLeaf() {
			if strict {
				return nil, &domain.NotFoundError{Message: "snippet not found: " + id}
			}
			s.logger.Debug("ignoring stale selection entry", "id", id)
			continue
		}
		out = append(out, *node.Metadata.Snippet)
	}
	return out, nil
}

// HandleAction dispatches a context-menu action for a node
func (s *Session) HandleAction(action Action, nodeID string) error {
	var result error
	err := s.do(func() {
		node, ok := s.lookup(nodeID)
		if !ok {
			result = &domain.NotFoundError{Message: "node not found: " + nodeID}
			return
		}
		if node.IsRoot() || !actionEnabled(node.Kind, action) {
			result = ErrActionUnavailable
			return
		}
		switch action {
		case ActionOpen:
			result = s.open(node.ID)
		case ActionDelete:
			_, result = s.requestDelete([]string{node.ID})
		default:
			result = ErrActionUnavailable
		}
	})
	if err != nil {
		return err
	}
	return result
}

// RequestDelete opens the confirmation prompt for ids, or for the current
// selection when ids is empty. Entries no longer in the tree are ignored.
func (s *Session) RequestDelete(ids ...string) (Prompt, error) {
	var (
		prompt Prompt
		result error
	)
	if err := s.do(func() { prompt, result = s.requestDelete(ids) }); err != nil {
		return Prompt{}, err
	}
	return prompt, result
}

func (s *Session) requestDelete(ids []string) (Prompt, error) {
	if len(ids) == 0 {
		ids = s.selection.IDs()
	}
	targets, _ := s.resolveSnippets(ids, false)
	return s.deletion.RequestDelete(targets)
}

// Cancel closes the confirmation prompt without issuing anything
func (s *Session) Cancel() error {
	return s.do(s.deletion.Cancel)
}

// Confirm issues the pending delete. It returns once the request is sent;
// the outcome is applied when the response arrives. A *PreconditionError
// means the prompt was abandoned and is only logged.
func (s *Session) Confirm() error {
	var result error
	err := s.do(func() {
		req, err := s.deletion.Confirm(s.projectRef)
		if err != nil {
			var pre *PreconditionError
			if errors.As(err, &pre) {
				s.logger.Warn("delete abandoned", "error", err)
			}
			result = err
			return
		}

		s.logger.Info("deleting snippets", "count", len(req.IDs))
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			res, err := s.collab.Deleter.DeleteContent(s.ctx, req)
			s.post(func() { s.resolveDelete(res, err) })
		}()
	})
	if err != nil {
		return err
	}
	return result
}

func (s *Session) resolveDelete(result *models.DeleteContentResult, err error) {
	res, rerr := s.deletion.Resolve(result, err)
	if rerr != nil {
		s.logger.Error("unexpected delete completion", "error", rerr)
		return
	}

	switch res.Outcome {
	case OutcomeFailure:
		s.logger.Error("failed to delete snippets", "error", res.Err, "ids", res.RequestedIDs)
		s.collab.Notifier.NotifyError(res.Failure)
	case OutcomePartialFailure:
		s.logger.Info("some snippets were already deleted", "error", res.Err, "removed", len(res.RemovedIDs))
		s.reconcile(res.RemovedIDs)
	case OutcomeSuccess:
		s.logger.Info("snippets deleted", "removed", len(res.RemovedIDs))
		s.reconcile(res.RemovedIDs)
		s.collab.Notifier.NotifySuccess(res.Success)
	}

	if s.opts.OnResolve != nil {
		s.opts.OnResolve(res)
	}
}

func (s *Session) reconcile(removed []string) {
	s.collab.Order.Remove(s.projectRef, removed)
	s.view.RemoveSnippets(removed)

	remaining := s.collab.Order.Order(s.projectRef)
	path, ok := DecideNavigation(s.projectRef, remaining, s.openID, removed)
	if !ok {
		return
	}
	if len(remaining) == 0 {
		s.openID = ""
	} else {
		s.openID = remaining[0]
	}
	s.collab.Navigator.NavigateTo(path)
}

// State returns a snapshot for rendering
func (s *Session) State() (SessionState, error) {
	var st SessionState
	err := s.do(func() {
		st = SessionState{
			SessionID:      s.id,
			ProjectRef:     s.projectRef,
			Phase:          s.deletion.Phase(),
			Prompt:         s.deletion.Prompt(),
			Selection:      s.selection.IDs(),
			OpenID:         s.openID,
			Visibility:     s.view.Visibility(),
			Groups:         s.view.Groups(),
			Tree:           s.view.Tree(),
			Fetching:       s.fetching,
			FetchedAt:      s.view.FetchedAt(),
			Generation:     s.generation,
			LastResolution: s.deletion.LastResolution(),
		}
		if s.fetchErr != nil {
			st.FetchError = s.fetchErr.Error()
		}
	})
	return st, err
}
