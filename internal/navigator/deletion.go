package navigator

import (
	"errors"
	"fmt"
	"slices"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
)

// Phase is the state of the deletion flow
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseConfirmPending Phase = "confirm_pending"
	PhaseInFlight       Phase = "in_flight"
)

// Outcome classifies how a delete request resolved
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure" // some targets were already gone; treated as success
	OutcomeFailure        Outcome = "failure"
)

var (
	// ErrDeleteInFlight is returned when a delete is requested or confirmed
	// while another one is still running.
	ErrDeleteInFlight = errors.New("a delete is already in progress")

	// ErrNoPendingDelete is returned by Confirm outside ConfirmPending
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")

	// ErrNoDeleteInFlight is returned by Resolve when nothing was issued
	ErrNoDeleteInFlight = errors.New("no delete in flight")
)

// PreconditionError means the caller tried to confirm without the
// identifiers a delete needs. It is a caller bug, logged and never shown.
type PreconditionError struct {
	Missing string // "project ref" or "target"
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s is required to delete snippets", e.Missing)
}

// Resolution is what a finished delete asks the session to apply. RemovedIDs
// are reconciled out of the ordering and the tree; Success and Failure hold
// the notification to show, if any.
type Resolution struct {
	Outcome      Outcome  `json:"outcome"`
	RequestedIDs []string `json:"requested_ids"`
	RemovedIDs   []string `json:"removed_ids"`
	Success      string   `json:"success,omitempty"`
	Failure      string   `json:"failure,omitempty"`
	Err          error    `json:"-"`
}

// Reconciles reports whether the resolution removes snippets locally
func (r Resolution) Reconciles() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomePartialFailure
}

// DeletionCoordinator is the delete flow as a pure state machine: it decides
// transitions and returns what should happen, and performs no I/O itself.
//
//	Idle -> ConfirmPending -> InFlight -> (Success | PartialFailure | Failure) -> Idle
//	ConfirmPending -> Idle on cancel
type DeletionCoordinator struct {
	phase     Phase
	selection *Selection
	prompts   *PromptCatalog
	prompt    *Prompt
	inFlight  *models.DeleteContentRequest
	last      *Resolution
}

// NewDeletionCoordinator creates a coordinator that records its targets in selection
func NewDeletionCoordinator(selection *Selection, prompts *PromptCatalog) *DeletionCoordinator {
	return &DeletionCoordinator{
		phase:     PhaseIdle,
		selection: selection,
		prompts:   prompts,
	}
}

// Phase returns the current state
func (c *DeletionCoordinator) Phase() Phase {
	return c.phase
}

// Prompt returns the visible confirmation prompt, or nil when none is shown
func (c *DeletionCoordinator) Prompt() *Prompt {
	if c.prompt == nil {
		return nil
	}
	p := *c.prompt
	return &p
}

// LastResolution returns the most recent resolution, if any
func (c *DeletionCoordinator) LastResolution() *Resolution {
	if c.last == nil {
		return nil
	}
	r := *c.last
	return &r
}

// RequestDelete captures targets and opens the confirmation prompt. Asking
// again while a prompt is open replaces both.
func (c *DeletionCoordinator) RequestDelete(targets []models.Snippet) (Prompt, error) {
	if c.phase == PhaseInFlight {
		return Prompt{}, ErrDeleteInFlight
	}
	if len(targets) == 0 {
		return Prompt{}, &domain.ValidationError{Message: "at least one snippet must be selected"}
	}

	c.selection.SelectMany(targets)
	prompt := c.prompts.DeletePrompt(c.selection.Current())
	c.prompt = &prompt
	c.phase = PhaseConfirmPending
	return prompt, nil
}

// Cancel closes the prompt. The selection is kept so reopening the prompt
// shows the same targets.
func (c *DeletionCoordinator) Cancel() {
	if c.phase != PhaseConfirmPending {
		return
	}
	c.prompt = nil
	c.phase = PhaseIdle
}

// Confirm moves to InFlight and returns the request to issue. Without a
// project ref or any target the action is abandoned: the prompt closes,
// the selection stays, and a *PreconditionError is returned.
func (c *DeletionCoordinator) Confirm(projectRef string) (*models.DeleteContentRequest, error) {
	switch c.phase {
	case PhaseInFlight:
		return nil, ErrDeleteInFlight
	case PhaseIdle:
		return nil, ErrNoPendingDelete
	}

	var missing string
	switch {
	case projectRef == "":
		missing = "project ref"
	case c.selection.Len() == 0:
		missing = "target"
	}
	if missing != "" {
		c.prompt = nil
		c.phase = PhaseIdle
		return nil, &PreconditionError{Missing: missing}
	}

	req := &models.DeleteContentRequest{
		ProjectRef: projectRef,
		IDs:        c.selection.IDs(),
	}
	c.inFlight = req
	c.prompt.Loading = true
	c.phase = PhaseInFlight

	copied := *req
	copied.IDs = slices.Clone(req.IDs)
	return &copied, nil
}

// Resolve interprets the delete response and returns to Idle.
//
// A *domain.ContentsNotFoundError is a partial failure: the missing targets
// already match the desired end state, so they are reconciled like deleted
// ones and nothing is shown. Any other error leaves the selection intact
// for a retry.
func (c *DeletionCoordinator) Resolve(result *models.DeleteContentResult, err error) (Resolution, error) {
	if c.phase != PhaseInFlight || c.inFlight == nil {
		return Resolution{}, ErrNoDeleteInFlight
	}

	requested := slices.Clone(c.inFlight.IDs)
	res := Resolution{RequestedIDs: requested}

	var notFound *domain.ContentsNotFoundError
	switch {
	case err == nil:
		res.Outcome = OutcomeSuccess
		var deleted []string
		if result != nil {
			deleted = result.DeletedIDs
		}
		res.RemovedIDs = removedIDs(requested, deleted)
		res.Success = c.prompts.DeleteSuccess(len(res.RemovedIDs))
	case errors.As(err, &notFound):
		res.Outcome = OutcomePartialFailure
		res.RemovedIDs = removedIDs(requested, append(slices.Clone(notFound.DeletedIDs), notFound.MissingIDs...))
		res.Err = err
	default:
		res.Outcome = OutcomeFailure
		res.Failure = c.prompts.DeleteFailure(err)
		res.Err = err
	}

	if res.Reconciles() {
		c.selection.Clear()
	}
	c.prompt = nil
	c.inFlight = nil
	c.phase = PhaseIdle
	c.last = &res
	return res, nil
}

// removedIDs returns the reported IDs that were actually requested, in
// request order. An empty report means every requested ID.
func removedIDs(requested, reported []string) []string {
	if len(reported) == 0 {
		return slices.Clone(requested)
	}
	keep := make(map[string]bool, len(reported))
	for _, id := range reported {
		keep[id] = true
	}
	out := make([]string, 0, len(reported))
	for _, id := range requested {
		if keep[id] {
			out = append(out, id)
		}
	}
	return out
}

// SnippetPath is the route of an open snippet
func SnippetPath(projectRef, snippetID string) string {
	return fmt.Sprintf("/project/%s/sql/%s", projectRef, snippetID)
}

// NewSnippetPath is the landing route when a project has no snippets
func NewSnippetPath(projectRef string) string {
	return fmt.Sprintf("/project/%s/sql/new", projectRef)
}

// DecideNavigation picks where to go after snippets were removed. remaining
// is the canonical order after removal. With nothing left the user lands on
// the new-snippet page; if the open snippet was removed the first remaining
// one opens; otherwise the route does not change (ok is false).
func DecideNavigation(projectRef string, remaining []string, openID string, removed []string) (path string, ok bool) {
	if len(remaining) == 0 {
		return NewSnippetPath(projectRef), true
	}
	if openID != "" && slices.Contains(removed, openID) {
		return SnippetPath(projectRef, remaining[0]), true
	}
	return "", false
}
