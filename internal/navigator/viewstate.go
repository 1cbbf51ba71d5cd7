package navigator

import (
	"fmt"
	"time"

	"snippetnav/internal/config"
	models "snippetnav/internal/domain/models/snippets"
)

// Group is one of the three top-level sections of the navigator
type Group string

const (
	GroupFavorites Group = "favorites"
	GroupShared    Group = "shared"
	GroupPrivate   Group = "private"
)

// AllGroups lists the groups in display order
var AllGroups = []Group{GroupFavorites, GroupShared, GroupPrivate}

// ParseGroup validates a group name
func ParseGroup(s string) (Group, error) {
	for _, g := range AllGroups {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown group %q", s)
}

// GroupVisibility holds the expand/collapse state of the three groups. It
// lives as long as the session and is never persisted.
type GroupVisibility struct {
	Favorites bool `json:"favorites"`
	Shared    bool `json:"shared"`
	Private   bool `json:"private"`
}

// DefaultGroupVisibility expands only the private group
func DefaultGroupVisibility() GroupVisibility {
	return GroupVisibility{Private: true}
}

// Expanded reports whether a group is expanded
func (v GroupVisibility) Expanded(g Group) bool {
	switch g {
	case GroupFavorites:
		return v.Favorites
	case GroupShared:
		return v.Shared
	case GroupPrivate:
		return v.Private
	}
	return false
}

func (v *GroupVisibility) set(g Group, expanded bool) {
	switch g {
	case GroupFavorites:
		v.Favorites = expanded
	case GroupShared:
		v.Shared = expanded
	case GroupPrivate:
		v.Private = expanded
	}
}

// GroupView is a rendered group. Nodes is empty when the group is collapsed;
// Count is always the number of snippets in the group.
type GroupView struct {
	Group    Group      `json:"group"`
	Expanded bool       `json:"expanded"`
	Count    int        `json:"count"`
	Nodes    []TreeNode `json:"nodes"`
}

// ViewStateOptions configure the refresh policy
type ViewStateOptions struct {
	StaleTime      time.Duration
	RefetchOnFocus bool
}

// ViewState owns the current tree snapshot, the group visibility and the
// staleness window that gates rebuilds.
type ViewState struct {
	visibility     GroupVisibility
	tree           *Tree
	fetchedAt      time.Time
	staleTime      time.Duration
	refetchOnFocus bool
}

// NewViewState creates a view state with no data. A zero StaleTime uses the
// five minute default.
func NewViewState(opts ViewStateOptions) *ViewState {
	stale := opts.StaleTime
	if stale <= 0 {
		stale = config.DefaultStaleTime
	}
	return &ViewState{
		visibility:     DefaultGroupVisibility(),
		staleTime:      stale,
		refetchOnFocus: opts.RefetchOnFocus,
	}
}

// Visibility returns the group visibility
func (v *ViewState) Visibility() GroupVisibility {
	return v.visibility
}

// Toggle flips a group and returns its new state
func (v *ViewState) Toggle(g Group) bool {
	expanded := !v.visibility.Expanded(g)
	v.visibility.set(g, expanded)
	return expanded
}

// SetExpanded sets a group's state
func (v *ViewState) SetExpanded(g Group, expanded bool) {
	v.visibility.set(g, expanded)
}

// Tree returns the current snapshot, or nil before the first fetch
func (v *ViewState) Tree() *Tree {
	return v.tree
}

// FetchedAt returns when the snapshot was fetched
func (v *ViewState) FetchedAt() time.Time {
	return v.fetchedAt
}

// NeedsRefresh reports whether data is missing or older than the stale window
func (v *ViewState) NeedsRefresh(now time.Time) bool {
	if v.tree == nil {
		return true
	}
	return now.Sub(v.fetchedAt) >= v.staleTime
}

// ShouldRefetchOnFocus reports whether regaining focus should trigger a fetch.
// Always false unless refetch-on-focus was enabled.
func (v *ViewState) ShouldRefetchOnFocus(now time.Time) bool {
	if !v.refetchOnFocus {
		return false
	}
	return v.NeedsRefresh(now)
}

// Apply rebuilds the tree from fresh data, replacing the snapshot
func (v *ViewState) Apply(resp *models.FolderResponse, now time.Time) *Tree {
	v.tree = BuildTree(resp)
	v.fetchedAt = now
	return v.tree
}

// RemoveSnippets drops deleted snippets from the snapshot. The fetch time is
// kept: local reconciliation does not make the data fresher.
func (v *ViewState) RemoveSnippets(ids []string) {
	if v.tree == nil {
		return
	}
	v.tree = v.tree.Without(ids)
}

// Groups renders favorites and shared as flat snippet lists and private as
// the full folder tree without the root sentinel.
func (v *ViewState) Groups() []GroupView {
	views := make([]GroupView, 0, len(AllGroups))
	for _, g := range AllGroups {
		views = append(views, v.group(g))
	}
	return views
}

func (v *ViewState) group(g Group) GroupView {
	view := GroupView{Group: g, Expanded: v.visibility.Expanded(g), Nodes: []TreeNode{}}
	if v.tree == nil {
		return view
	}

	var nodes []TreeNode
	switch g {
	case GroupFavorites:
		nodes = v.leaves(func(s *models.Snippet) bool { return s.Favorite })
	case GroupShared:
		nodes = v.leaves(func(s *models.Snippet) bool { return s.Visibility.IsShared() })
	case GroupPrivate:
		all := v.tree.Nodes()
		nodes = all[1:]
	}

	for _, n := range nodes {
		if n.Kind == KindLeaf {
			view.Count++
		}
	}
	if view.Expanded {
		view.Nodes = nodes
	}
	return view
}

// leaves returns matching snippets as level-1 leaves under the root
func (v *ViewState) leaves(match func(*models.Snippet) bool) []TreeNode {
	out := make([]TreeNode, 0)
	for _, s := range v.tree.Snippets() {
		if !match(&s) {
			continue
		}
		n, _ := v.tree.Node(s.ID)
		n.Level = 1
		n.ParentID = RootNodeID
		out = append(out, n)
	}
	return out
}
