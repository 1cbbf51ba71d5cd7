package navigator

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"

	models "snippetnav/internal/domain/models/snippets"
)

// RootNodeID identifies the synthetic root sentinel of every tree
const RootNodeID = "root"

// NodeKind distinguishes folders (branches) from snippets (leaves)
type NodeKind string

const (
	KindBranch NodeKind = "branch"
	KindLeaf   NodeKind = "leaf"
)

// NodeMetadata carries the entity a node was built from. Exactly one field
// is set, except on the root sentinel where both are nil.
type NodeMetadata struct {
	Folder  *models.Folder  `json:"folder,omitempty"`
	Snippet *models.Snippet `json:"snippet,omitempty"`
}

// TreeNode is one row of the flattened tree
type TreeNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Kind     NodeKind     `json:"kind"`
	Level    int          `json:"level"`
	ParentID string       `json:"parent_id,omitempty"` // empty only for the root
	Children []string     `json:"children"`
	Metadata NodeMetadata `json:"metadata"`
}

// IsRoot reports whether the node is the synthetic root sentinel
func (n TreeNode) IsRoot() bool {
	return n.ID == RootNodeID && n.Metadata.Folder == nil && n.Metadata.Snippet == nil
}

// IsLeaf reports whether the node is a snippet
func (n TreeNode) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// Anomalies counts input problems the builder normalized instead of failing on
type Anomalies struct {
	DetachedSnippets int `json:"detached_snippets"` // folder_id pointed at an unknown folder
	DetachedFolders  int `json:"detached_folders"`  // parent_id pointed at an unknown folder
	CyclicFolders    int `json:"cyclic_folders"`    // unreachable from root because of a parent cycle
	DuplicateIDs     int `json:"duplicate_ids"`
}

// Total returns the number of anomalies of any kind
func (a Anomalies) Total() int {
	return a.DetachedSnippets + a.DetachedFolders + a.CyclicFolders + a.DuplicateIDs
}

// Tree is an immutable snapshot of a built tree. Accessors return copies;
// a refresh replaces the whole snapshot.
type Tree struct {
	nodes     []TreeNode
	index     map[string]int
	anomalies Anomalies
	source    models.FolderResponse
}

// BuildTree flattens a folder response into a pre-order sequence prefixed by
// the root sentinel. Folders come before snippets at every level; each group
// is sorted by name (case-insensitive, ties broken by ID). Malformed
// relationships degrade to root attachment and are counted in Anomalies.
func BuildTree(resp *models.FolderResponse) *Tree {
	b := newTreeBuilder(resp)
	b.build()
	return &Tree{
		nodes:     b.nodes,
		index:     b.index,
		anomalies: b.anomalies,
		source:    b.source,
	}
}

type treeBuilder struct {
	source    models.FolderResponse
	folders   map[string]*models.Folder
	subfolder map[string][]*models.Folder  // parent folder ID ("" = root) -> folders
	contents  map[string][]*models.Snippet // folder ID ("" = root) -> snippets
	visited   map[string]bool
	nodes     []TreeNode
	index     map[string]int
	anomalies Anomalies
}

func newTreeBuilder(resp *models.FolderResponse) *treeBuilder {
	b := &treeBuilder{
		folders:   make(map[string]*models.Folder),
		subfolder: make(map[string][]*models.Folder),
		contents:  make(map[string][]*models.Snippet),
		visited:   make(map[string]bool),
		index:     make(map[string]int),
	}
	if resp == nil {
		return b
	}

	// Keep a private copy so later mutation of resp cannot leak into the snapshot
	b.source = models.FolderResponse{
		Folders:  slices.Clone(resp.Folders),
		Contents: slices.Clone(resp.Contents),
	}

	// First pass: register folders, first occurrence wins
	ordered := make([]*models.Folder, 0, len(b.source.Folders))
	for i := range b.source.Folders {
		f := &b.source.Folders[i]
		if _, dup := b.folders[f.ID]; dup || f.ID == RootNodeID {
			b.anomalies.DuplicateIDs++
			continue
		}
		b.folders[f.ID] = f
		ordered = append(ordered, f)
	}

	// Second pass: link folders to parents
	for _, f := range ordered {
		parent := ""
		if f.ParentID != nil && *f.ParentID != "" {
			if _, ok := b.folders[*f.ParentID]; ok {
				parent = *f.ParentID
			} else {
				b.anomalies.DetachedFolders++
			}
		}
		b.subfolder[parent] = append(b.subfolder[parent], f)
	}

	// Third pass: attach snippets
	seen := make(map[string]bool, len(b.source.Contents))
	for i := range b.source.Contents {
		s := &b.source.Contents[i]
		if seen[s.ID] || b.folders[s.ID] != nil || s.ID == RootNodeID {
			b.anomalies.DuplicateIDs++
			continue
		}
		seen[s.ID] = true

		parent := ""
		if s.FolderID != nil && *s.FolderID != "" {
			if _, ok := b.folders[*s.FolderID]; ok {
				parent = *s.FolderID
			} else {
				b.anomalies.DetachedSnippets++
			}
		}
		b.contents[parent] = append(b.contents[parent], s)
	}

	for key := range b.subfolder {
		slices.SortStableFunc(b.subfolder[key], func(x, y *models.Folder) int {
			return compareByName(x.Name, x.ID, y.Name, y.ID)
		})
	}
	for key := range b.contents {
		slices.SortStableFunc(b.contents[key], func(x, y *models.Snippet) int {
			return compareByName(x.Name, x.ID, y.Name, y.ID)
		})
	}

	return b
}

func compareByName(nameA, idA, nameB, idB string) int {
	if c := cmp.Compare(strings.ToLower(nameA), strings.ToLower(nameB)); c != 0 {
		return c
	}
	return cmp.Compare(idA, idB)
}

func (b *treeBuilder) build() {
	b.emit(TreeNode{ID: RootNodeID, Kind: KindBranch, Level: 0})

	for _, f := range b.subfolder[""] {
		b.walkFolder(f, RootNodeID, 1)
	}

	// Folders never reached from root hang off a parent cycle. Rescue one
	// member of each cycle under root; the rest of the cycle and anything
	// below it nest under that member as usual.
	pending := make([]*models.Folder, 0)
	for _, f := range b.folders {
		if !b.visited[f.ID] {
			pending = append(pending, f)
		}
	}
	slices.SortFunc(pending, func(x, y *models.Folder) int {
		return compareByName(x.Name, x.ID, y.Name, y.ID)
	})
	for _, f := range pending {
		if b.visited[f.ID] {
			continue
		}
		entry := f
		if cycle := b.cycleAbove(f); len(cycle) > 0 {
			b.anomalies.CyclicFolders += len(cycle)
			entry = slices.MinFunc(cycle, func(x, y *models.Folder) int {
				return compareByName(x.Name, x.ID, y.Name, y.ID)
			})
		}
		b.walkFolder(entry, RootNodeID, 1)
	}

	for _, s := range b.contents[""] {
		b.emitSnippet(s, RootNodeID, 1)
	}
}

// cycleAbove follows parent links up from f and returns the members of the
// cycle the chain ends in, or nil when it reaches an emitted folder or root.
func (b *treeBuilder) cycleAbove(f *models.Folder) []*models.Folder {
	pos := make(map[string]int)
	path := make([]*models.Folder, 0)
	for cur := f; cur != nil && !b.visited[cur.ID]; cur = b.parentOf(cur) {
		if i, ok := pos[cur.ID]; ok {
			return path[i:]
		}
		pos[cur.ID] = len(path)
		path = append(path, cur)
	}
	return nil
}

func (b *treeBuilder) parentOf(f *models.Folder) *models.Folder {
	if f.ParentID == nil {
		return nil
	}
	return b.folders[*f.ParentID]
}

func (b *treeBuilder) walkFolder(f *models.Folder, parentID string, level int) {
	if b.visited[f.ID] {
		return
	}
	b.visited[f.ID] = true

	b.emit(TreeNode{
		ID:       f.ID,
		Name:     f.Name,
		Kind:     KindBranch,
		Level:    level,
		ParentID: parentID,
		Metadata: NodeMetadata{Folder: f},
	})

	for _, child := range b.subfolder[f.ID] {
		b.walkFolder(child, f.ID, level+1)
	}
	for _, s := range b.contents[f.ID] {
		b.emitSnippet(s, f.ID, level+1)
	}
}

func (b *treeBuilder) emitSnippet(s *models.Snippet, parentID string, level int) {
	b.emit(TreeNode{
		ID:       s.ID,
		Name:     s.Name,
		Kind:     KindLeaf,
		Level:    level,
		ParentID: parentID,
		Metadata: NodeMetadata{Snippet: s},
	})
}

func (b *treeBuilder) emit(node TreeNode) {
	node.Children = []string{}
	b.index[node.ID] = len(b.nodes)
	b.nodes = append(b.nodes, node)
	if node.ParentID != "" {
		parent := &b.nodes[b.index[node.ParentID]]
		parent.Children = append(parent.Children, node.ID)
	}
}

// Nodes returns the flattened pre-order sequence, root first
func (t *Tree) Nodes() []TreeNode {
	out := make([]TreeNode, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.clone()
	}
	return out
}

// Len returns the number of nodes including the root
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the root sentinel
func (t *Tree) Root() TreeNode {
	return t.nodes[0].clone()
}

// Node looks up a node by ID
func (t *Tree) Node(id string) (TreeNode, bool) {
	i, ok := t.index[id]
	if !ok {
		return TreeNode{}, false
	}
	return t.nodes[i].clone(), true
}

// HasSnippet reports whether a leaf with this ID is present
func (t *Tree) HasSnippet(id string) bool {
	i, ok := t.index[id]
	return ok && t.nodes[i].Kind == KindLeaf
}

// Snippets returns the snippets of the tree in display order
func (t *Tree) Snippets() []models.Snippet {
	out := make([]models.Snippet, 0, len(t.source.Contents))
	for _, n := range t.nodes {
		if n.Kind == KindLeaf {
			out = append(out, *n.Metadata.Snippet)
		}
	}
	return out
}

// SnippetIDs returns snippet IDs in display order
func (t *Tree) SnippetIDs() []string {
	out := make([]string, 0, len(t.source.Contents))
	for _, n := range t.nodes {
		if n.Kind == KindLeaf {
			out = append(out, n.ID)
		}
	}
	return out
}

// Anomalies reports what the builder normalized
func (t *Tree) Anomalies() Anomalies {
	return t.anomalies
}

// Source returns a copy of the response the tree was built from
func (t *Tree) Source() models.FolderResponse {
	return models.FolderResponse{
		Folders:  slices.Clone(t.source.Folders),
		Contents: slices.Clone(t.source.Contents),
	}
}

// Without builds a new snapshot from the same source minus the given snippets
func (t *Tree) Without(snippetIDs []string) *Tree {
	if len(snippetIDs) == 0 {
		return t
	}
	drop := make(map[string]bool, len(snippetIDs))
	for _, id := range snippetIDs {
		drop[id] = true
	}

	src := t.Source()
	kept := src.Contents[:0]
	for _, s := range src.Contents {
		if !drop[s.ID] {
			kept = append(kept, s)
		}
	}
	src.Contents = kept
	return BuildTree(&src)
}

// MarshalJSON renders the snapshot as {"nodes": [...], "anomalies": {...}}
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nodes     []TreeNode `json:"nodes"`
		Anomalies Anomalies  `json:"anomalies"`
	}{
		Nodes:     t.nodes,
		Anomalies: t.anomalies,
	})
}

func (n TreeNode) clone() TreeNode {
	n.Children = slices.Clone(n.Children)
	return n
}
