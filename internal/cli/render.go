package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"snippetnav/internal/navigator"
)

var groupTitles = map[navigator.Group]string{
	navigator.GroupFavorites: "Favorites",
	navigator.GroupShared:    "Shared",
	navigator.GroupPrivate:   "Private",
}

type styles struct {
	header   lipgloss.Style
	folder   lipgloss.Style
	snippet  lipgloss.Style
	open     lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	navigate lipgloss.Style
	dialog   lipgloss.Style
	alert    lipgloss.Style
}

// newStyles binds the palette to the color profile of w
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:   r.NewStyle().Bold(true),
		folder:   r.NewStyle().Foreground(lipgloss.Color("12")),
		snippet:  r.NewStyle(),
		open:     r.NewStyle().Reverse(true),
		muted:    r.NewStyle().Faint(true),
		success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		failure:  r.NewStyle().Foreground(lipgloss.Color("9")),
		navigate: r.NewStyle().Foreground(lipgloss.Color("14")),
		dialog: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("208")).
			Padding(1, 2),
		alert: r.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	}
}

// RenderGroups draws the three navigator groups. Collapsed groups show only
// their header and count.
func RenderGroups(w io.Writer, st navigator.SessionState) string {
	s := newStyles(w)
	var b strings.Builder

	for _, g := range st.Groups {
		marker := "▸"
		if g.Expanded {
			marker = "▾"
		}
		fmt.Fprintf(&b, "%s %s %s\n", marker, s.header.Render(groupTitles[g.Group]), s.muted.Render(fmt.Sprintf("(%d)", g.Count)))
		if !g.Expanded {
			continue
		}
		if len(g.Nodes) == 0 {
			fmt.Fprintf(&b, "    %s\n", s.muted.Render("No queries"))
			continue
		}
		for _, n := range g.Nodes {
			b.WriteString(renderNode(s, n, st))
			b.WriteByte('\n')
		}
	}

	if st.FetchError != "" {
		fmt.Fprintf(&b, "%s\n", s.failure.Render("Could not refresh: "+st.FetchError))
	}
	return b.String()
}

func renderNode(s styles, n navigator.TreeNode, st navigator.SessionState) string {
	indent := strings.Repeat("  ", n.Level)
	if !n.IsLeaf() {
		return indent + s.folder.Render(n.Name+"/")
	}

	mark := " "
	if slices.Contains(st.Selection, n.ID) {
		mark = "*"
	}
	name := s.snippet.Render(n.Name)
	if n.ID == st.OpenID {
		name = s.open.Render(n.Name)
	}
	return fmt.Sprintf("%s%s %s %s", indent, mark, name, s.muted.Render(n.ID))
}

// printer is the Navigator and Notifier of a terminal session
type printer struct {
	out    io.Writer
	styles styles
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out, styles: newStyles(out)}
}

func (p *printer) NavigateTo(path string) {
	fmt.Fprintln(p.out, p.styles.navigate.Render("→ "+path))
}

func (p *printer) NotifySuccess(message string) {
	fmt.Fprintln(p.out, p.styles.success.Render("✓ "+message))
}

func (p *printer) NotifyError(message string) {
	fmt.Fprintln(p.out, p.styles.failure.Render("✗ "+message))
}
