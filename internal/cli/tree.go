package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"snippetnav/internal/domain"
	"snippetnav/internal/navigator"
)

type treeOptions struct {
	groups []string
	open   string
	json   bool
}

func newTreeCommand(a *app) *cobra.Command {
	opts := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the snippet tree of a project",
		Example: `  # Private group only (the default)
  snippets tree -p my-project

  # Expand every group
  snippets tree -p my-project --groups favorites,shared,private`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd, a, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.groups, "groups", "g", nil, "Groups to expand: favorites, shared, private")
	cmd.Flags().StringVar(&opts.open, "open", "", "Highlight a snippet as the open one")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the session state as JSON")

	return cmd
}

func runTree(cmd *cobra.Command, a *app, opts *treeOptions) error {
	expand := make([]navigator.Group, 0, len(opts.groups))
	for _, name := range opts.groups {
		g, err := navigator.ParseGroup(name)
		if err != nil {
			return err
		}
		expand = append(expand, g)
	}

	d := a.openDashboard(cmd.OutOrStdout())
	defer d.session.Close()

	if err := d.load(cmd.Context()); err != nil {
		return err
	}

	if len(expand) > 0 {
		if err := setExpanded(d.session, expand); err != nil {
			return err
		}
	}
	st, err := d.session.State()
	if err != nil {
		return err
	}
	if opts.open != "" {
		if !st.Tree.HasSnippet(opts.open) {
			return &domain.NotFoundError{Message: "snippet not found: " + opts.open}
		}
		st.OpenID = opts.open
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Fprint(cmd.OutOrStdout(), RenderGroups(cmd.OutOrStdout(), st))
	return nil
}

// setExpanded toggles groups until exactly the given ones are expanded
func setExpanded(s *navigator.Session, expand []navigator.Group) error {
	st, err := s.State()
	if err != nil {
		return err
	}
	for _, g := range navigator.AllGroups {
		if st.Visibility.Expanded(g) == slices.Contains(expand, g) {
			continue
		}
		if _, err := s.ToggleGroup(g); err != nil {
			return err
		}
	}
	return nil
}
