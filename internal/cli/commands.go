package cli

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/odegrid/internal/app"
	"github.com/specialistvlad/odegrid/internal/model"
)

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH...",
		Short: "Validate a model and report warnings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, args, func(ctx context.Context, a *app.App) error {
				if err := a.Load(ctx); err != nil {
					return err
				}
				if err := a.Validate(ctx); err != nil {
					return err
				}
				return writeCheck(opts.stdout, a.Model())
			})
		},
	}
}

func newOrderCommand(opts *options) *cobra.Command {
	var useNames bool
	cmd := &cobra.Command{
		Use:   "order PATH...",
		Short: "Print the equations of a model in evaluation order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, args, func(ctx context.Context, a *app.App) error {
				res, err := a.Run(ctx)
				if err != nil {
					return err
				}
				if !useNames {
					res.Names = nil
				}
				return writeOrder(opts.stdout, res)
			})
		},
	}
	cmd.Flags().BoolVar(&useNames, "names", false, "Write equations with unique output names.")
	return cmd
}

func newNamesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names PATH...",
		Short: "Print the unique output name of every component and variable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, args, func(ctx context.Context, a *app.App) error {
				res, err := a.Run(ctx)
				if err != nil {
					return err
				}
				return writeNames(opts.stdout, res)
			})
		},
	}
	cmd.Flags().StringSlice("reserved", nil, "Extra reserved output names.")
	cmd.Flags().String("separator", "_", "Separator used to flatten qualified names.")
	_ = opts.v.BindPFlag("naming.reserved", cmd.Flags().Lookup("reserved"))
	_ = opts.v.BindPFlag("naming.separator", cmd.Flags().Lookup("separator"))
	return cmd
}

func newFmtCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt PATH...",
		Short: "Print a model in canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, args, func(ctx context.Context, a *app.App) error {
				if err := a.Load(ctx); err != nil {
					return err
				}
				_, err := opts.stdout.Write([]byte(a.Model().Code()))
				return err
			})
		},
	}
}

func newDepsCommand(opts *options) *cobra.Command {
	var (
		deep       bool
		components bool
		depOpts    model.DepOptions
	)
	cmd := &cobra.Command{
		Use:   "deps PATH...",
		Short: "Print the dependencies of every variable or component",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, args, func(ctx context.Context, a *app.App) error {
				if err := a.Load(ctx); err != nil {
					return err
				}
				m := a.Model()
				if components {
					return writeComponentDeps(opts.stdout, m)
				}
				deps := m.MapShallowDependencies(depOpts)
				if deep {
					deps = m.MapDeepDependencies(depOpts)
				}
				return writeDeps(opts.stdout, deps)
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&deep, "deep", false, "Include indirect dependencies.")
	f.BoolVar(&components, "components", false, "Print component-level dependencies and cycles instead.")
	f.BoolVar(&depOpts.OmitStates, "omit-states", false, "Leave out reads of state values.")
	f.BoolVar(&depOpts.OmitConstants, "omit-constants", false, "Leave out constants.")
	return cmd
}

func sortedByQName(deps map[*model.Variable][]*model.Variable) []*model.Variable {
	keys := make([]*model.Variable, 0, len(deps))
	for v := range deps {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].QName() < keys[j].QName() })
	return keys
}

func qnames(vs []*model.Variable) []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.QName()
	}
	return names
}
