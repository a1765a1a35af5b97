package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
)

func newContextCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage contexts",
		Args:  exactArgs(0),
		RunE:  showHelp,
	}
	cmd.AddCommand(newContextAddCmd(a))
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			contexts, err := svc.ListContexts(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd, contexts, func(w io.Writer) { printContexts(w, contexts) })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a context overview",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			ov, err := svc.Overview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, ov, func(w io.Writer) { printOverview(w, ov) })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a context with its todos and events",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.DeleteContext(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.emit(cmd, map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted context %s\n", args[0])
			})
		},
	})
	return cmd
}

func newContextAddCmd(a *app) *cobra.Command {
	var in tracking.NewContext
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a context",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			in.Name = args[0]
			c, err := svc.CreateContext(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(cmd, c, func(w io.Writer) {
				fmt.Fprintf(w, "Created context %s: %s\n", c.Name, c.ContextID)
			})
		},
	}
	cmd.Flags().StringVar(&in.Emoji, "emoji", "", "icon name (default Briefcase)")
	cmd.Flags().StringVar(&in.Color, "color", "", "hex color (default #000000)")
	return cmd
}

// rangeFlags binds --range, --from and --to to q.
func rangeFlags(cmd *cobra.Command, q *tracking.Query) {
	cmd.Flags().StringVar(&q.Range, "range", "", "day, week, month, year or all")
	cmd.Flags().StringVar(&q.From, "from", "", "inclusive start date (YYYY-MM-DD or date-time)")
	cmd.Flags().StringVar(&q.To, "to", "", "inclusive end date (YYYY-MM-DD or date-time)")
}
