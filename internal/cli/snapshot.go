package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/secondbrain/internal/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write all records to JSONL files in dir",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.attach()
			if err != nil {
				return err
			}
			stats, err := b.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, stats, func(w io.Writer) { printStats(w, "Exported", args[0], stats) })
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load records from JSONL files in dir",
		Long:  "Load contexts, todos, events and links from a directory written by export.\nRecords with an existing ID are replaced.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.attach()
			if err != nil {
				return err
			}
			stats, err := b.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, stats, func(w io.Writer) { printStats(w, "Imported", args[0], stats) })
		},
	}
}

func printStats(w io.Writer, verb, dir string, s sqlite.SnapshotStats) {
	fmt.Fprintf(w, "%s %d contexts, %d todos, %d events, %d links (%s)\n",
		verb, s.Contexts, s.Todos, s.Events, s.Links, dir)
}
