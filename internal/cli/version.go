package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/secondbrain/pkg/brain"
)

const modulePath = "github.com/mesh-intelligence/secondbrain"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the brain version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "brain v%s\nmodule: %s\n", brain.Version, modulePath)
			return nil
		},
	}
}
