package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "image-editor %s\n", o.info.Version)
			fmt.Fprintf(out, "  Build time: %s\n", o.info.BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", o.info.GitCommit)
		},
	}
}
