package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip configuration loading so version works anywhere.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				printf(out, "%s", version)
				return
			}
			printf(out, "reconcile %s", version)
			printf(out, "  Commit:     %s", commit)
			printf(out, "  Built:      %s", date)
			printf(out, "  Go version: %s", runtime.Version())
			printf(out, "  OS/Arch:    %s/%s", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
