package cmd

import (
	"fmt"

	"github.com/bitrise-io/testmycode/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  `Display the version of testmycode`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "testmycode v%s\n", version.Version)
		},
	}
}
