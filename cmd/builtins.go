package cmd

import (
	"fmt"
	"io"

	"github.com/lcamplin/tpsh/core/shell"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands the shell runs itself.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		printBuiltins(cmd.OutOrStdout())
		return nil
	},
}

func printBuiltins(w io.Writer) {
	for _, b := range shell.ListBuiltins() {
		fmt.Fprintf(w, "%-6s %s\n", b.Name, b.Short)
	}
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
