package cmd

import (
	"log"
	"os"

	"github.com/lcamplin/tpsh/core/config"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the configuration directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		if err := os.MkdirAll(cfgPath, 0700); err != nil {
			return err
		}
		_, err := config.Initialize(configFs(), logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
