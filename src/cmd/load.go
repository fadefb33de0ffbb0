package cmd

import (
	"github.com/warp-contracts/crowdfunding/src/load"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Create campaigns and send donations to a running server at a fixed rate",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := load.NewController(conf)
		if err != nil {
			return
		}

		return runUntilSignal(controller)
	},
}
