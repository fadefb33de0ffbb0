package cmd

import (
	"github.com/warp-contracts/crowdfunding/src/gateway"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the campaign ledger behind the REST API",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := gateway.NewController(conf)
		if err != nil {
			return
		}

		return runUntilSignal(controller)
	},
}
