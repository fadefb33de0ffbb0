package cmd

import (
	"fmt"

	"github.com/warp-contracts/crowdfunding/src/utils/auth"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token <identity>",
	Short: "Issue a bearer token for the identity, signed with the configured secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		token, err := auth.NewAuthenticator(conf).Issue(args[0])
		if err != nil {
			return
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return
	},
}
