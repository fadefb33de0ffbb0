package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/warp-contracts/crowdfunding/src/client"
	"github.com/warp-contracts/crowdfunding/src/gateway/request"

	"github.com/spf13/cobra"
)

var (
	clientToken string

	listQuery request.GetCampaigns
	create    request.CreateCampaign
	duration  time.Duration
)

func init() {
	campaignCmd.PersistentFlags().StringVar(&clientToken, "token", "", "bearer token, overrides Client.Token")

	campaignListCmd.Flags().StringVar(&listQuery.Owner, "owner", "", "only campaigns of this owner")
	campaignListCmd.Flags().StringVar(&listQuery.Search, "q", "", "title search")
	campaignListCmd.Flags().StringVar(&listQuery.Sort, "sort", "", "newest for descending id")

	campaignCreateCmd.Flags().StringVar(&create.Title, "title", "", "title")
	campaignCreateCmd.Flags().StringVar(&create.Description, "description", "", "description")
	campaignCreateCmd.Flags().StringVar(&create.CampaignType, "type", "", "campaign type")
	campaignCreateCmd.Flags().StringVar(&create.Image, "image", "", "image url")
	campaignCreateCmd.Flags().StringVar(&create.Target, "target", "", "target in wei")
	campaignCreateCmd.Flags().StringVar(&create.TargetEther, "target-ether", "", "target in ether")
	campaignCreateCmd.Flags().DurationVar(&duration, "duration", 30*24*time.Hour, "time until the deadline")

	campaignCmd.AddCommand(
		campaignListCmd,
		campaignShowCmd,
		campaignDonatorsCmd,
		campaignCreateCmd,
		campaignDonateCmd,
		campaignWithdrawCmd,
		campaignCancelCmd,
		campaignPaymentsCmd,
		campaignBalanceCmd,
	)
	RootCmd.AddCommand(campaignCmd)
}

func newClient() *client.Client {
	return client.NewClient(conf).WithToken(clientToken)
}

func printJSON(cmd *cobra.Command, v interface{}, err error) error {
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(buf))
	return nil
}

func idArg(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid campaign id %q: %w", args[0], err)
	}
	return id, nil
}

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Talk to a running server",
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newClient().GetCampaigns(ctx, &listQuery)
		return printJSON(cmd, out, err)
	},
}

var campaignShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args)
		if err != nil {
			return err
		}
		out, err := newClient().GetCampaign(ctx, id)
		return printJSON(cmd, out, err)
	},
}

var campaignDonatorsCmd = &cobra.Command{
	Use:   "donators <id>",
	Short: "List donators and their donations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args)
		if err != nil {
			return err
		}
		out, err := newClient().GetDonators(ctx, id)
		return printJSON(cmd, out, err)
	},
}

var campaignCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a campaign owned by the token's identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		create.Deadline = time.Now().Add(duration).Unix()
		id, err := newClient().CreateCampaign(ctx, &create)
		return printJSON(cmd, map[string]int{"id": id}, err)
	},
}

var campaignDonateCmd = &cobra.Command{
	Use:   "donate <id> <ether>",
	Short: "Donate to a campaign",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args)
		if err != nil {
			return err
		}
		out, err := newClient().Donate(ctx, id, &request.Donate{AmountEther: args[1]})
		return printJSON(cmd, out, err)
	},
}

var campaignWithdrawCmd = &cobra.Command{
	Use:   "withdraw <id>",
	Short: "Withdraw collected funds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args)
		if err != nil {
			return err
		}
		out, err := newClient().Withdraw(ctx, id)
		return printJSON(cmd, out, err)
	},
}

var campaignCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a campaign and refund donators",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args)
		if err != nil {
			return err
		}
		out, err := newClient().Cancel(ctx, id)
		return printJSON(cmd, out, err)
	},
}

var campaignPaymentsCmd = &cobra.Command{
	Use:   "payments <identity>",
	Short: "Payment history of an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newClient().GetPayments(ctx, args[0])
		return printJSON(cmd, out, err)
	},
}

var campaignBalanceCmd = &cobra.Command{
	Use:   "balance <identity>",
	Short: "Funds paid out to an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newClient().GetBalance(ctx, args[0])
		return printJSON(cmd, out, err)
	},
}
