package cmd

import (
	"fmt"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/logger"
	"github.com/warp-contracts/crowdfunding/src/watch"

	"github.com/spf13/cobra"
)

var watchKinds []string

func init() {
	watchCmd.Flags().StringSliceVar(&watchKinds, "kinds", nil, "notification kinds to print, all by default")
	RootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print ledger notifications committed to the database",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := watch.NewController(conf)
		if err != nil {
			return
		}

		log := logger.NewSublogger("watch")
		printer := ledger.NewFuncHandler(func(n *ledger.Notification) {
			log.WithField("kind", n.Kind).
				WithField("campaign", n.CampaignId).
				WithField("owner", n.Owner).
				WithField("donor", n.Donor).
				WithField("amount", n.Amount).
				Info("Notification")
		})

		if len(watchKinds) == 0 {
			controller.Registry.SubscribeAll(printer)
		}
		for _, kind := range watchKinds {
			if !ledger.IsNotificationKind(kind) {
				return fmt.Errorf("unknown notification kind: %s", kind)
			}
			controller.Registry.Subscribe(ledger.NotificationKind(kind), printer)
		}

		return runUntilSignal(controller)
	},
}
