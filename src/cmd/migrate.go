package cmd

import (
	"github.com/warp-contracts/crowdfunding/src/utils/logger"
	"github.com/warp-contracts/crowdfunding/src/utils/model"

	"github.com/spf13/cobra"
)

var rollbackMax int

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackMax, "max", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	RootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		err = model.Migrate(ctx, conf)
		if err != nil {
			return
		}
		logger.NewSublogger("migrate").Info("Database is up to date")
		return
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		n, err := model.Rollback(ctx, conf, rollbackMax)
		if err != nil {
			return
		}
		logger.NewSublogger("migrate").WithField("num", n).Info("Rolled back")
		return
	},
}
