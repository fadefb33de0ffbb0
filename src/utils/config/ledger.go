package config

import (
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Ledger struct {
	// Where ledger state is kept: memory or postgres
	Storage string

	// Allow owners to withdraw before the campaign deadline
	WithdrawBeforeDeadline bool

	// Maximum number of campaigns, 0 is no limit
	MaxCampaigns int
}

func setLedgerDefaults(v *viper.Viper) {
	v.SetDefault("Ledger.Storage", StorageMemory)
	v.SetDefault("Ledger.WithdrawBeforeDeadline", "false")
	v.SetDefault("Ledger.MaxCampaigns", "0")
}

func (self *Ledger) IsValidStorage() bool {
	return self.Storage == StorageMemory || self.Storage == StoragePostgres
}

func (self *Ledger) IsPostgres() bool {
	return self.Storage == StoragePostgres
}
