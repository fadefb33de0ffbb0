package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/logger"
	"github.com/warp-contracts/crowdfunding/src/utils/task"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Postgres error codes that are safe to retry
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Persists ledger changes in Postgres, one serializable transaction per change.
// Committed notifications are also sent with pg_notify.
type Journal struct {
	config *config.Config
	log    *logrus.Entry
	db     *gorm.DB
}

func NewJournal(config *config.Config) (self *Journal) {
	self = new(Journal)
	self.config = config
	self.log = logger.NewSublogger("journal")
	return
}

func (self *Journal) WithDB(db *gorm.DB) *Journal {
	self.db = db
	return self
}

func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}

func (self *Journal) Commit(ctx context.Context, change *ledger.Change) (err error) {
	return task.NewRetry().
		WithContext(ctx).
		WithMaxElapsedTime(self.config.Database.MaxElapsedTime).
		WithMaxInterval(self.config.Database.MaxInterval).
		WithOnError(func(err error) error {
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			self.log.WithError(err).WithField("campaign_id", change.Campaign.Id).Warn("Serialization failure, retrying")
			return err
		}).
		Run(func() error {
			return self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return self.commit(tx, change)
			}, &sql.TxOptions{Isolation: sql.LevelSerializable})
		})
}

func (self *Journal) commit(tx *gorm.DB, change *ledger.Change) (err error) {
	campaign := NewCampaign(change.Campaign)
	if change.Created {
		err = tx.Create(campaign).Error
		if err != nil {
			return
		}
	} else {
		// Only mutable columns
		result := tx.Model(&Campaign{}).
			Where("id = ?", campaign.Id).
			Updates(map[string]interface{}{
				"amount_collected": campaign.AmountCollected,
				"donators":         campaign.Donators,
				"donations":        campaign.Donations,
				"withdrawn":        campaign.Withdrawn,
				"canceled":         campaign.Canceled,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return fmt.Errorf("campaign %d not found in storage", campaign.Id)
		}
	}

	if len(change.Payments) > 0 {
		payments := make([]*Payment, len(change.Payments))
		for i, p := range change.Payments {
			payments[i] = NewPayment(p)
		}
		err = tx.Create(&payments).Error
		if err != nil {
			return
		}
	}

	for _, credit := range change.Credits {
		err = tx.Exec(`INSERT INTO balances (identity, amount) VALUES (?, ?)
			ON CONFLICT (identity) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`,
			credit.Identity, NumericFromBigInt(credit.Amount)).Error
		if err != nil {
			return
		}
	}

	channel := self.config.Database.NotificationChannel
	if channel == "" {
		return
	}

	// Delivered by Postgres only if the transaction commits
	for _, n := range change.Notifications {
		var payload []byte
		payload, err = n.MarshalBinary()
		if err != nil {
			return
		}

		err = tx.Exec("SELECT pg_notify(?, ?)", channel, string(payload)).Error
		if err != nil {
			return
		}
	}

	return
}

func (self *Journal) Load(ctx context.Context) (snapshot *ledger.Snapshot, err error) {
	var (
		campaigns []*Campaign
		payments  []*Payment
		balances  []*Balance
	)

	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		err = tx.Order("id ASC").Find(&campaigns).Error
		if err != nil {
			return
		}

		err = tx.Order("id ASC").Find(&payments).Error
		if err != nil {
			return
		}

		return tx.Find(&balances).Error
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return
	}

	snapshot = &ledger.Snapshot{
		Campaigns: make([]*ledger.Campaign, len(campaigns)),
		Payments:  make([]*ledger.PaymentDetail, len(payments)),
		Balances:  make(map[string]*big.Int, len(balances)),
	}

	for i, c := range campaigns {
		snapshot.Campaigns[i], err = c.ToLedger()
		if err != nil {
			return nil, err
		}
	}

	for i, p := range payments {
		snapshot.Payments[i], err = p.ToLedger()
		if err != nil {
			return nil, err
		}
	}

	for _, b := range balances {
		snapshot.Balances[b.Identity], err = NumericToBigInt(b.Amount)
		if err != nil {
			return nil, err
		}
	}

	self.log.WithField("campaigns", len(campaigns)).Debug("Loaded snapshot")
	return
}
