package model

import (
	"github.com/warp-contracts/crowdfunding/src/ledger"

	"github.com/jackc/pgtype"
)

const (
	TablePayment = "payments"
)

type Payment struct {
	Id          int64 `gorm:"primaryKey"`
	Identity    string
	CampaignId  int
	Amount      pgtype.Numeric `gorm:"type:numeric(78,0)"`
	Timestamp   int64
	PaymentType string `gorm:"type:payment_type"`
}

func (Payment) TableName() string {
	return TablePayment
}

func NewPayment(p *ledger.PaymentDetail) *Payment {
	return &Payment{
		Identity:    p.Identity,
		CampaignId:  p.CampaignId,
		Amount:      NumericFromBigInt(p.Amount),
		Timestamp:   p.Timestamp,
		PaymentType: string(p.PaymentType),
	}
}

func (self *Payment) ToLedger() (out *ledger.PaymentDetail, err error) {
	out = &ledger.PaymentDetail{
		Identity:    self.Identity,
		CampaignId:  self.CampaignId,
		Timestamp:   self.Timestamp,
		PaymentType: ledger.PaymentType(self.PaymentType),
	}
	out.Amount, err = NumericToBigInt(self.Amount)
	return
}

const (
	TableBalance = "balances"
)

// Payout account of an identity
type Balance struct {
	Identity string         `gorm:"primaryKey"`
	Amount   pgtype.Numeric `gorm:"type:numeric(78,0)"`
}

func (Balance) TableName() string {
	return TableBalance
}
