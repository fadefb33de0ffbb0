package model

import (
	"fmt"
	"math/big"
	"time"

	"github.com/warp-contracts/crowdfunding/src/ledger"

	"github.com/jackc/pgtype"
	"github.com/lib/pq"
)

const (
	TableCampaign = "campaigns"
)

type Campaign struct {
	Id           int `gorm:"primaryKey;autoIncrement:false"`
	Owner        string
	Title        string
	Description  string
	CampaignType string
	Image        string
	Target       pgtype.Numeric `gorm:"type:numeric(78,0)"`
	Deadline     int64

	AmountCollected pgtype.Numeric `gorm:"type:numeric(78,0)"`

	// Parallel arrays, one entry per donation
	Donators  pq.StringArray `gorm:"type:text[]"`
	Donations pq.StringArray `gorm:"type:numeric(78,0)[]"`

	Withdrawn bool
	Canceled  bool
	UpdatedAt time.Time
}

func (Campaign) TableName() string {
	return TableCampaign
}

func NewCampaign(c *ledger.Campaign) *Campaign {
	donations := make(pq.StringArray, len(c.Donations))
	for i, d := range c.Donations {
		donations[i] = d.String()
	}

	donators := make(pq.StringArray, len(c.Donators))
	copy(donators, c.Donators)

	return &Campaign{
		Id:              c.Id,
		Owner:           c.Owner,
		Title:           c.Title,
		Description:     c.Description,
		CampaignType:    c.CampaignType,
		Image:           c.Image,
		Target:          NumericFromBigInt(c.Target),
		Deadline:        c.Deadline,
		AmountCollected: NumericFromBigInt(c.AmountCollected),
		Donators:        donators,
		Donations:       donations,
		Withdrawn:       c.Withdrawn,
		Canceled:        c.Canceled,
	}
}

func (self *Campaign) ToLedger() (out *ledger.Campaign, err error) {
	if len(self.Donators) != len(self.Donations) {
		return nil, fmt.Errorf("campaign %d: %d donators but %d donations", self.Id, len(self.Donators), len(self.Donations))
	}

	out = &ledger.Campaign{
		Id:           self.Id,
		Owner:        self.Owner,
		Title:        self.Title,
		Description:  self.Description,
		CampaignType: self.CampaignType,
		Image:        self.Image,
		Deadline:     self.Deadline,
		Donators:     make([]string, len(self.Donators)),
		Donations:    make([]*big.Int, len(self.Donations)),
		Withdrawn:    self.Withdrawn,
		Canceled:     self.Canceled,
	}
	copy(out.Donators, self.Donators)

	out.Target, err = NumericToBigInt(self.Target)
	if err != nil {
		return
	}

	out.AmountCollected, err = NumericToBigInt(self.AmountCollected)
	if err != nil {
		return
	}

	for i, d := range self.Donations {
		var ok bool
		out.Donations[i], ok = new(big.Int).SetString(d, 10)
		if !ok {
			return nil, fmt.Errorf("campaign %d: invalid donation amount %q", self.Id, d)
		}
	}

	return
}
