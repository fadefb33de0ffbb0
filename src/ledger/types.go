package ledger

import (
	"math/big"
)

type PaymentType string

const (
	PaymentDonation   PaymentType = "donation"
	PaymentWithdrawal PaymentType = "withdrawal"
	PaymentRefund     PaymentType = "refund"
)

// Campaign is a fundraising request. Amounts are in wei.
type Campaign struct {
	Id              int        `json:"id"`
	Owner           string     `json:"owner"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CampaignType    string     `json:"campaignType"`
	Image           string     `json:"image"`
	Target          *big.Int   `json:"target"`
	Deadline        int64      `json:"deadline"`
	AmountCollected *big.Int   `json:"amountCollected"`
	Donators        []string   `json:"donators"`
	Donations       []*big.Int `json:"donations"`
	Withdrawn       bool       `json:"withdrawn"`
	Canceled        bool       `json:"canceled"`
}

// Deep copy, safe to hand out of the ledger
func (self *Campaign) Clone() *Campaign {
	out := *self
	out.Target = new(big.Int).Set(self.Target)
	out.AmountCollected = new(big.Int).Set(self.AmountCollected)
	out.Donators = make([]string, len(self.Donators))
	copy(out.Donators, self.Donators)
	out.Donations = make([]*big.Int, len(self.Donations))
	for i, d := range self.Donations {
		out.Donations[i] = new(big.Int).Set(d)
	}
	return &out
}

func (self *Campaign) IsTerminal() bool {
	return self.Withdrawn || self.Canceled
}

// Amount that can still be donated before the target is reached
func (self *Campaign) Headroom() *big.Int {
	return new(big.Int).Sub(self.Target, self.AmountCollected)
}

// One financial event attributed to an identity
type PaymentDetail struct {
	Identity    string      `json:"identity"`
	CampaignId  int         `json:"campaignId"`
	Amount      *big.Int    `json:"amount"`
	Timestamp   int64       `json:"timestamp"`
	PaymentType PaymentType `json:"paymentType"`
}

func (self *PaymentDetail) Clone() *PaymentDetail {
	out := *self
	out.Amount = new(big.Int).Set(self.Amount)
	return &out
}

// Credit to an identity's payout account
type Credit struct {
	Identity string
	Amount   *big.Int
}

// Whole ledger state, used to restore from a journal.
// Payments are in insertion order across all identities.
type Snapshot struct {
	Campaigns []*Campaign
	Payments  []*PaymentDetail
	Balances  map[string]*big.Int
}
