package response

import (
	"math/big"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/units"
)

type Payment struct {
	Identity    string `json:"identity"`
	CampaignId  int    `json:"campaignId"`
	Amount      string `json:"amount"`
	AmountEther string `json:"amountEther"`
	Timestamp   int64  `json:"timestamp"`
	PaymentType string `json:"paymentType"`
}

func PaymentsToResponse(payments []*ledger.PaymentDetail) []*Payment {
	out := make([]*Payment, len(payments))
	for i, p := range payments {
		out[i] = &Payment{
			Identity:    p.Identity,
			CampaignId:  p.CampaignId,
			Amount:      p.Amount.String(),
			AmountEther: units.FormatEther(p.Amount),
			Timestamp:   p.Timestamp,
			PaymentType: string(p.PaymentType),
		}
	}
	return out
}

type Balance struct {
	Identity     string `json:"identity"`
	Balance      string `json:"balance"`
	BalanceEther string `json:"balanceEther"`
}

func BalanceToResponse(identity string, balance *big.Int) *Balance {
	return &Balance{
		Identity:     identity,
		Balance:      balance.String(),
		BalanceEther: units.FormatEther(balance),
	}
}
