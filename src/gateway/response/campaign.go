package response

import (
	"math/big"
	"time"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/units"
)

type Campaign struct {
	Id              int      `json:"id"`
	Owner           string   `json:"owner"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	CampaignType    string   `json:"campaignType"`
	Image           string   `json:"image"`
	Target          string   `json:"target"`
	TargetEther     string   `json:"targetEther"`
	Deadline        int64    `json:"deadline"`
	AmountCollected string   `json:"amountCollected"`
	AmountEther     string   `json:"amountCollectedEther"`
	Donators        []string `json:"donators"`
	Donations       []string `json:"donations"`
	Withdrawn       bool     `json:"withdrawn"`
	Canceled        bool     `json:"canceled"`

	// Projections
	PercentFunded int    `json:"percentFunded"`
	DaysLeft      int    `json:"daysLeft"`
	Status        string `json:"status"`
}

func Amounts(in []*big.Int) (out []string) {
	out = make([]string, len(in))
	for i, v := range in {
		out[i] = v.String()
	}
	return
}

func CampaignToResponse(c *ledger.Campaign, now time.Time) *Campaign {
	donators := c.Donators
	if donators == nil {
		donators = []string{}
	}
	return &Campaign{
		Id:              c.Id,
		Owner:           c.Owner,
		Title:           c.Title,
		Description:     c.Description,
		CampaignType:    c.CampaignType,
		Image:           c.Image,
		Target:          c.Target.String(),
		TargetEther:     units.FormatEther(c.Target),
		Deadline:        c.Deadline,
		AmountCollected: c.AmountCollected.String(),
		AmountEther:     units.FormatEther(c.AmountCollected),
		Donators:        donators,
		Donations:       Amounts(c.Donations),
		Withdrawn:       c.Withdrawn,
		Canceled:        c.Canceled,
		PercentFunded:   c.PercentFunded(),
		DaysLeft:        c.DaysLeft(now),
		Status:          string(c.Status(now)),
	}
}

func CampaignsToResponse(campaigns []*ledger.Campaign, now time.Time) []*Campaign {
	out := make([]*Campaign, len(campaigns))
	for i, c := range campaigns {
		out[i] = CampaignToResponse(c, now)
	}
	return out
}

type CampaignCreated struct {
	Id int `json:"id"`
}

type Donators struct {
	Donators  []string `json:"donators"`
	Donations []string `json:"donations"`
}

type Withdrawn struct {
	Id          int    `json:"id"`
	Amount      string `json:"amount"`
	AmountEther string `json:"amountEther"`
}
