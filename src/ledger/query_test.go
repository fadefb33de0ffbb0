package ledger

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func campaign(id int, owner, title string, target, collected int64) *Campaign {
	return &Campaign{
		Id:              id,
		Owner:           owner,
		Title:           title,
		Target:          big.NewInt(target),
		AmountCollected: big.NewInt(collected),
		Deadline:        1_700_000_000 + 86400,
	}
}

func TestPercentFunded(t *testing.T) {
	assert.Equal(t, 0, campaign(0, owner, "", 3, 0).PercentFunded())
	assert.Equal(t, 33, campaign(0, owner, "", 3, 1).PercentFunded())
	assert.Equal(t, 67, campaign(0, owner, "", 3, 2).PercentFunded())
	assert.Equal(t, 50, campaign(0, owner, "", 200, 100).PercentFunded())
	assert.Equal(t, 100, campaign(0, owner, "", 3, 3).PercentFunded())
	assert.Equal(t, 0, campaign(0, owner, "", 0, 3).PercentFunded())
}

func TestDaysLeft(t *testing.T) {
	c := campaign(0, owner, "", 1, 0)
	now := time.Unix(1_700_000_000, 0)

	assert.Equal(t, 1, c.DaysLeft(now))
	assert.Equal(t, 0, c.DaysLeft(now.Add(20*time.Hour)))
	assert.Equal(t, 2, c.DaysLeft(now.Add(-26*time.Hour)))
	assert.Equal(t, 3, c.DaysLeft(now.Add(4*24*time.Hour)))
}

func TestStatus(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	after := now.Add(48 * time.Hour)

	assert.Equal(t, StatusOpen, campaign(0, owner, "", 5, 1).Status(now))
	assert.Equal(t, StatusExpired, campaign(0, owner, "", 5, 1).Status(after))
	assert.Equal(t, StatusFunded, campaign(0, owner, "", 5, 5).Status(after))

	withdrawn := campaign(0, owner, "", 5, 5)
	withdrawn.Withdrawn = true
	assert.Equal(t, StatusWithdrawn, withdrawn.Status(now))

	canceled := campaign(0, owner, "", 5, 1)
	canceled.Canceled = true
	assert.Equal(t, StatusCanceled, canceled.Status(now))
}

func TestSearch(t *testing.T) {
	campaigns := []*Campaign{
		campaign(0, owner, "Clean Water", 1, 0),
		campaign(1, owner, "School books", 1, 0),
		campaign(2, donorX, "water (v2)", 1, 0),
	}

	ids := func(cs []*Campaign) (out []int) {
		for _, c := range cs {
			out = append(out, c.Id)
		}
		return
	}

	assert.Equal(t, []int{0, 2}, ids(Search(campaigns, "WATER")))
	assert.Equal(t, []int{1}, ids(Search(campaigns, "^sch")))

	// Invalid pattern matched literally
	assert.Equal(t, []int{2}, ids(Search(campaigns, "(V2")))
	assert.Empty(t, Search(campaigns, "[unclosed"))

	assert.Equal(t, []int{2}, ids(UserCampaigns(campaigns, "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")))
	assert.Empty(t, UserCampaigns(campaigns, "someone"))

	SortByNewest(campaigns)
	assert.Equal(t, []int{2, 1, 0}, ids(campaigns))
}
