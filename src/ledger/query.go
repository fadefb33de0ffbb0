package ledger

import (
	"math"
	"math/big"
	"regexp"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusExpired   Status = "expired"
	StatusFunded    Status = "funded"
	StatusWithdrawn Status = "withdrawn"
	StatusCanceled  Status = "canceled"
)

const SortNewest = "newest"

var hundred = big.NewInt(100)

// Collected amount as a rounded percentage of the target
func (self *Campaign) PercentFunded() int {
	if self.Target.Sign() <= 0 {
		return 0
	}

	num := new(big.Int).Mul(self.AmountCollected, hundred)
	quo, rem := new(big.Int).QuoRem(num, self.Target, new(big.Int))

	// Round half up
	if rem.Lsh(rem, 1).Cmp(self.Target) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return int(quo.Int64())
}

// Whole days between now and the deadline, in either direction
func (self *Campaign) DaysLeft(now time.Time) int {
	diff := time.Unix(self.Deadline, 0).Sub(now)
	days := math.Round(diff.Hours() / 24)
	return int(math.Abs(days))
}

func (self *Campaign) Status(now time.Time) Status {
	switch {
	case self.Canceled:
		return StatusCanceled
	case self.Withdrawn:
		return StatusWithdrawn
	case self.AmountCollected.Cmp(self.Target) >= 0:
		return StatusFunded
	case now.Unix() >= self.Deadline:
		return StatusExpired
	default:
		return StatusOpen
	}
}

// Filters and orders a listing
type Query struct {
	Owner  string
	Search string
	Sort   string
}

func (self *Ledger) Find(q Query) []*Campaign {
	campaigns := self.GetCampaigns()
	if q.Owner != "" {
		campaigns = UserCampaigns(campaigns, q.Owner)
	}
	if q.Search != "" {
		campaigns = Search(campaigns, q.Search)
	}
	if q.Sort == SortNewest {
		SortByNewest(campaigns)
	}
	return campaigns
}

// Campaigns owned by the identity, order preserved
func UserCampaigns(campaigns []*Campaign, identity string) (out []*Campaign) {
	identity = CanonicalIdentity(identity)
	out = make([]*Campaign, 0)
	for _, c := range campaigns {
		if c.Owner == identity {
			out = append(out, c)
		}
	}
	return
}

// Case-insensitive title match. Invalid patterns are matched literally.
func Search(campaigns []*Campaign, query string) (out []*Campaign) {
	match := func(title string) bool {
		return strings.Contains(strings.ToLower(title), strings.ToLower(query))
	}

	re, err := regexp.Compile("(?i)" + query)
	if err == nil {
		match = re.MatchString
	}

	out = make([]*Campaign, 0)
	for _, c := range campaigns {
		if match(c.Title) {
			out = append(out, c)
		}
	}
	return
}

// Descending id
func SortByNewest(campaigns []*Campaign) {
	slices.SortFunc(campaigns, func(a, b *Campaign) int {
		return b.Id - a.Id
	})
}
