package load

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/warp-contracts/crowdfunding/src/client"
	"github.com/warp-contracts/crowdfunding/src/gateway/request"
	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/auth"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/task"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/ratelimit"
)

var ErrNothingToDo = errors.New("load needs at least one campaign and one donor")

// Synthetic identity number i
func Identity(i int) string {
	return common.BigToAddress(big.NewInt(int64(i) + 1)).Hex()
}

// Creates campaigns and sends donations at a fixed rate.
// A campaign that stops accepting donations is replaced with a new one.
type Generator struct {
	*task.Task

	auth    *auth.Authenticator
	stats   *Stats
	limiter ratelimit.Limiter

	owner  *client.Client
	donors []*client.Client

	mtx       sync.Mutex
	campaigns []int
	next      int
}

func NewGenerator(config *config.Config) (self *Generator) {
	self = new(Generator)

	if config.Load.Rate > 0 {
		self.limiter = ratelimit.New(config.Load.Rate)
	} else {
		self.limiter = ratelimit.NewUnlimited()
	}

	self.Task = task.NewTask(config, "generator").
		WithOnBeforeStart(self.setup).
		WithSubtaskFunc(self.run).
		WithWorkerPool(config.Load.NumDonors, config.Load.NumDonors)

	return
}

func (self *Generator) WithAuthenticator(auth *auth.Authenticator) *Generator {
	self.auth = auth
	return self
}

func (self *Generator) WithStats(stats *Stats) *Generator {
	self.stats = stats
	return self
}

func (self *Generator) session(identity string) (*client.Client, error) {
	token, err := self.auth.Issue(identity)
	if err != nil {
		return nil, err
	}
	return client.NewClient(self.Config).WithToken(token), nil
}

func (self *Generator) setup() (err error) {
	if self.Config.Load.NumCampaigns < 1 || self.Config.Load.NumDonors < 1 {
		return ErrNothingToDo
	}

	self.owner, err = self.session(Identity(0))
	if err != nil {
		return
	}

	self.donors = make([]*client.Client, self.Config.Load.NumDonors)
	for i := range self.donors {
		self.donors[i], err = self.session(Identity(i + 1))
		if err != nil {
			return
		}
	}

	self.campaigns = make([]int, self.Config.Load.NumCampaigns)
	for i := range self.campaigns {
		self.campaigns[i], err = self.createCampaign()
		if err != nil {
			return
		}
	}

	self.Log.WithField("campaigns", self.campaigns).Info("Campaigns ready")
	return
}

func (self *Generator) createCampaign() (id int, err error) {
	id, err = self.owner.CreateCampaign(self.Ctx, &request.CreateCampaign{
		Title:        fmt.Sprintf("Load test %d", time.Now().UnixNano()),
		Description:  "Generated campaign",
		CampaignType: "Load",
		TargetEther:  self.Config.Load.TargetEther,
		Deadline:     time.Now().Add(self.Config.Load.CampaignDuration).Unix(),
		Image:        "https://example.com/load.png",
	})
	if err != nil {
		return
	}
	self.stats.CampaignsCreated.Inc()
	return
}

// Picks the next campaign, round robin
func (self *Generator) pick() (slot, id int) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	slot = self.next % len(self.campaigns)
	self.next++
	return slot, self.campaigns[slot]
}

func (self *Generator) replace(slot, old int) {
	id, err := self.createCampaign()
	if err != nil {
		self.Log.WithError(err).Error("Failed to create campaign")
		return
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()
	if self.campaigns[slot] == old {
		self.campaigns[slot] = id
		self.Log.WithField("old", old).WithField("new", id).Debug("Campaign replaced")
	}
}

func (self *Generator) run() error {
	for {
		self.limiter.Take()

		select {
		case <-self.StopChannel:
			return nil
		default:
		}

		slot, id := self.pick()
		donor := self.donors[rand.Intn(len(self.donors))]

		self.SubmitToWorker(func() {
			self.donate(donor, slot, id)
		})
	}
}

func (self *Generator) donate(donor *client.Client, slot, id int) {
	self.stats.DonationsSent.Inc()

	_, err := donor.Donate(self.Ctx, id, &request.Donate{AmountEther: self.Config.Load.DonationEther})
	if err == nil {
		self.stats.DonationsAccepted.Inc()
		return
	}

	switch {
	case errors.Is(err, ledger.ErrTargetExceeded),
		errors.Is(err, ledger.ErrDeadlinePassed),
		errors.Is(err, ledger.ErrAlreadyWithdrawn),
		errors.Is(err, ledger.ErrAlreadyCanceled):
		self.stats.DonationsRejected.Inc()
		self.replace(slot, id)
	default:
		if self.IsStopping.Load() {
			return
		}
		self.stats.Failures.Inc()
		self.Log.WithError(err).WithField("id", id).Warn("Donation failed")
	}
}
