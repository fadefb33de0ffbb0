package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/logger"
	"github.com/warp-contracts/crowdfunding/src/utils/monitoring"
	monitor_ledger "github.com/warp-contracts/crowdfunding/src/utils/monitoring/ledger"

	"github.com/sirupsen/logrus"
)

// Ledger keeps campaigns, payment history and payout balances.
// Mutations are serialized, reads run concurrently on consistent state.
type Ledger struct {
	log     *logrus.Entry
	clock   Clock
	journal Journal
	monitor monitoring.Monitor

	registry *Registry

	withdrawBeforeDeadline bool
	maxCampaigns           int

	// Guards state
	mtx sync.RWMutex

	// Notifications leave in commit order, each mutation waits for its ticket
	commitSeq    uint64
	dispatchSeq  uint64
	dispatchMtx  sync.Mutex
	dispatchCond *sync.Cond

	campaigns []*Campaign
	payments  map[string][]*PaymentDetail
	balances  map[string]*big.Int
}

func NewLedger(config *config.Config) (self *Ledger) {
	self = new(Ledger)
	self.log = logger.NewSublogger("ledger")
	self.clock = SystemClock{}
	self.monitor = monitor_ledger.NewMonitor()
	self.registry = NewRegistry()
	self.payments = make(map[string][]*PaymentDetail)
	self.balances = make(map[string]*big.Int)
	self.dispatchCond = sync.NewCond(&self.dispatchMtx)

	if config != nil {
		self.withdrawBeforeDeadline = config.Ledger.WithdrawBeforeDeadline
		self.maxCampaigns = config.Ledger.MaxCampaigns
	}
	return
}

func (self *Ledger) WithClock(clock Clock) *Ledger {
	self.clock = clock
	return self
}

func (self *Ledger) WithJournal(journal Journal) *Ledger {
	self.journal = journal
	return self
}

func (self *Ledger) WithMonitor(monitor monitoring.Monitor) *Ledger {
	self.monitor = monitor
	self.registry.WithMonitor(monitor)
	return self
}

func (self *Ledger) WithRegistry(registry *Registry) *Ledger {
	self.registry = registry
	return self
}

func (self *Ledger) WithWithdrawBeforeDeadline(v bool) *Ledger {
	self.withdrawBeforeDeadline = v
	return self
}

func (self *Ledger) Registry() *Registry {
	return self.registry
}

func (self *Ledger) Now() time.Time {
	return self.clock.Now()
}

// Replaces state with the journal's snapshot
func (self *Ledger) Restore(ctx context.Context) (err error) {
	if self.journal == nil {
		return nil
	}

	snapshot, err := self.journal.Load(ctx)
	if err != nil {
		return
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()

	for i, c := range snapshot.Campaigns {
		if c.Id != i {
			return fmt.Errorf("campaign ids are not dense: got %d at position %d", c.Id, i)
		}
	}

	self.campaigns = snapshot.Campaigns
	self.payments = make(map[string][]*PaymentDetail)
	for _, p := range snapshot.Payments {
		self.payments[p.Identity] = append(self.payments[p.Identity], p)
	}
	self.balances = make(map[string]*big.Int)
	for identity, balance := range snapshot.Balances {
		self.balances[identity] = new(big.Int).Set(balance)
	}

	self.log.WithField("campaigns", len(self.campaigns)).
		WithField("payments", len(snapshot.Payments)).
		Info("Restored ledger state")
	return
}

// Runs one mutation: validate and build the change, persist it, apply it, notify.
// The write lock is held until the change is applied, so a failed commit leaves state untouched.
// The lock is released even if prepare panics.
func (self *Ledger) mutate(ctx context.Context, op string, prepare func(now time.Time) (*Change, error)) (change *Change, err error) {
	commit := func() (change *Change, seq uint64, err error) {
		self.mtx.Lock()
		defer self.mtx.Unlock()

		change, err = prepare(self.clock.Now())
		if err != nil {
			self.log.WithField("op", op).WithField("kind", Kind(err)).WithError(err).Debug("Rejected")
			self.monitor.GetReport().Ledger.Errors.Rejected.Inc()
			return nil, 0, err
		}

		if self.journal != nil {
			err = self.journal.Commit(ctx, change)
			if err != nil {
				self.log.WithField("op", op).WithError(err).Error("Failed to commit change")
				self.monitor.GetReport().Ledger.Errors.JournalCommit.Inc()
				self.monitor.GetReport().Ledger.Errors.LastJournalErrorTimestamp.Store(time.Now().UnixMilli())
				return nil, 0, fmt.Errorf("journal commit: %w", err)
			}
		}

		self.apply(change)
		seq = self.commitSeq
		self.commitSeq++
		return
	}

	change, seq, err := commit()
	if err != nil {
		return nil, err
	}

	self.monitor.GetReport().Ledger.State.LastCommitTimestamp.Store(time.Now().UnixMilli())
	self.monitor.GetReport().Ledger.State.NotificationsFired.Add(uint64(len(change.Notifications)))

	self.dispatchMtx.Lock()
	defer self.dispatchMtx.Unlock()
	for self.dispatchSeq != seq {
		self.dispatchCond.Wait()
	}
	self.registry.Dispatch(change.Notifications)
	self.dispatchSeq++
	self.dispatchCond.Broadcast()
	return
}

// Must be called with the write lock held
func (self *Ledger) apply(change *Change) {
	if change.Created {
		self.campaigns = append(self.campaigns, change.Campaign)
	} else {
		self.campaigns[change.Campaign.Id] = change.Campaign
	}

	for _, p := range change.Payments {
		self.payments[p.Identity] = append(self.payments[p.Identity], p)
	}

	for _, credit := range change.Credits {
		balance, ok := self.balances[credit.Identity]
		if !ok {
			balance = new(big.Int)
			self.balances[credit.Identity] = balance
		}
		balance.Add(balance, credit.Amount)
	}
}

// Must be called with a lock held
func (self *Ledger) get(id int) (*Campaign, error) {
	if id < 0 || id >= len(self.campaigns) {
		return nil, fmt.Errorf("campaign %d: %w", id, ErrInvalidId)
	}
	return self.campaigns[id], nil
}

func (self *Ledger) CreateCampaign(ctx context.Context, req *CampaignRequest) (id int, err error) {
	change, err := self.mutate(ctx, "create", func(now time.Time) (change *Change, err error) {
		err = req.Validate(now)
		if err != nil {
			return
		}

		if self.maxCampaigns > 0 && len(self.campaigns) >= self.maxCampaigns {
			return nil, fmt.Errorf("%w: campaign limit of %d reached", ErrInvalidRequest, self.maxCampaigns)
		}

		campaign := &Campaign{
			Id:              len(self.campaigns),
			Owner:           req.Owner,
			Title:           req.Title,
			Description:     req.Description,
			CampaignType:    req.CampaignType,
			Image:           req.Image,
			Target:          new(big.Int).Set(req.Target),
			Deadline:        req.Deadline,
			AmountCollected: new(big.Int),
			Donators:        []string{},
			Donations:       []*big.Int{},
		}

		change = &Change{
			Campaign: campaign,
			Created:  true,
			Notifications: []*Notification{
				newCampaignCreated(campaign, campaign.Id+1, now.Unix()),
			},
		}
		return
	})
	if err != nil {
		return -1, err
	}

	self.monitor.GetReport().Ledger.State.CampaignsCreated.Inc()
	self.log.WithField("id", change.Campaign.Id).
		WithField("owner", change.Campaign.Owner).
		WithField("target", change.Campaign.Target.String()).
		Info("Campaign created")
	return change.Campaign.Id, nil
}

func (self *Ledger) Donate(ctx context.Context, id int, amount *big.Int, donor string) (err error) {
	donor = CanonicalIdentity(donor)

	_, err = self.mutate(ctx, "donate", func(now time.Time) (change *Change, err error) {
		current, err := self.get(id)
		if err != nil {
			return
		}

		if donor == "" {
			return nil, fmt.Errorf("%w: donor is empty", ErrInvalidRequest)
		}

		if amount == nil || amount.Sign() <= 0 {
			return nil, ErrZeroDonation
		}

		if current.Withdrawn {
			return nil, ErrAlreadyWithdrawn
		}

		if current.Canceled {
			return nil, ErrAlreadyCanceled
		}

		if now.Unix() >= current.Deadline {
			return nil, ErrDeadlinePassed
		}

		if amount.Cmp(current.Headroom()) > 0 {
			return nil, ErrTargetExceeded
		}

		value := new(big.Int).Set(amount)

		campaign := current.Clone()
		campaign.Donators = append(campaign.Donators, donor)
		campaign.Donations = append(campaign.Donations, value)
		campaign.AmountCollected.Add(campaign.AmountCollected, value)

		change = &Change{
			Campaign: campaign,
			Payments: []*PaymentDetail{{
				Identity:    donor,
				CampaignId:  id,
				Amount:      new(big.Int).Set(value),
				Timestamp:   now.Unix(),
				PaymentType: PaymentDonation,
			}},
			Notifications: []*Notification{
				newDonationNotification(DonationReceived, campaign, donor, value, now.Unix()),
				newAmountUpdated(campaign, now.Unix()),
			},
		}
		return
	})
	if err != nil {
		return
	}

	self.monitor.GetReport().Ledger.State.DonationsAccepted.Inc()
	self.log.WithField("id", id).
		WithField("donor", donor).
		WithField("amount", amount.String()).
		Info("Donation received")
	return
}

// Pays out everything collected to the owner. Returns the withdrawn amount.
func (self *Ledger) Withdraw(ctx context.Context, id int, caller string) (amount *big.Int, err error) {
	caller = CanonicalIdentity(caller)

	change, err := self.mutate(ctx, "withdraw", func(now time.Time) (change *Change, err error) {
		current, err := self.get(id)
		if err != nil {
			return
		}

		if current.Owner != caller {
			return nil, ErrUnauthorized
		}

		if current.Withdrawn {
			return nil, ErrAlreadyWithdrawn
		}

		if current.Canceled {
			return nil, ErrAlreadyCanceled
		}

		if !self.withdrawBeforeDeadline && now.Unix() < current.Deadline {
			return nil, ErrDeadlineNotReached
		}

		campaign := current.Clone()
		campaign.Withdrawn = true

		change = &Change{
			Campaign: campaign,
			Payments: []*PaymentDetail{{
				Identity:    campaign.Owner,
				CampaignId:  id,
				Amount:      new(big.Int).Set(campaign.AmountCollected),
				Timestamp:   now.Unix(),
				PaymentType: PaymentWithdrawal,
			}},
			Credits: []*Credit{{
				Identity: campaign.Owner,
				Amount:   new(big.Int).Set(campaign.AmountCollected),
			}},
			Notifications: []*Notification{
				newOwnerNotification(FundsWithdrawn, campaign, campaign.AmountCollected, now.Unix()),
			},
		}
		return
	})
	if err != nil {
		return
	}

	amount = new(big.Int).Set(change.Campaign.AmountCollected)

	self.monitor.GetReport().Ledger.State.Withdrawals.Inc()
	self.log.WithField("id", id).
		WithField("owner", caller).
		WithField("amount", amount.String()).
		Info("Funds withdrawn")
	return
}

// Cancels the campaign and refunds every donation, in donation order
func (self *Ledger) Cancel(ctx context.Context, id int, caller string) (err error) {
	caller = CanonicalIdentity(caller)

	change, err := self.mutate(ctx, "cancel", func(now time.Time) (change *Change, err error) {
		current, err := self.get(id)
		if err != nil {
			return
		}

		if current.Owner != caller {
			return nil, ErrUnauthorized
		}

		if now.Unix() >= current.Deadline {
			return nil, ErrDeadlinePassed
		}

		if current.Canceled {
			return nil, ErrAlreadyCanceled
		}

		if current.Withdrawn {
			return nil, ErrAlreadyWithdrawn
		}

		campaign := current.Clone()
		campaign.Canceled = true

		change = &Change{Campaign: campaign}
		for i, donator := range campaign.Donators {
			amount := campaign.Donations[i]
			change.Payments = append(change.Payments, &PaymentDetail{
				Identity:    donator,
				CampaignId:  id,
				Amount:      new(big.Int).Set(amount),
				Timestamp:   now.Unix(),
				PaymentType: PaymentRefund,
			})
			change.Credits = append(change.Credits, &Credit{
				Identity: donator,
				Amount:   new(big.Int).Set(amount),
			})
			change.Notifications = append(change.Notifications,
				newDonationNotification(DonationRefunded, campaign, donator, amount, now.Unix()))
		}
		change.Notifications = append(change.Notifications,
			newOwnerNotification(CampaignCanceled, campaign, campaign.AmountCollected, now.Unix()))
		return
	})
	if err != nil {
		return
	}

	self.monitor.GetReport().Ledger.State.Cancellations.Inc()
	self.monitor.GetReport().Ledger.State.Refunds.Add(uint64(len(change.Payments)))
	self.log.WithField("id", id).
		WithField("refunds", len(change.Payments)).
		Info("Campaign canceled")
	return
}

func (self *Ledger) GetCampaigns() []*Campaign {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	out := make([]*Campaign, len(self.campaigns))
	for i, c := range self.campaigns {
		out[i] = c.Clone()
	}
	return out
}

func (self *Ledger) GetCampaignById(id int) (*Campaign, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	campaign, err := self.get(id)
	if err != nil {
		return nil, err
	}
	return campaign.Clone(), nil
}

// Parallel donator and donation sequences, in donation order
func (self *Ledger) GetDonators(id int) (donators []string, donations []*big.Int, err error) {
	campaign, err := self.GetCampaignById(id)
	if err != nil {
		return
	}
	return campaign.Donators, campaign.Donations, nil
}

func (self *Ledger) Count() int {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return len(self.campaigns)
}

// Payment history of an identity, in insertion order
func (self *Ledger) PaymentDetails(identity string) []*PaymentDetail {
	identity = CanonicalIdentity(identity)

	self.mtx.RLock()
	defer self.mtx.RUnlock()

	payments := self.payments[identity]
	out := make([]*PaymentDetail, len(payments))
	for i, p := range payments {
		out[i] = p.Clone()
	}
	return out
}

// Total paid out to the identity by withdrawals and refunds
func (self *Ledger) Balance(identity string) *big.Int {
	identity = CanonicalIdentity(identity)

	self.mtx.RLock()
	defer self.mtx.RUnlock()

	balance, ok := self.balances[identity]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(balance)
}

// Funds held for campaigns that are neither withdrawn nor canceled
func (self *Ledger) Escrow() *big.Int {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	escrow := new(big.Int)
	for _, c := range self.campaigns {
		if !c.IsTerminal() {
			escrow.Add(escrow, c.AmountCollected)
		}
	}
	return escrow
}
