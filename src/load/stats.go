package load

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

type Stats struct {
	CampaignsCreated  atomic.Uint64
	DonationsSent     atomic.Uint64
	DonationsAccepted atomic.Uint64
	DonationsRejected atomic.Uint64
	Failures          atomic.Uint64
}

func NewStats() *Stats {
	return new(Stats)
}

func (self *Stats) Log(log *logrus.Entry) {
	log.WithField("campaigns", self.CampaignsCreated.Load()).
		WithField("sent", self.DonationsSent.Load()).
		WithField("accepted", self.DonationsAccepted.Load()).
		WithField("rejected", self.DonationsRejected.Load()).
		WithField("failures", self.Failures.Load()).
		Info("Load stats")
}
