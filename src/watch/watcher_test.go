package watch

import (
	"testing"
	"time"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	monitor_ledger "github.com/warp-contracts/crowdfunding/src/utils/monitoring/ledger"

	"github.com/stretchr/testify/suite"
)

func TestWatcherTestSuite(t *testing.T) {
	suite.Run(t, new(WatcherTestSuite))
}

type WatcherTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *WatcherTestSuite) SetupSuite() {
	s.config = config.Default()
	s.config.StopTimeout = 5 * time.Second
}

func (s *WatcherTestSuite) TestDispatch() {
	input := make(chan string, 3)
	monitor := monitor_ledger.NewMonitor()
	registry := ledger.NewRegistry()

	received := make(chan *ledger.Notification, 3)
	registry.SubscribeAll(ledger.NewFuncHandler(func(n *ledger.Notification) {
		received <- n
	}))

	watcher := NewWatcher(s.config).
		WithInputChannel(input).
		WithRegistry(registry).
		WithMonitor(monitor)
	s.Require().NoError(watcher.Start())

	input <- `{"kind":"DonationReceived","campaignId":1,"owner":"a","donor":"b","amount":"10"}`
	input <- `not json`
	input <- `{"kind":"Unknown"}`
	close(input)

	<-watcher.CtxRunning.Done()

	s.Require().Len(received, 1)
	n := <-received
	s.Equal(ledger.DonationReceived, n.Kind)
	s.Equal("10", n.Amount)

	s.Equal(uint64(1), monitor.Report.Watcher.State.NotificationsReceived.Load())
	s.Equal(uint64(2), monitor.Report.Watcher.Errors.Decode.Load())
}
