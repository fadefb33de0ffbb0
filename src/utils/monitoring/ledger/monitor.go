package monitor_ledger

import (
	"math"
	"net/http"
	"time"

	"github.com/warp-contracts/crowdfunding/src/utils/monitoring/report"
	"github.com/warp-contracts/crowdfunding/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int

	collector *Collector

	// Donation speed
	DonationCounts *deque.Deque[uint64]
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:            &report.RunReport{},
		Ledger:         &report.LedgerReport{},
		Gateway:        &report.GatewayReport{},
		RedisPublisher: &report.RedisPublisherReport{},
		Watcher:        &report.WatcherReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(nil, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorDonations)

	return self.WithMaxHistorySize(30)
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize
	self.DonationCounts = deque.New[uint64](self.historySize)
	return self
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

// Measure donation speed
func (self *Monitor) monitorDonations() (err error) {
	loaded := self.Report.Ledger.State.DonationsAccepted.Load()
	if loaded == 0 {
		// Neglect the first 0
		return
	}

	self.DonationCounts.PushBack(loaded)
	if self.DonationCounts.Len() > self.historySize {
		self.DonationCounts.PopFront()
	}
	value := float64(self.DonationCounts.Back()-self.DonationCounts.Front()) / float64(self.DonationCounts.Len())
	self.Report.Ledger.State.AverageDonationsPerMinute.Store(round(value))
	return
}

func (self *Monitor) IsOK() bool {
	// Unhealthy while the journal keeps failing
	return self.Report.Ledger.Errors.LastJournalErrorTimestamp.Load() <= self.Report.Ledger.State.LastCommitTimestamp.Load()
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
