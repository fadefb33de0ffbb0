package monitor_ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	StartTimestamp *prometheus.Desc
	UpForSeconds   *prometheus.Desc

	// Ledger
	CampaignsCreated          *prometheus.Desc
	DonationsAccepted         *prometheus.Desc
	Withdrawals               *prometheus.Desc
	Cancellations             *prometheus.Desc
	Refunds                   *prometheus.Desc
	NotificationsFired        *prometheus.Desc
	AverageDonationsPerMinute *prometheus.Desc

	// Gateway
	Requests          *prometheus.Desc
	IdempotentReplays *prometheus.Desc
	EventSubscribers  *prometheus.Desc
	EventsSent        *prometheus.Desc

	// Redis publisher
	MessagesPublished *prometheus.Desc

	// Watcher
	NotificationsReceived *prometheus.Desc

	// Errors
	RejectedOperations    *prometheus.Desc
	JournalCommitErrors   *prometheus.Desc
	HandlerPanics         *prometheus.Desc
	Unauthorized          *prometheus.Desc
	RateLimited           *prometheus.Desc
	InvalidRequests       *prometheus.Desc
	ServerErrors          *prometheus.Desc
	EventsDropped         *prometheus.Desc
	PublishErrors         *prometheus.Desc
	PublishPersistentFail *prometheus.Desc
	PublishDropped        *prometheus.Desc
	WatcherListenErrors   *prometheus.Desc
	WatcherDecodeErrors   *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "crowdfunding",
	}

	return &Collector{
		// Run
		StartTimestamp: prometheus.NewDesc("start_timestamp", "", nil, labels),
		UpForSeconds:   prometheus.NewDesc("up_for_seconds", "", nil, labels),

		// Ledger
		CampaignsCreated:          prometheus.NewDesc("campaigns_created", "", nil, labels),
		DonationsAccepted:         prometheus.NewDesc("donations_accepted", "", nil, labels),
		Withdrawals:               prometheus.NewDesc("withdrawals", "", nil, labels),
		Cancellations:             prometheus.NewDesc("cancellations", "", nil, labels),
		Refunds:                   prometheus.NewDesc("refunds", "", nil, labels),
		NotificationsFired:        prometheus.NewDesc("notifications_fired", "", nil, labels),
		AverageDonationsPerMinute: prometheus.NewDesc("average_donations_per_minute", "", nil, labels),

		// Gateway
		Requests:          prometheus.NewDesc("gateway_requests", "", nil, labels),
		IdempotentReplays: prometheus.NewDesc("gateway_idempotent_replays", "", nil, labels),
		EventSubscribers:  prometheus.NewDesc("gateway_event_subscribers", "", nil, labels),
		EventsSent:        prometheus.NewDesc("gateway_events_sent", "", nil, labels),

		// Redis publisher
		MessagesPublished: prometheus.NewDesc("redis_messages_published", "", nil, labels),

		// Watcher
		NotificationsReceived: prometheus.NewDesc("watcher_notifications_received", "", nil, labels),

		// Errors
		RejectedOperations:    prometheus.NewDesc("error_rejected_operation", "", nil, labels),
		JournalCommitErrors:   prometheus.NewDesc("error_journal_commit", "", nil, labels),
		HandlerPanics:         prometheus.NewDesc("error_handler_panic", "", nil, labels),
		Unauthorized:          prometheus.NewDesc("error_gateway_unauthorized", "", nil, labels),
		RateLimited:           prometheus.NewDesc("error_gateway_rate_limited", "", nil, labels),
		InvalidRequests:       prometheus.NewDesc("error_gateway_invalid_request", "", nil, labels),
		ServerErrors:          prometheus.NewDesc("error_gateway_server", "", nil, labels),
		EventsDropped:         prometheus.NewDesc("error_gateway_events_dropped", "", nil, labels),
		PublishErrors:         prometheus.NewDesc("error_redis_publish", "", nil, labels),
		PublishPersistentFail: prometheus.NewDesc("error_redis_publish_persistent", "", nil, labels),
		PublishDropped:        prometheus.NewDesc("error_redis_publish_dropped", "", nil, labels),
		WatcherListenErrors:   prometheus.NewDesc("error_watcher_listen", "", nil, labels),
		WatcherDecodeErrors:   prometheus.NewDesc("error_watcher_decode", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Run
	ch <- self.StartTimestamp
	ch <- self.UpForSeconds

	// Ledger
	ch <- self.CampaignsCreated
	ch <- self.DonationsAccepted
	ch <- self.Withdrawals
	ch <- self.Cancellations
	ch <- self.Refunds
	ch <- self.NotificationsFired
	ch <- self.AverageDonationsPerMinute

	// Gateway
	ch <- self.Requests
	ch <- self.IdempotentReplays
	ch <- self.EventSubscribers
	ch <- self.EventsSent

	// Redis publisher
	ch <- self.MessagesPublished

	// Watcher
	ch <- self.NotificationsReceived

	// Errors
	ch <- self.RejectedOperations
	ch <- self.JournalCommitErrors
	ch <- self.HandlerPanics
	ch <- self.Unauthorized
	ch <- self.RateLimited
	ch <- self.InvalidRequests
	ch <- self.ServerErrors
	ch <- self.EventsDropped
	ch <- self.PublishErrors
	ch <- self.PublishPersistentFail
	ch <- self.PublishDropped
	ch <- self.WatcherListenErrors
	ch <- self.WatcherDecodeErrors
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	r := self.monitor.GetReport()

	// Run
	ch <- prometheus.MustNewConstMetric(self.StartTimestamp, prometheus.GaugeValue, float64(r.Run.State.StartTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(r.Run.State.UpForSeconds.Load()))

	// Ledger
	ch <- prometheus.MustNewConstMetric(self.CampaignsCreated, prometheus.CounterValue, float64(r.Ledger.State.CampaignsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.DonationsAccepted, prometheus.CounterValue, float64(r.Ledger.State.DonationsAccepted.Load()))
	ch <- prometheus.MustNewConstMetric(self.Withdrawals, prometheus.CounterValue, float64(r.Ledger.State.Withdrawals.Load()))
	ch <- prometheus.MustNewConstMetric(self.Cancellations, prometheus.CounterValue, float64(r.Ledger.State.Cancellations.Load()))
	ch <- prometheus.MustNewConstMetric(self.Refunds, prometheus.CounterValue, float64(r.Ledger.State.Refunds.Load()))
	ch <- prometheus.MustNewConstMetric(self.NotificationsFired, prometheus.CounterValue, float64(r.Ledger.State.NotificationsFired.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageDonationsPerMinute, prometheus.GaugeValue, r.Ledger.State.AverageDonationsPerMinute.Load())

	// Gateway
	ch <- prometheus.MustNewConstMetric(self.Requests, prometheus.CounterValue, float64(r.Gateway.State.Requests.Load()))
	ch <- prometheus.MustNewConstMetric(self.IdempotentReplays, prometheus.CounterValue, float64(r.Gateway.State.IdempotentReplays.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventSubscribers, prometheus.GaugeValue, float64(r.Gateway.State.EventSubscribers.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventsSent, prometheus.CounterValue, float64(r.Gateway.State.EventsSent.Load()))

	// Redis publisher
	ch <- prometheus.MustNewConstMetric(self.MessagesPublished, prometheus.CounterValue, float64(r.RedisPublisher.State.MessagesPublished.Load()))

	// Watcher
	ch <- prometheus.MustNewConstMetric(self.NotificationsReceived, prometheus.CounterValue, float64(r.Watcher.State.NotificationsReceived.Load()))

	// Errors
	ch <- prometheus.MustNewConstMetric(self.RejectedOperations, prometheus.CounterValue, float64(r.Ledger.Errors.Rejected.Load()))
	ch <- prometheus.MustNewConstMetric(self.JournalCommitErrors, prometheus.CounterValue, float64(r.Ledger.Errors.JournalCommit.Load()))
	ch <- prometheus.MustNewConstMetric(self.HandlerPanics, prometheus.CounterValue, float64(r.Ledger.Errors.HandlerPanics.Load()))
	ch <- prometheus.MustNewConstMetric(self.Unauthorized, prometheus.CounterValue, float64(r.Gateway.Errors.Unauthorized.Load()))
	ch <- prometheus.MustNewConstMetric(self.RateLimited, prometheus.CounterValue, float64(r.Gateway.Errors.RateLimited.Load()))
	ch <- prometheus.MustNewConstMetric(self.InvalidRequests, prometheus.CounterValue, float64(r.Gateway.Errors.InvalidRequests.Load()))
	ch <- prometheus.MustNewConstMetric(self.ServerErrors, prometheus.CounterValue, float64(r.Gateway.Errors.ServerErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventsDropped, prometheus.CounterValue, float64(r.Gateway.Errors.EventsDropped.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishErrors, prometheus.CounterValue, float64(r.RedisPublisher.Errors.Publish.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishPersistentFail, prometheus.CounterValue, float64(r.RedisPublisher.Errors.PersistentFailure.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishDropped, prometheus.CounterValue, float64(r.RedisPublisher.Errors.Dropped.Load()))
	ch <- prometheus.MustNewConstMetric(self.WatcherListenErrors, prometheus.CounterValue, float64(r.Watcher.Errors.Listen.Load()))
	ch <- prometheus.MustNewConstMetric(self.WatcherDecodeErrors, prometheus.CounterValue, float64(r.Watcher.Errors.Decode.Load()))
}
