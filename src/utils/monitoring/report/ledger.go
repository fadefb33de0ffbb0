package report

import (
	"go.uber.org/atomic"
)

type LedgerErrors struct {
	// Operations rejected by validation
	Rejected atomic.Uint64 `json:"rejected"`

	// Journal commits that failed, state was left untouched
	JournalCommit             atomic.Uint64 `json:"journal_commit"`
	LastJournalErrorTimestamp atomic.Int64  `json:"last_journal_error_timestamp"`

	// Notification handlers that panicked
	HandlerPanics atomic.Uint64 `json:"handler_panics"`
}

type LedgerState struct {
	CampaignsCreated   atomic.Uint64 `json:"campaigns_created"`
	DonationsAccepted  atomic.Uint64 `json:"donations_accepted"`
	Withdrawals        atomic.Uint64 `json:"withdrawals"`
	Cancellations      atomic.Uint64 `json:"cancellations"`
	Refunds            atomic.Uint64 `json:"refunds"`
	NotificationsFired atomic.Uint64 `json:"notifications_fired"`

	// Unix millis of the last successful state change
	LastCommitTimestamp atomic.Int64 `json:"last_commit_timestamp"`

	AverageDonationsPerMinute atomic.Float64 `json:"average_donations_per_minute"`
}

type LedgerReport struct {
	State  LedgerState  `json:"state"`
	Errors LedgerErrors `json:"errors"`
}
