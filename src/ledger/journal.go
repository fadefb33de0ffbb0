package ledger

import (
	"context"
)

// Complete effect of one mutation
type Change struct {
	// Campaign after the mutation
	Campaign *Campaign

	// True if the campaign is new
	Created bool

	Payments      []*PaymentDetail
	Credits       []*Credit
	Notifications []*Notification
}

// Journal persists changes. Commit must be all-or-nothing.
type Journal interface {
	Commit(ctx context.Context, change *Change) error
	Load(ctx context.Context) (*Snapshot, error)
}
