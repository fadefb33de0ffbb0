package report

import (
	"go.uber.org/atomic"
)

type WatcherErrors struct {
	Listen atomic.Uint64 `json:"listen"`
	Decode atomic.Uint64 `json:"decode"`
}

type WatcherState struct {
	NotificationsReceived atomic.Uint64 `json:"notifications_received"`
}

type WatcherReport struct {
	State  WatcherState  `json:"state"`
	Errors WatcherErrors `json:"errors"`
}
