package report

import (
	"go.uber.org/atomic"
)

type GatewayErrors struct {
	Unauthorized    atomic.Uint64 `json:"unauthorized"`
	RateLimited     atomic.Uint64 `json:"rate_limited"`
	InvalidRequests atomic.Uint64 `json:"invalid_requests"`
	ServerErrors    atomic.Uint64 `json:"server_errors"`
	EventsDropped   atomic.Uint64 `json:"events_dropped"`
}

type GatewayState struct {
	Requests          atomic.Uint64 `json:"requests"`
	IdempotentReplays atomic.Uint64 `json:"idempotent_replays"`
	EventSubscribers  atomic.Int64  `json:"event_subscribers"`
	EventsSent        atomic.Uint64 `json:"events_sent"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}
