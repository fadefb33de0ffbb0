package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// REST API address
	RESTListenAddress string

	// Maximum time a request may take
	ServerRequestTimeout time.Duration

	// Secret used to sign and verify HS256 bearer tokens
	AuthSecret string

	// Expected token issuer
	AuthIssuer string

	// Lifetime of issued tokens
	AuthTokenTTL time.Duration

	// Mutating requests allowed per identity per second, 0 disables limiting
	RateLimit float64

	// Burst size of the per identity limiter
	RateLimitBurst int

	// How long responses are remembered for a given Idempotency-Key
	IdempotencyTTL time.Duration

	// Buffer of pending notifications per websocket subscriber
	EventBufferSize int
}

func setGatewayDefaults(v *viper.Viper) {
	v.SetDefault("Gateway.RESTListenAddress", "0.0.0.0:4000")
	v.SetDefault("Gateway.ServerRequestTimeout", "30s")
	v.SetDefault("Gateway.AuthSecret", "development-secret")
	v.SetDefault("Gateway.AuthIssuer", "crowdfunding")
	v.SetDefault("Gateway.AuthTokenTTL", "24h")
	v.SetDefault("Gateway.RateLimit", "5")
	v.SetDefault("Gateway.RateLimitBurst", "10")
	v.SetDefault("Gateway.IdempotencyTTL", "10m")
	v.SetDefault("Gateway.EventBufferSize", "64")
}
