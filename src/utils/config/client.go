package config

import (
	"time"

	"github.com/spf13/viper"
)

type Client struct {
	// Gateway base url
	Url string

	// Bearer token sent with mutating requests
	Token string

	RequestTimeout time.Duration

	// Retries upon server errors
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("Client.Url", "http://127.0.0.1:4000")
	v.SetDefault("Client.Token", "")
	v.SetDefault("Client.RequestTimeout", "10s")
	v.SetDefault("Client.RetryCount", "3")
	v.SetDefault("Client.RetryWaitTime", "200ms")
	v.SetDefault("Client.RetryMaxWaitTime", "2s")
}
