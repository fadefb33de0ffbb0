package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	EncodingJSON = "json"
	EncodingAvro = "avro"
)

type Publisher struct {
	// Is publishing ledger notifications to Redis enabled
	Enabled bool

	// Redis channel name
	ChannelName string

	// Payload encoding: json or avro
	Encoding string

	// Num of workers that publish messages
	MaxWorkers int

	// Max num of notifications waiting to be published
	MaxQueueSize int

	// Publish backoff configuration, 0 is no limit
	MaxElapsedTime time.Duration
	MaxInterval    time.Duration
}

func setPublisherDefaults(v *viper.Viper) {
	v.SetDefault("Publisher.Enabled", "false")
	v.SetDefault("Publisher.ChannelName", "crowdfunding")
	v.SetDefault("Publisher.Encoding", EncodingJSON)
	v.SetDefault("Publisher.MaxWorkers", "5")
	v.SetDefault("Publisher.MaxQueueSize", "1000")
	v.SetDefault("Publisher.MaxElapsedTime", "1m")
	v.SetDefault("Publisher.MaxInterval", "10s")
}
