package config

import (
	"time"

	"github.com/spf13/viper"
)

type Redis struct {
	Port     uint16
	Host     string
	User     string
	Password string
	DB       int

	// TLS configuration
	ClientKey  string
	ClientCert string
	CaCert     string

	// Connection configuration
	MinIdleConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func setRedisDefaults(v *viper.Viper) {
	v.SetDefault("Redis.Port", "6379")
	v.SetDefault("Redis.Host", "localhost")
	v.SetDefault("Redis.User", "")
	v.SetDefault("Redis.Password", "password")
	v.SetDefault("Redis.DB", "0")
	v.SetDefault("Redis.MinIdleConns", "1")
	v.SetDefault("Redis.MaxIdleConns", "5")
	v.SetDefault("Redis.ConnMaxIdleTime", "10m")
	v.SetDefault("Redis.MaxOpenConns", "15")
	v.SetDefault("Redis.ConnMaxLifetime", "1h")
}
