package common

import (
	"context"

	"github.com/warp-contracts/crowdfunding/src/utils/config"
)

type contextKey int

const (
	configKey contextKey = iota
	identityKey
)

func SetConfig(ctx context.Context, config *config.Config) context.Context {
	return context.WithValue(ctx, configKey, config)
}

func GetConfig(ctx context.Context) *config.Config {
	v, _ := ctx.Value(configKey).(*config.Config)
	return v
}

// Identity of the authenticated caller, set by the gateway
func SetIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func GetIdentity(ctx context.Context) (identity string, ok bool) {
	identity, ok = ctx.Value(identityKey).(string)
	return
}
