package gateway

import (
	"testing"

	"github.com/warp-contracts/crowdfunding/src/utils/config"

	"github.com/stretchr/testify/require"
)

func TestControllerUnknownStorage(t *testing.T) {
	config := config.Default()
	config.Ledger.Storage = "sqlite"

	_, err := NewController(config)
	require.Error(t, err)
}

func TestControllerInMemory(t *testing.T) {
	config := config.Default()
	config.Gateway.RESTListenAddress = "127.0.0.1:0"

	controller, err := NewController(config)
	require.NoError(t, err)
	require.NoError(t, controller.Start())
	require.Equal(t, 0, controller.Ledger.Count())
	controller.StopWait()

	select {
	case <-controller.CtxRunning.Done():
	default:
		t.Fatal("controller still running")
	}
}
