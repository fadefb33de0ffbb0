package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	config := Default()
	require.NotNil(t, config)

	assert.Equal(t, "DEBUG", config.LogLevel)
	assert.Equal(t, 30*time.Second, config.StopTimeout)
	assert.Equal(t, StorageMemory, config.Ledger.Storage)
	assert.False(t, config.Ledger.WithdrawBeforeDeadline)
	assert.Equal(t, "0.0.0.0:4000", config.Gateway.RESTListenAddress)
	assert.Equal(t, 10*time.Minute, config.Gateway.IdempotencyTTL)
	assert.Equal(t, EncodingJSON, config.Publisher.Encoding)
	assert.Equal(t, uint16(5432), config.Database.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CROWDFUNDING_LEDGER_STORAGE", "postgres")
	t.Setenv("CROWDFUNDING_GATEWAY_RATE_LIMIT", "2.5")
	t.Setenv("CROWDFUNDING_DATABASE_MAX_INTERVAL", "1s")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, config.Ledger.Storage)
	assert.Equal(t, 2.5, config.Gateway.RateLimit)
	assert.Equal(t, time.Second, config.Database.MaxInterval)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"LogLevel": "info",
		"Ledger": {"WithdrawBeforeDeadline": true, "MaxCampaigns": 3},
		"Publisher": {"Enabled": true, "Encoding": "avro"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.True(t, config.Ledger.WithdrawBeforeDeadline)
	assert.Equal(t, 3, config.Ledger.MaxCampaigns)
	assert.True(t, config.Publisher.Enabled)
	assert.Equal(t, EncodingAvro, config.Publisher.Encoding)

	// Untouched sections keep defaults
	assert.Equal(t, "crowdfunding", config.Publisher.ChannelName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLedgerStorage(t *testing.T) {
	ledger := Default().Ledger
	assert.True(t, ledger.IsValidStorage())
	assert.False(t, ledger.IsPostgres())

	ledger.Storage = StoragePostgres
	assert.True(t, ledger.IsPostgres())

	ledger.Storage = "sqlite"
	assert.False(t, ledger.IsValidStorage())
}
