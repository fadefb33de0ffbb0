package publisher

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	monitor_ledger "github.com/warp-contracts/crowdfunding/src/utils/monitoring/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification() *ledger.Notification {
	return &ledger.Notification{
		Kind:       ledger.CampaignCreated,
		CampaignId: 4,
		Owner:      "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Timestamp:  1_700_000_000,
		Count:      5,
		Title:      "Clean water",
		Target:     "5000000000000000000",
		Deadline:   1_700_003_600,
		Image:      "https://example.com/well.png",
	}
}

func TestCodec(t *testing.T) {
	for _, encoding := range []string{config.EncodingJSON, config.EncodingAvro} {
		t.Run(encoding, func(t *testing.T) {
			data, err := NewMessage(encoding, notification()).MarshalBinary()
			require.NoError(t, err)

			out, err := Decode(encoding, data)
			require.NoError(t, err)
			assert.Equal(t, notification(), out)
		})
	}
}

func TestCodecJSONIsNotification(t *testing.T) {
	data, err := NewMessage(config.EncodingJSON, notification()).MarshalBinary()
	require.NoError(t, err)

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &v))
	assert.Equal(t, "CampaignCreated", v["kind"])
	assert.Equal(t, float64(5), v["count"])
}

func TestCodecUnknownEncoding(t *testing.T) {
	_, err := NewMessage("xml", notification()).MarshalBinary()
	require.Error(t, err)

	_, err = Decode("xml", nil)
	require.Error(t, err)
}

func TestForwarder(t *testing.T) {
	c := config.Default()
	c.StopTimeout = 5 * time.Second
	c.Publisher.MaxQueueSize = 10

	registry := ledger.NewRegistry()
	forwarder := NewForwarder(c).
		WithRegistry(registry).
		WithMonitor(monitor_ledger.NewMonitor())
	require.NoError(t, forwarder.Start())

	registry.Dispatch([]*ledger.Notification{notification()})

	select {
	case msg := <-forwarder.Output:
		assert.Equal(t, ledger.CampaignCreated, msg.Notification.Kind)
		assert.Equal(t, config.EncodingJSON, msg.Encoding)
	case <-time.After(time.Second):
		t.Fatal("no message forwarded")
	}

	forwarder.StopWait()

	// Unsubscribed and closed
	assert.Equal(t, 0, registry.Len(ledger.CampaignCreated))
	_, ok := <-forwarder.Output
	assert.False(t, ok)

	// Late notifications are ignored
	forwarder.OnNotification(notification())
}

func TestForwarderDropsWhenFull(t *testing.T) {
	ctx := context.Background()
	c := config.Default()
	c.StopTimeout = 5 * time.Second
	c.Publisher.MaxQueueSize = 1

	monitor := monitor_ledger.NewMonitor()
	clock := ledger.NewManualClock(time.Unix(1_700_000_000, 0))
	l := ledger.NewLedger(c).WithClock(clock).WithMonitor(monitor)

	forwarder := NewForwarder(c).
		WithRegistry(l.Registry()).
		WithMonitor(monitor)
	require.NoError(t, forwarder.Start())
	defer forwarder.StopWait()

	// Nothing reads Output, CampaignCreated fills it
	target := new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18))
	req := ledger.NewCampaignRequest(notification().Owner, "Clean water", "Wells", "Health", target, clock.Now().Add(time.Hour).Unix(), "https://example.com/well.png")
	id, err := l.CreateCampaign(ctx, req)
	require.NoError(t, err)
	require.Len(t, forwarder.Output, 1)

	done := make(chan error, 1)
	go func() {
		done <- l.Donate(ctx, id, big.NewInt(1), "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("donation blocked on a full publisher queue")
	}

	// DonationReceived and CampaignAmountUpdated
	assert.Equal(t, uint64(2), monitor.GetReport().RedisPublisher.Errors.Dropped.Load())
	assert.Len(t, forwarder.Output, 1)

	msg := <-forwarder.Output
	assert.Equal(t, ledger.CampaignCreated, msg.Notification.Kind)
}
