package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()

	var calls int
	h := NewFuncHandler(func(n *Notification) { calls++ })

	assert.True(t, r.Subscribe(DonationReceived, h))
	assert.False(t, r.Subscribe(DonationReceived, h))
	assert.Equal(t, 1, r.Len(DonationReceived))

	r.Dispatch([]*Notification{{Kind: DonationReceived}, {Kind: CampaignCreated}})
	assert.Equal(t, 1, calls)

	assert.True(t, r.Unsubscribe(DonationReceived, h))
	assert.False(t, r.Unsubscribe(DonationReceived, h))
	assert.Equal(t, 0, r.Len(DonationReceived))

	r.Dispatch([]*Notification{{Kind: DonationReceived}})
	assert.Equal(t, 1, calls)
}

func TestRegistryDistinctHandlers(t *testing.T) {
	r := NewRegistry()

	var order []string
	a := NewFuncHandler(func(n *Notification) { order = append(order, "a") })
	b := NewFuncHandler(func(n *Notification) { order = append(order, "b") })

	require.True(t, r.Subscribe(FundsWithdrawn, a))
	require.True(t, r.Subscribe(FundsWithdrawn, b))

	r.Dispatch([]*Notification{{Kind: FundsWithdrawn}, {Kind: FundsWithdrawn}})
	assert.Equal(t, []string{"a", "b", "a", "b"}, order)

	// Removing one keeps the other
	require.True(t, r.Unsubscribe(FundsWithdrawn, a))
	order = nil
	r.Dispatch([]*Notification{{Kind: FundsWithdrawn}})
	assert.Equal(t, []string{"b"}, order)
}

func TestRegistryRecoversPanics(t *testing.T) {
	r := NewRegistry()

	var delivered bool
	r.Subscribe(CampaignCanceled, NewFuncHandler(func(n *Notification) { panic("boom") }))
	r.Subscribe(CampaignCanceled, NewFuncHandler(func(n *Notification) { delivered = true }))

	require.NotPanics(t, func() {
		r.Dispatch([]*Notification{{Kind: CampaignCanceled}})
	})
	assert.True(t, delivered)
}

func TestRegistrySubscribeAll(t *testing.T) {
	r := NewRegistry()
	h := NewFuncHandler(func(n *Notification) {})

	r.SubscribeAll(h)
	for _, kind := range NotificationKinds {
		assert.Equal(t, 1, r.Len(kind))
	}

	r.UnsubscribeAll(h)
	for _, kind := range NotificationKinds {
		assert.Equal(t, 0, r.Len(kind))
	}
}

func TestNotificationBinary(t *testing.T) {
	in := &Notification{Kind: DonationReceived, CampaignId: 3, Owner: owner, Donor: donorX, Amount: "1000"}
	data, err := in.MarshalBinary()
	require.NoError(t, err)

	out := new(Notification)
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, in, out)

	assert.True(t, IsNotificationKind("CampaignCreated"))
	assert.False(t, IsNotificationKind("campaigncreated"))
}
