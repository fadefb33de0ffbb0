package ledger

import (
	"encoding/json"
	"math/big"
)

type NotificationKind string

const (
	CampaignCreated       NotificationKind = "CampaignCreated"
	DonationReceived      NotificationKind = "DonationReceived"
	CampaignAmountUpdated NotificationKind = "CampaignAmountUpdated"
	FundsWithdrawn        NotificationKind = "FundsWithdrawn"
	DonationRefunded      NotificationKind = "DonationRefunded"
	CampaignCanceled      NotificationKind = "CampaignCanceled"
)

var NotificationKinds = []NotificationKind{
	CampaignCreated,
	DonationReceived,
	CampaignAmountUpdated,
	FundsWithdrawn,
	DonationRefunded,
	CampaignCanceled,
}

func IsNotificationKind(v string) bool {
	for _, kind := range NotificationKinds {
		if string(kind) == v {
			return true
		}
	}
	return false
}

// Notification is emitted after a mutation commits. Amounts are decimal wei strings.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	CampaignId int              `json:"campaignId"`
	Owner      string           `json:"owner"`
	Timestamp  int64            `json:"timestamp"`

	// CampaignCreated
	Count    int    `json:"count,omitempty"`
	Title    string `json:"title,omitempty"`
	Target   string `json:"target,omitempty"`
	Deadline int64  `json:"deadline,omitempty"`
	Image    string `json:"image,omitempty"`

	// DonationReceived, DonationRefunded
	Donor string `json:"donor,omitempty"`

	// DonationReceived, FundsWithdrawn, DonationRefunded, CampaignCanceled
	Amount string `json:"amount,omitempty"`

	// CampaignAmountUpdated
	AmountCollected string `json:"amountCollected,omitempty"`
}

func (self *Notification) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}

func (self *Notification) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, self)
}

func newCampaignCreated(c *Campaign, count int, timestamp int64) *Notification {
	return &Notification{
		Kind:       CampaignCreated,
		CampaignId: c.Id,
		Owner:      c.Owner,
		Timestamp:  timestamp,
		Count:      count,
		Title:      c.Title,
		Target:     c.Target.String(),
		Deadline:   c.Deadline,
		Image:      c.Image,
	}
}

func newDonationNotification(kind NotificationKind, c *Campaign, donor string, amount *big.Int, timestamp int64) *Notification {
	return &Notification{
		Kind:       kind,
		CampaignId: c.Id,
		Owner:      c.Owner,
		Timestamp:  timestamp,
		Donor:      donor,
		Amount:     amount.String(),
	}
}

func newAmountUpdated(c *Campaign, timestamp int64) *Notification {
	return &Notification{
		Kind:            CampaignAmountUpdated,
		CampaignId:      c.Id,
		Owner:           c.Owner,
		Timestamp:       timestamp,
		AmountCollected: c.AmountCollected.String(),
	}
}

func newOwnerNotification(kind NotificationKind, c *Campaign, amount *big.Int, timestamp int64) *Notification {
	return &Notification{
		Kind:       kind,
		CampaignId: c.Id,
		Owner:      c.Owner,
		Timestamp:  timestamp,
		Amount:     amount.String(),
	}
}
