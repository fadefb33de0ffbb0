package publisher

import (
	"fmt"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"

	"github.com/hamba/avro"
)

var NotificationSchema = avro.MustParse(`{
	"type": "record",
	"name": "Notification",
	"namespace": "crowdfunding",
	"fields": [
		{"name": "kind", "type": "string"},
		{"name": "campaignId", "type": "int"},
		{"name": "owner", "type": "string"},
		{"name": "timestamp", "type": "long"},
		{"name": "count", "type": "int", "default": 0},
		{"name": "title", "type": "string", "default": ""},
		{"name": "target", "type": "string", "default": ""},
		{"name": "deadline", "type": "long", "default": 0},
		{"name": "image", "type": "string", "default": ""},
		{"name": "donor", "type": "string", "default": ""},
		{"name": "amount", "type": "string", "default": ""},
		{"name": "amountCollected", "type": "string", "default": ""}
	]
}`)

type avroNotification struct {
	Kind            string `avro:"kind"`
	CampaignId      int    `avro:"campaignId"`
	Owner           string `avro:"owner"`
	Timestamp       int64  `avro:"timestamp"`
	Count           int    `avro:"count"`
	Title           string `avro:"title"`
	Target          string `avro:"target"`
	Deadline        int64  `avro:"deadline"`
	Image           string `avro:"image"`
	Donor           string `avro:"donor"`
	Amount          string `avro:"amount"`
	AmountCollected string `avro:"amountCollected"`
}

// Notification encoded for the wire
type Message struct {
	Notification *ledger.Notification
	Encoding     string
}

func NewMessage(encoding string, n *ledger.Notification) *Message {
	return &Message{Notification: n, Encoding: encoding}
}

func (self *Message) MarshalBinary() (data []byte, err error) {
	switch self.Encoding {
	case config.EncodingAvro:
		n := self.Notification
		return avro.Marshal(NotificationSchema, &avroNotification{
			Kind:            string(n.Kind),
			CampaignId:      n.CampaignId,
			Owner:           n.Owner,
			Timestamp:       n.Timestamp,
			Count:           n.Count,
			Title:           n.Title,
			Target:          n.Target,
			Deadline:        n.Deadline,
			Image:           n.Image,
			Donor:           n.Donor,
			Amount:          n.Amount,
			AmountCollected: n.AmountCollected,
		})
	case config.EncodingJSON, "":
		return self.Notification.MarshalBinary()
	default:
		return nil, fmt.Errorf("unknown encoding: %s", self.Encoding)
	}
}

func Decode(encoding string, data []byte) (n *ledger.Notification, err error) {
	n = new(ledger.Notification)
	switch encoding {
	case config.EncodingAvro:
		var v avroNotification
		err = avro.Unmarshal(NotificationSchema, data, &v)
		if err != nil {
			return nil, err
		}
		*n = ledger.Notification{
			Kind:            ledger.NotificationKind(v.Kind),
			CampaignId:      v.CampaignId,
			Owner:           v.Owner,
			Timestamp:       v.Timestamp,
			Count:           v.Count,
			Title:           v.Title,
			Target:          v.Target,
			Deadline:        v.Deadline,
			Image:           v.Image,
			Donor:           v.Donor,
			Amount:          v.Amount,
			AmountCollected: v.AmountCollected,
		}
	case config.EncodingJSON, "":
		err = n.UnmarshalBinary(data)
	default:
		err = fmt.Errorf("unknown encoding: %s", encoding)
	}
	return
}
