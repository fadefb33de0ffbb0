package model

import (
	"math/big"
	"testing"

	"github.com/warp-contracts/crowdfunding/src/ledger"

	"github.com/jackc/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric(t *testing.T) {
	wei, _ := new(big.Int).SetString("123456789000000000000000000000", 10)

	out, err := NumericToBigInt(NumericFromBigInt(wei))
	require.NoError(t, err)
	assert.Equal(t, wei.String(), out.String())

	// Text decoding may move trailing zeros into the exponent
	out, err = NumericToBigInt(pgtype.Numeric{Int: big.NewInt(5), Exp: 3, Status: pgtype.Present})
	require.NoError(t, err)
	assert.Equal(t, "5000", out.String())

	out, err = NumericToBigInt(pgtype.Numeric{Int: big.NewInt(5000), Exp: -2, Status: pgtype.Present})
	require.NoError(t, err)
	assert.Equal(t, "50", out.String())

	_, err = NumericToBigInt(pgtype.Numeric{Int: big.NewInt(5001), Exp: -2, Status: pgtype.Present})
	assert.Error(t, err)

	_, err = NumericToBigInt(pgtype.Numeric{Status: pgtype.Null})
	assert.Error(t, err)

	assert.Equal(t, pgtype.Null, NumericFromBigInt(nil).Status)
}

func TestCampaignConversion(t *testing.T) {
	in := &ledger.Campaign{
		Id:              2,
		Owner:           "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Title:           "t",
		Description:     "d",
		CampaignType:    "c",
		Image:           "i",
		Target:          big.NewInt(100),
		Deadline:        1_700_000_000,
		AmountCollected: big.NewInt(30),
		Donators:        []string{"a", "b"},
		Donations:       []*big.Int{big.NewInt(10), big.NewInt(20)},
		Canceled:        true,
	}

	out, err := NewCampaign(in).ToLedger()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	broken := NewCampaign(in)
	broken.Donations = broken.Donations[:1]
	_, err = broken.ToLedger()
	assert.Error(t, err)

	broken = NewCampaign(in)
	broken.Donations[0] = "1.5"
	_, err = broken.ToLedger()
	assert.Error(t, err)
}

func TestPaymentConversion(t *testing.T) {
	in := &ledger.PaymentDetail{
		Identity:    "a",
		CampaignId:  1,
		Amount:      big.NewInt(7),
		Timestamp:   3,
		PaymentType: ledger.PaymentRefund,
	}
	out, err := NewPayment(in).ToLedger()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
