package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Number of decimal places of ether
const decimals = 18

// Converts a decimal ether amount ("0.5") to wei. More than 18 decimal places is an error.
func ParseEther(v string) (wei *big.Int, err error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, v)
	}

	d = d.Shift(decimals)
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s has more than 18 decimal places", ErrInvalidAmount, v)
	}

	return d.BigInt(), nil
}

// Parses a base 10 wei amount
func ParseWei(v string) (wei *big.Int, err error) {
	wei, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, v)
	}
	return
}

// Formats wei as ether, without trailing zeros
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -decimals).String()
}

func Ether(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(params.Ether))
}
