package model

import (
	"errors"
	"math/big"

	"github.com/jackc/pgtype"
)

var ten = big.NewInt(10)

func NumericFromBigInt(v *big.Int) pgtype.Numeric {
	if v == nil {
		return pgtype.Numeric{Status: pgtype.Null}
	}
	return pgtype.Numeric{Int: new(big.Int).Set(v), Exp: 0, Status: pgtype.Present}
}

// Amounts are stored as numeric(78, 0), anything with a fraction is an error
func NumericToBigInt(n pgtype.Numeric) (*big.Int, error) {
	if n.Status != pgtype.Present || n.NaN {
		return nil, errors.New("numeric value is not present")
	}

	out := new(big.Int).Set(n.Int)
	if n.Exp > 0 {
		mul := new(big.Int).Exp(ten, big.NewInt(int64(n.Exp)), nil)
		return out.Mul(out, mul), nil
	}

	if n.Exp < 0 {
		div := new(big.Int).Exp(ten, big.NewInt(int64(-n.Exp)), nil)
		quo, rem := new(big.Int).QuoRem(out, div, new(big.Int))
		if rem.Sign() != 0 {
			return nil, errors.New("numeric value is not an integer")
		}
		return quo, nil
	}

	return out, nil
}
