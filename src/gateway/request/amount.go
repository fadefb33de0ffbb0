package request

import (
	"math/big"

	"github.com/warp-contracts/crowdfunding/src/utils/units"
)

// Picks the wei amount, falls back to ether. Missing amount is zero.
func ParseAmount(wei, ether string) (*big.Int, error) {
	switch {
	case wei != "":
		return units.ParseWei(wei)
	case ether != "":
		return units.ParseEther(ether)
	default:
		return new(big.Int), nil
	}
}

func (self *CreateCampaign) GetTarget() (*big.Int, error) {
	return ParseAmount(self.Target, self.TargetEther)
}

func (self *Donate) GetAmount() (*big.Int, error) {
	return ParseAmount(self.Amount, self.AmountEther)
}
