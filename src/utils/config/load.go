package config

import (
	"time"

	"github.com/spf13/viper"
)

type LoadGenerator struct {
	// Donations per second
	Rate int

	// Number of campaigns created before donating
	NumCampaigns int

	// Number of distinct donor identities
	NumDonors int

	// Campaign target in ether
	TargetEther string

	// Single donation in ether
	DonationEther string

	// Campaign lifetime
	CampaignDuration time.Duration
}

func setLoadDefaults(v *viper.Viper) {
	v.SetDefault("Load.Rate", "10")
	v.SetDefault("Load.NumCampaigns", "5")
	v.SetDefault("Load.NumDonors", "20")
	v.SetDefault("Load.TargetEther", "100")
	v.SetDefault("Load.DonationEther", "0.01")
	v.SetDefault("Load.CampaignDuration", "1h")
}
