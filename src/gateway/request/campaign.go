package request

// Amounts are base 10 strings. Wei takes precedence over the ether variant.
type CreateCampaign struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CampaignType string `json:"campaignType"`
	Target       string `json:"target"`
	TargetEther  string `json:"targetEther"`
	Deadline     int64  `json:"deadline"`
	Image        string `json:"image"`
}

type Donate struct {
	Amount      string `json:"amount"`
	AmountEther string `json:"amountEther"`
}

// Query string of the campaign listing
type GetCampaigns struct {
	Owner  string `form:"owner"`
	Search string `form:"q"`
	Sort   string `form:"sort"`
}
