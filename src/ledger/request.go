package ledger

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Validated input of CreateCampaign
type CampaignRequest struct {
	Owner        string
	Title        string
	Description  string
	CampaignType string
	Image        string
	Target       *big.Int
	Deadline     int64
}

func NewCampaignRequest(owner, title, description, campaignType string, target *big.Int, deadline int64, image string) *CampaignRequest {
	return &CampaignRequest{
		Owner:        CanonicalIdentity(owner),
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		CampaignType: strings.TrimSpace(campaignType),
		Image:        strings.TrimSpace(image),
		Target:       target,
		Deadline:     deadline,
	}
}

// Checks the request against the current time
func (self *CampaignRequest) Validate(now time.Time) error {
	if self.Deadline <= now.Unix() {
		return ErrInvalidDeadline
	}

	if self.Target == nil || self.Target.Sign() <= 0 {
		return ErrInvalidTarget
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"owner", self.Owner},
		{"title", self.Title},
		{"description", self.Description},
		{"campaignType", self.CampaignType},
		{"image", self.Image},
	} {
		if field.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidRequest, field.name)
		}
	}

	return nil
}
