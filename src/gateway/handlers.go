package gateway

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/warp-contracts/crowdfunding/src/gateway/request"
	"github.com/warp-contracts/crowdfunding/src/gateway/response"
	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/common"
	"github.com/warp-contracts/crowdfunding/src/utils/units"

	"github.com/gin-gonic/gin"
)

func campaignId(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("campaign %q: %w", c.Param("id"), ledger.ErrInvalidId)
	}
	return id, nil
}

// Authenticated identity making the request
func caller(c *gin.Context) string {
	identity, _ := common.GetIdentity(c.Request.Context())
	return identity
}

func invalid(err error) error {
	return fmt.Errorf("%w: %s", ledger.ErrInvalidRequest, err.Error())
}

func (self *Server) onCreateCampaign(c *gin.Context) {
	var in = new(request.CreateCampaign)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.fail(c, invalid(err), "Failed to parse request")
		return
	}

	target, err := in.GetTarget()
	if err != nil {
		self.fail(c, invalid(err), "Failed to parse target")
		return
	}

	req := ledger.NewCampaignRequest(caller(c), in.Title, in.Description, in.CampaignType, target, in.Deadline, in.Image)
	id, err := self.ledger.CreateCampaign(c.Request.Context(), req)
	if err != nil {
		self.fail(c, err, "Failed to create campaign")
		return
	}

	LOG(c).WithField("id", id).Info("Campaign created")
	c.JSON(http.StatusCreated, &response.CampaignCreated{Id: id})
}

func (self *Server) onGetCampaigns(c *gin.Context) {
	var in = new(request.GetCampaigns)
	err := c.ShouldBindQuery(in)
	if err != nil {
		self.fail(c, invalid(err), "Failed to parse query")
		return
	}
	if in.Sort != "" && in.Sort != ledger.SortNewest {
		self.fail(c, invalid(fmt.Errorf("unknown sort %q", in.Sort)), "Failed to parse query")
		return
	}

	campaigns := self.ledger.Find(ledger.Query{
		Owner:  in.Owner,
		Search: in.Search,
		Sort:   in.Sort,
	})

	c.JSON(http.StatusOK, response.CampaignsToResponse(campaigns, self.ledger.Now()))
}

func (self *Server) onGetCampaign(c *gin.Context) {
	id, err := campaignId(c)
	if err != nil {
		self.fail(c, err, "Bad campaign id")
		return
	}

	campaign, err := self.ledger.GetCampaignById(id)
	if err != nil {
		self.fail(c, err, "Failed to get campaign")
		return
	}

	c.JSON(http.StatusOK, response.CampaignToResponse(campaign, self.ledger.Now()))
}

func (self *Server) onGetDonators(c *gin.Context) {
	id, err := campaignId(c)
	if err != nil {
		self.fail(c, err, "Bad campaign id")
		return
	}

	donators, donations, err := self.ledger.GetDonators(id)
	if err != nil {
		self.fail(c, err, "Failed to get donators")
		return
	}

	out := &response.Donators{
		Donators:  donators,
		Donations: response.Amounts(donations),
	}
	if out.Donators == nil {
		out.Donators = []string{}
	}
	c.JSON(http.StatusOK, out)
}

func (self *Server) onDonate(c *gin.Context) {
	id, err := campaignId(c)
	if err != nil {
		self.fail(c, err, "Bad campaign id")
		return
	}

	var in = new(request.Donate)
	err = c.ShouldBindJSON(in)
	if err != nil {
		self.fail(c, invalid(err), "Failed to parse request")
		return
	}

	amount, err := in.GetAmount()
	if err != nil {
		self.fail(c, invalid(err), "Failed to parse amount")
		return
	}

	err = self.ledger.Donate(c.Request.Context(), id, amount, caller(c))
	if err != nil {
		self.fail(c, err, "Failed to donate")
		return
	}

	campaign, err := self.ledger.GetCampaignById(id)
	if err != nil {
		self.fail(c, err, "Failed to get campaign")
		return
	}

	LOG(c).WithField("id", id).WithField("amount", amount).Info("Donation accepted")
	c.JSON(http.StatusOK, response.CampaignToResponse(campaign, self.ledger.Now()))
}

func (self *Server) onWithdraw(c *gin.Context) {
	id, err := campaignId(c)
	if err != nil {
		self.fail(c, err, "Bad campaign id")
		return
	}

	amount, err := self.ledger.Withdraw(c.Request.Context(), id, caller(c))
	if err != nil {
		self.fail(c, err, "Failed to withdraw")
		return
	}

	LOG(c).WithField("id", id).WithField("amount", amount).Info("Funds withdrawn")
	c.JSON(http.StatusOK, &response.Withdrawn{
		Id:          id,
		Amount:      amount.String(),
		AmountEther: units.FormatEther(amount),
	})
}

func (self *Server) onCancel(c *gin.Context) {
	id, err := campaignId(c)
	if err != nil {
		self.fail(c, err, "Bad campaign id")
		return
	}

	err = self.ledger.Cancel(c.Request.Context(), id, caller(c))
	if err != nil {
		self.fail(c, err, "Failed to cancel")
		return
	}

	campaign, err := self.ledger.GetCampaignById(id)
	if err != nil {
		self.fail(c, err, "Failed to get campaign")
		return
	}

	LOG(c).WithField("id", id).Info("Campaign canceled")
	c.JSON(http.StatusOK, response.CampaignToResponse(campaign, self.ledger.Now()))
}

func (self *Server) onGetPayments(c *gin.Context) {
	payments := self.ledger.PaymentDetails(c.Param("identity"))
	c.JSON(http.StatusOK, response.PaymentsToResponse(payments))
}

func (self *Server) onGetBalance(c *gin.Context) {
	identity := ledger.CanonicalIdentity(c.Param("identity"))
	c.JSON(http.StatusOK, response.BalanceToResponse(identity, self.ledger.Balance(identity)))
}
