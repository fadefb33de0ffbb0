package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/warp-contracts/crowdfunding/src/gateway/request"
	"github.com/warp-contracts/crowdfunding/src/gateway/response"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Session with the gateway. Mutations are made as the identity the token was issued for.
// Every mutation carries a fresh Idempotency-Key that is kept across retries.
type Client struct {
	client *resty.Client
	config *config.Config
	log    *logrus.Entry
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("client")

	self.client = resty.New().
		SetBaseURL(config.Client.Url).
		SetTimeout(config.Client.RequestTimeout).
		SetRetryCount(config.Client.RetryCount).
		SetRetryWaitTime(config.Client.RetryWaitTime).
		SetRetryMaxWaitTime(config.Client.RetryMaxWaitTime).
		SetLogger(NewLogger()).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(self.onRetryCondition)

	return self.WithToken(config.Client.Token)
}

func (self *Client) WithToken(token string) *Client {
	if token != "" {
		self.client.SetAuthToken(token)
	}
	return self
}

// Returns true if request should be retried
func (self *Client) onRetryCondition(resp *resty.Response, err error) bool {
	if err != nil || resp == nil {
		return false
	}

	// Server side errors may be retried
	return resp.StatusCode() >= http.StatusInternalServerError
}

func (self *Client) get(ctx context.Context, out interface{}) *resty.Request {
	return self.client.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&response.Error{}).
		ForceContentType("application/json")
}

func (self *Client) post(ctx context.Context, out interface{}) *resty.Request {
	return self.get(ctx, out).
		SetHeader("Idempotency-Key", xid.New().String())
}

// Non-success status code turns into an error
func (self *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}

	out := &APIError{Status: resp.StatusCode()}
	body, ok := resp.Error().(*response.Error)
	if ok && body != nil {
		out.Code = body.Code
		out.Message = body.Message
	} else {
		out.Message = resp.Status()
	}

	self.log.WithField("status", out.Status).
		WithField("code", out.Code).
		WithField("url", resp.Request.URL).
		Debug("Request failed")
	return out
}

func (self *Client) CreateCampaign(ctx context.Context, in *request.CreateCampaign) (id int, err error) {
	out := new(response.CampaignCreated)
	resp, err := self.post(ctx, out).SetBody(in).Post("/v1/campaigns")
	err = self.check(resp, err)
	if err != nil {
		return -1, err
	}
	return out.Id, nil
}

func (self *Client) GetCampaigns(ctx context.Context, in *request.GetCampaigns) (out []*response.Campaign, err error) {
	params := url.Values{}
	if in != nil {
		if in.Owner != "" {
			params.Set("owner", in.Owner)
		}
		if in.Search != "" {
			params.Set("q", in.Search)
		}
		if in.Sort != "" {
			params.Set("sort", in.Sort)
		}
	}

	resp, err := self.get(ctx, &out).SetQueryParamsFromValues(params).Get("/v1/campaigns")
	err = self.check(resp, err)
	return
}

func (self *Client) GetCampaign(ctx context.Context, id int) (out *response.Campaign, err error) {
	out = new(response.Campaign)
	resp, err := self.get(ctx, out).
		SetPathParam("id", strconv.Itoa(id)).
		Get("/v1/campaigns/{id}")
	err = self.check(resp, err)
	if err != nil {
		return nil, err
	}
	return
}

func (self *Client) GetDonators(ctx context.Context, id int) (out *response.Donators, err error) {
	out = new(response.Donators)
	resp, err := self.get(ctx, out).
		SetPathParam("id", strconv.Itoa(id)).
		Get("/v1/campaigns/{id}/donators")
	err = self.check(resp, err)
	if err != nil {
		return nil, err
	}
	return
}

func (self *Client) Donate(ctx context.Context, id int, in *request.Donate) (out *response.Campaign, err error) {
	out = new(response.Campaign)
	resp, err := self.post(ctx, out).
		SetPathParam("id", strconv.Itoa(id)).
		SetBody(in).
		Post("/v1/campaigns/{id}/donations")
	err = self.check(resp, err)
	if err != nil {
		return nil, err
	}
	return
}

func (self *Client) Withdraw(ctx context.Context, id int) (out *response.Withdrawn, err error) {
	out = new(response.Withdrawn)
	resp, err := self.post(ctx, out).
		SetPathParam("id", strconv.Itoa(id)).
		Post("/v1/campaigns/{id}/withdraw")
	err = self.check(resp, err)
	if err != nil {
		return nil, err
	}
	return
}

func (self *Client) Cancel(ctx context.Context, id int) (out *response.Campaign, err error) {
	out = new(response.Campaign)
	resp, err := self.post(ctx, out).
		SetPathParam("id", strconv.Itoa(id)).
		Post("/v1/campaigns/{id}/cancel")
	err = self.check(resp, err)
	if err != nil {
		return nil, err
	}
	return
}

func (self *Client) GetPayments(ctx context.Context, identity string) (out []*response.Payment, err error) {
	resp, err := self.get(ctx, &out).
		SetPathParam("identity", identity).
		Get("/v1/payments/{identity}")
	err = self.check(resp, err)
	return
}

func (self *Client) GetBalance(ctx context.Context, identity string) (out *response.Balance, err error) {
	out = new(response.Balance)
	resp, err := self.get(ctx, out).
		SetPathParam("identity", identity).
		Get("/v1/balances/{identity}")
	err = self.check(resp, err)
	if err != nil {
		return nil, err
	}
	return
}
