package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/warp-contracts/crowdfunding/src/gateway/response"
	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/auth"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	monitor_ledger "github.com/warp-contracts/crowdfunding/src/utils/monitoring/ledger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	owner = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	donor = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
)

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ServerTestSuite struct {
	suite.Suite
	config  *config.Config
	clock   *ledger.ManualClock
	ledger  *ledger.Ledger
	monitor *monitor_ledger.Monitor
	auth    *auth.Authenticator
	server  *Server
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.config = config.Default()
	s.config.Gateway.RateLimit = 0
	s.config.Gateway.AuthSecret = "test-secret"

	s.clock = ledger.NewManualClock(time.Unix(1_700_000_000, 0))
	s.monitor = monitor_ledger.NewMonitor()
	s.ledger = ledger.NewLedger(s.config).WithClock(s.clock).WithMonitor(s.monitor)
	s.auth = auth.NewAuthenticator(s.config)
	s.server = s.newServer(s.config)
}

func (s *ServerTestSuite) newServer(config *config.Config) *Server {
	server := NewServer(config).
		WithLedger(s.ledger).
		WithMonitor(s.monitor).
		WithAuthenticator(s.auth)
	s.Require().NoError(server.setup())
	return server
}

func (s *ServerTestSuite) token(identity string) string {
	token, err := s.auth.Issue(identity)
	s.Require().NoError(err)
	return token
}

func (s *ServerTestSuite) do(server *Server, method, path, identity string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(identity))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) request(method, path, identity string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	return s.do(s.server, method, path, identity, body, headers...)
}

func (s *ServerTestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *ServerTestSuite) requireError(w *httptest.ResponseRecorder, status int, code string) {
	s.Require().Equal(status, w.Code, w.Body.String())
	var body response.Error
	s.decode(w, &body)
	s.Require().Equal(code, body.Code)
	s.Require().NotEmpty(body.Message)
}

func (s *ServerTestSuite) create(targetEther string) int {
	w := s.request(http.MethodPost, "/v1/campaigns", owner, map[string]interface{}{
		"title":        "Clean water",
		"description":  "Wells for the village",
		"campaignType": "Health",
		"targetEther":  targetEther,
		"deadline":     s.clock.Now().Add(48 * time.Hour).Unix(),
		"image":        "https://example.com/well.png",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var out response.CampaignCreated
	s.decode(w, &out)
	return out.Id
}

func (s *ServerTestSuite) get(id int) *response.Campaign {
	w := s.request(http.MethodGet, "/v1/campaigns/"+strconv.Itoa(id), "", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var out response.Campaign
	s.decode(w, &out)
	return &out
}

func (s *ServerTestSuite) TestCreateAndGet() {
	s.Require().Equal(0, s.create("10"))
	s.Require().Equal(1, s.create("5"))

	campaign := s.get(0)
	s.Require().Equal(owner, campaign.Owner)
	s.Require().Equal("Clean water", campaign.Title)
	s.Require().Equal("10000000000000000000", campaign.Target)
	s.Require().Equal("10", campaign.TargetEther)
	s.Require().Equal("0", campaign.AmountCollected)
	s.Require().Empty(campaign.Donators)
	s.Require().Equal(string(ledger.StatusOpen), campaign.Status)
	s.Require().Equal(2, campaign.DaysLeft)

	w := s.request(http.MethodGet, "/v1/campaigns?sort=newest", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []*response.Campaign
	s.decode(w, &list)
	s.Require().Len(list, 2)
	s.Require().Equal(1, list[0].Id)
	s.Require().Equal(0, list[1].Id)
}

func (s *ServerTestSuite) TestCreateRequiresToken() {
	w := s.request(http.MethodPost, "/v1/campaigns", "", map[string]interface{}{"title": "x"})
	s.requireError(w, http.StatusUnauthorized, CodeUnauthenticated)

	w = s.request(http.MethodPost, "/v1/campaigns", "", map[string]interface{}{"title": "x"}, "Authorization", "Bearer garbage")
	s.requireError(w, http.StatusUnauthorized, CodeUnauthenticated)
	s.Require().Equal(uint64(2), s.monitor.GetReport().Gateway.Errors.Unauthorized.Load())
}

func (s *ServerTestSuite) TestCreateValidation() {
	w := s.request(http.MethodPost, "/v1/campaigns", owner, map[string]interface{}{
		"title":        "Clean water",
		"description":  "Wells",
		"campaignType": "Health",
		"targetEther":  "10",
		"deadline":     s.clock.Now().Add(-time.Hour).Unix(),
		"image":        "img",
	})
	s.requireError(w, http.StatusUnprocessableEntity, ledger.ErrInvalidDeadline.Code)

	w = s.request(http.MethodPost, "/v1/campaigns", owner, map[string]interface{}{
		"title":        "Clean water",
		"description":  "Wells",
		"campaignType": "Health",
		"target":       "ten",
		"deadline":     s.clock.Now().Add(time.Hour).Unix(),
		"image":        "img",
	})
	s.requireError(w, http.StatusUnprocessableEntity, ledger.ErrInvalidRequest.Code)

	w = s.request(http.MethodPost, "/v1/campaigns", owner, map[string]interface{}{
		"title":        "Clean water",
		"description":  "Wells",
		"campaignType": "Health",
		"deadline":     s.clock.Now().Add(time.Hour).Unix(),
		"image":        "img",
	})
	s.requireError(w, http.StatusUnprocessableEntity, ledger.ErrInvalidTarget.Code)
	s.Require().Equal(0, s.ledger.Count())
}

func (s *ServerTestSuite) TestGetUnknownCampaign() {
	w := s.request(http.MethodGet, "/v1/campaigns/abc", "", nil)
	s.requireError(w, http.StatusNotFound, ledger.ErrInvalidId.Code)

	w = s.request(http.MethodGet, "/v1/campaigns/7", "", nil)
	s.requireError(w, http.StatusNotFound, ledger.ErrInvalidId.Code)

	w = s.request(http.MethodGet, "/v1/campaigns/7/donators", "", nil)
	s.requireError(w, http.StatusNotFound, ledger.ErrInvalidId.Code)
}

func (s *ServerTestSuite) TestListFilters() {
	s.create("10")
	w := s.request(http.MethodGet, "/v1/campaigns?owner="+strings.ToLower(owner)+"&q=water", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []*response.Campaign
	s.decode(w, &list)
	s.Require().Len(list, 1)

	w = s.request(http.MethodGet, "/v1/campaigns?owner="+donor, "", nil)
	s.decode(w, &list)
	s.Require().Empty(list)

	w = s.request(http.MethodGet, "/v1/campaigns?sort=oldest", "", nil)
	s.requireError(w, http.StatusUnprocessableEntity, ledger.ErrInvalidRequest.Code)
}

func (s *ServerTestSuite) TestDonateWithdraw() {
	id := s.create("10")

	w := s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, map[string]interface{}{"amountEther": "1.5"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var campaign response.Campaign
	s.decode(w, &campaign)
	s.Require().Equal("1500000000000000000", campaign.AmountCollected)
	s.Require().Equal([]string{donor}, campaign.Donators)
	s.Require().Equal(15, campaign.PercentFunded)

	w = s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, map[string]interface{}{"amountEther": "9"})
	s.requireError(w, http.StatusUnprocessableEntity, ledger.ErrTargetExceeded.Code)

	w = s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, map[string]interface{}{"amount": "0"})
	s.requireError(w, http.StatusUnprocessableEntity, ledger.ErrZeroDonation.Code)

	w = s.request(http.MethodGet, "/v1/campaigns/0/donators", "", nil)
	var donators response.Donators
	s.decode(w, &donators)
	s.Require().Equal([]string{donor}, donators.Donators)
	s.Require().Equal([]string{"1500000000000000000"}, donators.Donations)

	w = s.request(http.MethodPost, "/v1/campaigns/0/withdraw", donor, nil)
	s.requireError(w, http.StatusForbidden, ledger.ErrUnauthorized.Code)

	w = s.request(http.MethodPost, "/v1/campaigns/0/withdraw", owner, nil)
	s.requireError(w, http.StatusUnprocessableEntity, ledger.ErrDeadlineNotReached.Code)

	s.clock.Advance(72 * time.Hour)

	w = s.request(http.MethodPost, "/v1/campaigns/0/withdraw", owner, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var withdrawn response.Withdrawn
	s.decode(w, &withdrawn)
	s.Require().Equal(id, withdrawn.Id)
	s.Require().Equal("1500000000000000000", withdrawn.Amount)
	s.Require().Equal("1.5", withdrawn.AmountEther)

	w = s.request(http.MethodPost, "/v1/campaigns/0/withdraw", owner, nil)
	s.requireError(w, http.StatusConflict, ledger.ErrAlreadyWithdrawn.Code)

	w = s.request(http.MethodGet, "/v1/balances/"+strings.ToLower(owner), "", nil)
	var balance response.Balance
	s.decode(w, &balance)
	s.Require().Equal(owner, balance.Identity)
	s.Require().Equal("1500000000000000000", balance.Balance)

	w = s.request(http.MethodGet, "/v1/payments/"+owner, "", nil)
	var payments []*response.Payment
	s.decode(w, &payments)
	s.Require().Len(payments, 1)
	s.Require().Equal(string(ledger.PaymentWithdrawal), payments[0].PaymentType)
}

func (s *ServerTestSuite) TestCancelRefunds() {
	s.create("10")
	w := s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, map[string]interface{}{"amountEther": "2"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, "/v1/campaigns/0/cancel", donor, nil)
	s.requireError(w, http.StatusForbidden, ledger.ErrUnauthorized.Code)

	w = s.request(http.MethodPost, "/v1/campaigns/0/cancel", owner, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var campaign response.Campaign
	s.decode(w, &campaign)
	s.Require().True(campaign.Canceled)
	s.Require().Equal(string(ledger.StatusCanceled), campaign.Status)

	w = s.request(http.MethodPost, "/v1/campaigns/0/cancel", owner, nil)
	s.requireError(w, http.StatusConflict, ledger.ErrAlreadyCanceled.Code)

	w = s.request(http.MethodGet, "/v1/payments/"+donor, "", nil)
	var payments []*response.Payment
	s.decode(w, &payments)
	s.Require().Len(payments, 2)
	s.Require().Equal(string(ledger.PaymentDonation), payments[0].PaymentType)
	s.Require().Equal(string(ledger.PaymentRefund), payments[1].PaymentType)
	s.Require().Equal("2", payments[1].AmountEther)
}

func (s *ServerTestSuite) TestIdempotentReplay() {
	s.create("10")

	body := map[string]interface{}{"amountEther": "1"}
	first := s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, body, headerIdempotencyKey, "donation-1")
	s.Require().Equal(http.StatusOK, first.Code, first.Body.String())

	second := s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, body, headerIdempotencyKey, "donation-1")
	s.Require().Equal(http.StatusOK, second.Code)
	s.Require().Equal("true", second.Header().Get(headerIdempotentReplay))
	s.Require().JSONEq(first.Body.String(), second.Body.String())

	s.Require().Equal("1000000000000000000", s.get(0).AmountCollected)
	s.Require().Equal(uint64(1), s.monitor.GetReport().Gateway.State.IdempotentReplays.Load())

	// Different key is a new donation
	third := s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, body, headerIdempotencyKey, "donation-2")
	s.Require().Equal(http.StatusOK, third.Code)
	s.Require().Equal("2000000000000000000", s.get(0).AmountCollected)
}

func (s *ServerTestSuite) TestIdempotencyKeyReleasedAfterPanic() {
	calls := 0
	s.server.Router.POST("/v1/flaky", s.server.authMiddleware(), s.server.idempotencyMiddleware(), func(c *gin.Context) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := s.request(http.MethodPost, "/v1/flaky", donor, nil, headerIdempotencyKey, "retry-1")
	s.Require().Equal(http.StatusInternalServerError, first.Code)
	s.Require().Equal(0, s.server.idempotency.ItemCount())

	// Retry runs the handler instead of reporting a request in progress
	second := s.request(http.MethodPost, "/v1/flaky", donor, nil, headerIdempotencyKey, "retry-1")
	s.Require().Equal(http.StatusOK, second.Code, second.Body.String())
	s.Require().Equal(2, calls)
	s.Require().Equal(1, s.server.idempotency.ItemCount())
}

func (s *ServerTestSuite) TestRateLimit() {
	config := config.Default()
	config.Gateway.AuthSecret = s.config.Gateway.AuthSecret
	config.Gateway.RateLimit = 0.001
	config.Gateway.RateLimitBurst = 1
	server := s.newServer(config)

	body := map[string]interface{}{"amountEther": "1"}
	w := s.do(server, http.MethodPost, "/v1/campaigns/0/donations", donor, body)
	s.requireError(w, http.StatusNotFound, ledger.ErrInvalidId.Code)

	w = s.do(server, http.MethodPost, "/v1/campaigns/0/donations", donor, body)
	s.requireError(w, http.StatusTooManyRequests, CodeRateLimited)

	// Other identities have their own bucket
	w = s.do(server, http.MethodPost, "/v1/campaigns/0/donations", owner, body)
	s.requireError(w, http.StatusNotFound, ledger.ErrInvalidId.Code)
}

func (s *ServerTestSuite) TestMonitoring() {
	w := s.request(http.MethodGet, "/v1/health", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	s.create("1")

	w = s.request(http.MethodGet, "/v1/metrics", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Contains(w.Body.String(), "campaigns_created")

	w = s.request(http.MethodGet, "/v1/state", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NotEmpty(w.Header().Get(headerRequestId))
}

func (s *ServerTestSuite) TestEvents() {
	httpServer := httptest.NewServer(s.server.Router)
	defer httpServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/v1/events?kinds=CampaignCreated,DonationReceived"
	ws, _, err := websocket.Dial(ctx, url, nil)
	s.Require().NoError(err)
	defer ws.Close(websocket.StatusNormalClosure, "")

	s.Require().Eventually(func() bool {
		return s.ledger.Registry().Len(ledger.DonationReceived) == 1
	}, time.Second, 10*time.Millisecond)
	s.Require().Equal(0, s.ledger.Registry().Len(ledger.CampaignAmountUpdated))

	s.create("10")
	w := s.request(http.MethodPost, "/v1/campaigns/0/donations", donor, map[string]interface{}{"amount": "5"})
	s.Require().Equal(http.StatusOK, w.Code)

	var created, donated ledger.Notification
	s.Require().NoError(wsjson.Read(ctx, ws, &created))
	s.Require().Equal(ledger.CampaignCreated, created.Kind)
	s.Require().Equal(1, created.Count)

	s.Require().NoError(wsjson.Read(ctx, ws, &donated))
	s.Require().Equal(ledger.DonationReceived, donated.Kind)
	s.Require().Equal(donor, donated.Donor)
	s.Require().Equal("5", donated.Amount)
}

func TestEventsRejectUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config := config.Default()
	monitor := monitor_ledger.NewMonitor()
	server := NewServer(config).
		WithLedger(ledger.NewLedger(config)).
		WithMonitor(monitor)
	require.NoError(t, server.setup())

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/events?kinds=Nope", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusOf(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
	}{
		{ledger.ErrInvalidId, http.StatusNotFound},
		{ledger.ErrUnauthorized, http.StatusForbidden},
		{ledger.ErrAlreadyWithdrawn, http.StatusConflict},
		{ledger.ErrAlreadyCanceled, http.StatusConflict},
		{ledger.ErrInvalidDeadline, http.StatusUnprocessableEntity},
		{ledger.ErrInvalidTarget, http.StatusUnprocessableEntity},
		{ledger.ErrZeroDonation, http.StatusUnprocessableEntity},
		{ledger.ErrTargetExceeded, http.StatusUnprocessableEntity},
		{ledger.ErrDeadlinePassed, http.StatusUnprocessableEntity},
		{ledger.ErrDeadlineNotReached, http.StatusUnprocessableEntity},
		{ledger.ErrInvalidRequest, http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	} {
		t.Run(tc.err.Error(), func(t *testing.T) {
			require.Equal(t, tc.status, StatusOf(tc.err))
		})
	}
}
