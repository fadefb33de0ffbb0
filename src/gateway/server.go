package gateway

import (
	"context"
	"net/http"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/auth"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/monitoring"
	"github.com/warp-contracts/crowdfunding/src/utils/task"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rest API server exposing the ledger
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	ledger      *ledger.Ledger
	auth        *auth.Authenticator
	monitor     monitoring.Monitor
	limiters    *Limiters
	idempotency *cache.Cache
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "server").
		WithOnBeforeStart(self.setup).
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if config.IsDevelopment {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	self.Router = gin.New()
	self.Router.Use(gin.Recovery())

	self.httpServer = &http.Server{
		Addr:    config.Gateway.RESTListenAddress,
		Handler: self.Router,
	}

	self.auth = auth.NewAuthenticator(config)
	self.limiters = NewLimiters(config.Gateway.RateLimit, config.Gateway.RateLimitBurst)
	self.idempotency = cache.New(config.Gateway.IdempotencyTTL, 2*config.Gateway.IdempotencyTTL)

	return
}

func (self *Server) WithLedger(ledger *ledger.Ledger) *Server {
	self.ledger = ledger
	return self
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) WithAuthenticator(auth *auth.Authenticator) *Server {
	self.auth = auth
	return self
}

// Registers routes
func (self *Server) setup() (err error) {
	registry := prometheus.NewRegistry()
	err = registry.Register(self.monitor.GetPrometheusCollector())
	if err != nil {
		return
	}

	if self.Config.Profiler.Enabled {
		pprof.Register(self.Router)
	}

	v1 := self.Router.Group("v1")
	v1.Use(self.requestMiddleware())
	{
		v1.GET("health", self.monitor.OnGetHealth)
		v1.GET("state", self.monitor.OnGetState)
		v1.GET("metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

		v1.GET("campaigns", self.onGetCampaigns)
		v1.GET("campaigns/:id", self.onGetCampaign)
		v1.GET("campaigns/:id/donators", self.onGetDonators)
		v1.GET("payments/:identity", self.onGetPayments)
		v1.GET("balances/:identity", self.onGetBalance)
		v1.GET("events", self.onEvents)

		mutating := v1.Group("")
		mutating.Use(self.authMiddleware(), self.rateLimitMiddleware(), self.idempotencyMiddleware())
		{
			mutating.POST("campaigns", self.onCreateCampaign)
			mutating.POST("campaigns/:id/donations", self.onDonate)
			mutating.POST("campaigns/:id/withdraw", self.onWithdraw)
			mutating.POST("campaigns/:id/cancel", self.onCancel)
		}
	}
	return
}

func (self *Server) run() (err error) {
	self.Log.WithField("address", self.httpServer.Addr).Info("Starting REST server")

	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}
