package gateway

import (
	"fmt"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/model"
	monitor_ledger "github.com/warp-contracts/crowdfunding/src/utils/monitoring/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/publisher"
	"github.com/warp-contracts/crowdfunding/src/utils/task"
)

type Controller struct {
	*task.Task

	Ledger *ledger.Ledger
}

// Main class that orchestrates the ledger service.
// Restores the ledger from the database when storage is postgres, serves the REST API and
// optionally publishes notifications to Redis.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	monitor := monitor_ledger.NewMonitor().
		WithMaxHistorySize(30)

	self.Ledger = ledger.NewLedger(config).
		WithMonitor(monitor)

	self.Task = task.NewTask(config, "controller")

	if !config.Ledger.IsValidStorage() {
		return nil, fmt.Errorf("unknown ledger storage: %s", config.Ledger.Storage)
	}
	if config.Ledger.IsPostgres() {
		self.Task = self.Task.WithOnBeforeStart(self.restore)
	}

	server := NewServer(config).
		WithLedger(self.Ledger).
		WithMonitor(monitor)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task)

	if config.Publisher.Enabled {
		forwarder := publisher.NewForwarder(config).
			WithRegistry(self.Ledger.Registry()).
			WithMonitor(monitor)

		redisPublisher := publisher.NewRedisPublisher[*publisher.Message](config, "redis-publisher").
			WithInputChannel(forwarder.Output).
			WithMonitor(monitor)

		self.Task = self.Task.
			WithSubtask(forwarder.Task).
			WithSubtask(redisPublisher.Task)
	}

	return
}

// Connects to the database and loads the ledger state
func (self *Controller) restore() (err error) {
	db, err := model.NewConnection(self.Ctx, self.Config, "ledger")
	if err != nil {
		return
	}

	journal := model.NewJournal(self.Config).WithDB(db)
	self.Ledger.WithJournal(journal)

	err = self.Ledger.Restore(self.Ctx)
	if err != nil {
		return
	}

	self.Log.WithField("campaigns", self.Ledger.Count()).Info("Ledger restored")
	return
}
