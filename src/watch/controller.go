package watch

import (
	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	monitor_ledger "github.com/warp-contracts/crowdfunding/src/utils/monitoring/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/notify"
	"github.com/warp-contracts/crowdfunding/src/utils/task"
)

type Controller struct {
	*task.Task

	Registry *ledger.Registry
}

// Listens for notifications committed by any ledger instance sharing the database
// and hands them to handlers subscribed to the registry
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "watch-controller")

	monitor := monitor_ledger.NewMonitor()

	self.Registry = ledger.NewRegistry().
		WithMonitor(monitor)

	streamer := notify.NewStreamer(config).
		WithNotificationChannelName(config.Database.NotificationChannel).
		WithCapacity(config.Watcher.Capacity).
		WithMonitor(monitor)

	watcher := NewWatcher(config).
		WithInputChannel(streamer.Output).
		WithRegistry(self.Registry).
		WithMonitor(monitor)

	self.Task.
		WithSubtask(streamer.Task).
		WithSubtask(watcher.Task)
	return
}
