package watch

import (
	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/monitoring"
	"github.com/warp-contracts/crowdfunding/src/utils/task"
)

// Decodes notification payloads and dispatches them to a local registry
type Watcher struct {
	*task.Task

	monitor  monitoring.Monitor
	registry *ledger.Registry

	input chan string
}

func NewWatcher(config *config.Config) (self *Watcher) {
	self = new(Watcher)

	self.Task = task.NewTask(config, "watcher").
		WithSubtaskFunc(self.run)

	return
}

func (self *Watcher) WithInputChannel(v chan string) *Watcher {
	self.input = v
	return self
}

func (self *Watcher) WithRegistry(registry *ledger.Registry) *Watcher {
	self.registry = registry
	return self
}

func (self *Watcher) WithMonitor(monitor monitoring.Monitor) *Watcher {
	self.monitor = monitor
	return self
}

func (self *Watcher) run() error {
	for payload := range self.input {
		n := new(ledger.Notification)
		err := n.UnmarshalBinary([]byte(payload))
		if err != nil || !ledger.IsNotificationKind(string(n.Kind)) {
			self.Log.WithError(err).WithField("payload", payload).Warn("Skipping malformed notification")
			self.monitor.GetReport().Watcher.Errors.Decode.Inc()
			continue
		}

		self.monitor.GetReport().Watcher.State.NotificationsReceived.Inc()
		self.registry.Dispatch([]*ledger.Notification{n})
	}
	return nil
}
