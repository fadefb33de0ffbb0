package publisher

import (
	"sync"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/monitoring"
	"github.com/warp-contracts/crowdfunding/src/utils/task"
)

// Subscribes to ledger notifications and puts them on the output channel as messages.
// Never blocks the ledger: messages that don't fit the channel are dropped and counted.
type Forwarder struct {
	*task.Task

	registry *ledger.Registry
	monitor  monitoring.Monitor
	encoding string

	mtx    sync.RWMutex
	closed bool

	Output chan *Message
}

func NewForwarder(config *config.Config) (self *Forwarder) {
	self = new(Forwarder)
	self.encoding = config.Publisher.Encoding
	self.Output = make(chan *Message, config.Publisher.MaxQueueSize)

	self.Task = task.NewTask(config, "forwarder").
		WithOnBeforeStart(func() error {
			self.registry.SubscribeAll(self)
			return nil
		}).
		WithOnStop(func() {
			self.registry.UnsubscribeAll(self)

			self.mtx.Lock()
			defer self.mtx.Unlock()
			self.closed = true
			close(self.Output)
		})

	return
}

func (self *Forwarder) WithRegistry(registry *ledger.Registry) *Forwarder {
	self.registry = registry
	return self
}

func (self *Forwarder) WithMonitor(monitor monitoring.Monitor) *Forwarder {
	self.monitor = monitor
	return self
}

func (self *Forwarder) OnNotification(n *ledger.Notification) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	if self.closed {
		return
	}

	select {
	case self.Output <- NewMessage(self.encoding, n):
	default:
		self.monitor.GetReport().RedisPublisher.Errors.Dropped.Inc()
	}
}
