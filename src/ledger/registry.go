package ledger

import (
	"fmt"
	"sync"

	"github.com/warp-contracts/crowdfunding/src/utils/logger"
	"github.com/warp-contracts/crowdfunding/src/utils/monitoring"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Handler receives notifications. Implementations must be comparable, pointers are the usual choice.
// Handlers must not mutate the ledger synchronously.
type Handler interface {
	OnNotification(n *Notification)
}

// Adapts a function to a Handler. Each call returns a distinct handler.
type FuncHandler struct {
	f func(n *Notification)
}

func NewFuncHandler(f func(n *Notification)) *FuncHandler {
	return &FuncHandler{f: f}
}

func (self *FuncHandler) OnNotification(n *Notification) {
	self.f(n)
}

// Registry maps notification kinds to subscribed handlers
type Registry struct {
	mtx      sync.RWMutex
	log      *logrus.Entry
	monitor  monitoring.Monitor
	handlers map[NotificationKind][]Handler
}

func NewRegistry() (self *Registry) {
	self = new(Registry)
	self.log = logger.NewSublogger("registry")
	self.handlers = make(map[NotificationKind][]Handler)
	return
}

func (self *Registry) WithMonitor(monitor monitoring.Monitor) *Registry {
	self.monitor = monitor
	return self
}

// Returns false if the handler was already subscribed to this kind
func (self *Registry) Subscribe(kind NotificationKind, handler Handler) bool {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if slices.Contains(self.handlers[kind], handler) {
		return false
	}
	self.handlers[kind] = append(self.handlers[kind], handler)
	return true
}

// Returns false if the handler wasn't subscribed to this kind
func (self *Registry) Unsubscribe(kind NotificationKind, handler Handler) bool {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	idx := slices.Index(self.handlers[kind], handler)
	if idx < 0 {
		return false
	}

	// New slice, so a concurrent Dispatch keeps iterating over the old one
	self.handlers[kind] = slices.Delete(slices.Clone(self.handlers[kind]), idx, idx+1)
	if len(self.handlers[kind]) == 0 {
		delete(self.handlers, kind)
	}
	return true
}

func (self *Registry) SubscribeAll(handler Handler) {
	for _, kind := range NotificationKinds {
		self.Subscribe(kind, handler)
	}
}

func (self *Registry) UnsubscribeAll(handler Handler) {
	for _, kind := range NotificationKinds {
		self.Unsubscribe(kind, handler)
	}
}

func (self *Registry) Len(kind NotificationKind) int {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return len(self.handlers[kind])
}

// Delivers notifications in order, each to its handlers in registration order
func (self *Registry) Dispatch(notifications []*Notification) {
	for _, n := range notifications {
		self.mtx.RLock()
		handlers := self.handlers[n.Kind]
		self.mtx.RUnlock()

		for _, handler := range handlers {
			self.deliver(handler, n)
		}
	}
}

func (self *Registry) deliver(handler Handler, n *Notification) {
	defer func() {
		if p := recover(); p != nil {
			self.log.WithField("kind", n.Kind).
				WithField("campaign_id", n.CampaignId).
				WithError(fmt.Errorf("%v", p)).
				Error("Notification handler panicked")
			if self.monitor != nil {
				self.monitor.GetReport().Ledger.Errors.HandlerPanics.Inc()
			}
		}
	}()
	handler.OnNotification(n)
}
