package ledger

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Clock that only moves when told to
type ManualClock struct {
	mtx sync.Mutex
	now time.Time
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (self *ManualClock) Now() time.Time {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.now
}

func (self *ManualClock) Set(now time.Time) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.now = now
}

func (self *ManualClock) Advance(d time.Duration) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.now = self.now.Add(d)
}
