package gateway

import (
	"sync"

	"golang.org/x/time/rate"
)

// Token bucket per identity
type Limiters struct {
	mtx      sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// Zero or negative limit disables limiting
func NewLimiters(perSecond float64, burst int) (self *Limiters) {
	self = new(Limiters)
	self.limit = rate.Limit(perSecond)
	self.burst = burst
	if self.burst < 1 {
		self.burst = 1
	}
	self.limiters = make(map[string]*rate.Limiter)
	return
}

func (self *Limiters) Allow(identity string) bool {
	if self.limit <= 0 {
		return true
	}

	self.mtx.Lock()
	limiter, ok := self.limiters[identity]
	if !ok {
		limiter = rate.NewLimiter(self.limit, self.burst)
		self.limiters[identity] = limiter
	}
	self.mtx.Unlock()

	return limiter.Allow()
}
