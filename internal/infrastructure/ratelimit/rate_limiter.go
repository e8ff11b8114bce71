package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage   = "send_message"
	ActionCreateRequest = "create_request"
)

// Rule is the sustained rate and burst allowed for one action.
type Rule struct {
	Rate  rate.Limit
	Burst int
}

var defaultRule = Rule{Rate: rate.Every(3 * time.Second), Burst: 20}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per user and action.
type RateLimiter struct {
	rules   map[string]Rule
	entries map[string]*entry
	mutex   sync.Mutex
	now     func() time.Time
}

func NewRateLimiter(rules map[string]Rule) *RateLimiter {
	if rules == nil {
		rules = map[string]Rule{}
	}
	return &RateLimiter{
		rules:   rules,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow consumes one token for the user's action. When refused it returns how
// long until the next token is available.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	now := rl.now()
	e := rl.get(userID, action, now)

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) get(userID, action string, now time.Time) *entry {
	key := userID + ":" + action

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	e, ok := rl.entries[key]
	if !ok {
		rule, ok := rl.rules[action]
		if !ok {
			rule = defaultRule
		}
		e = &entry{limiter: rate.NewLimiter(rule.Rate, rule.Burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	return e
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	cutoff := rl.now().Add(-maxIdle)

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	removed := 0
	for key, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, key)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine prunes idle buckets every interval until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(interval)
			case <-stop:
				return
			}
		}
	}()
}
