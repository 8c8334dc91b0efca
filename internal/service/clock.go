package service

import (
	"math/rand"
	"sync"
	"time"
)

// Clock returns the current time in the zone that defines week boundaries.
type Clock func() time.Time

// NewClock returns a Clock reading the wall clock in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always returns t. Used by tests and the catalog CLI.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// lockedRand serialises access to a *rand.Rand shared by concurrent requests.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(r *rand.Rand) *lockedRand {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &lockedRand{r: r}
}

// sample returns k distinct indexes from [0, n), uniformly at random.
func (l *lockedRand) sample(n, k int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)[:k]
}
