package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ramachandrareddy352/sol-tool/internal/domain/fee"
)

// FeeScheduleCache holds the session's fee-table snapshot. No implicit
// polling: callers decide the refresh cadence, typically once per workflow
// mount. Destroyed (invalidated) on signer or network switch.
type FeeScheduleCache struct {
	reader FeeConfigReader

	mu       sync.RWMutex
	loaded   bool
	schedule fee.Schedule
}

func NewFeeScheduleCache(reader FeeConfigReader) *FeeScheduleCache {
	return &FeeScheduleCache{reader: reader}
}

// Load fetches a fresh schedule and replaces the cached one. A fetch or
// decode failure leaves the previous snapshot untouched.
func (c *FeeScheduleCache) Load(ctx context.Context) (fee.Schedule, error) {
	if c == nil || c.reader == nil {
		return fee.Schedule{}, fmt.Errorf("%w: cache not configured", ErrFeeConfigUnavailable)
	}

	s, err := c.reader.Load(ctx)
	if err != nil {
		return fee.Schedule{}, fmt.Errorf("%w: %v", ErrFeeConfigUnavailable, err)
	}

	c.mu.Lock()
	c.schedule = s
	c.loaded = true
	c.mu.Unlock()

	log.Printf("[fee_cache] schedule loaded owner=%s vault=%s", maskShort(s.Owner), maskShort(s.Vault))
	return s, nil
}

// Get returns the last successfully loaded schedule.
func (c *FeeScheduleCache) Get() (fee.Schedule, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return fee.Schedule{}, ErrFeeScheduleNotLoaded
	}
	return c.schedule, nil
}

// Invalidate drops the snapshot. The next Get fails with NotLoaded until a
// Load succeeds again.
func (c *FeeScheduleCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.schedule = fee.Schedule{}
	c.mu.Unlock()
}
