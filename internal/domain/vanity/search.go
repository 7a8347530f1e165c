package vanity

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/blocto/solana-go-sdk/types"
)

const (
	// DefaultMaxAttempts caps the grind before it reports Exhausted.
	DefaultMaxAttempts = 1_000_000
	// YieldInterval is the attempt batch after which the grind yields the
	// scheduler and re-checks cancellation.
	YieldInterval = 10_000
)

// Status is the observable state of a search job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusFound     Status = "found"
	StatusExhausted Status = "exhausted"
	StatusCancelled Status = "cancelled"
)

// Snapshot is one Poll result.
type Snapshot struct {
	Status   Status
	Attempts uint64
	// KeyPair is set only when Status == StatusFound.
	KeyPair *types.Account
}

// Job is one mutable search run. A job runs until match, cap or
// cancellation; starting a new search for a workflow discards the old job.
type Job struct {
	prefix string
	suffix string
	max    uint64

	attempts  atomic.Uint64
	cancelled atomic.Bool

	mu     sync.Mutex
	status Status
	found  *types.Account
	done   chan struct{}
}

// Searcher owns search configuration. The zero value uses the defaults.
type Searcher struct {
	// MaxAttempts overrides DefaultMaxAttempts when non-zero (tests use a
	// small cap).
	MaxAttempts uint64
}

// Start validates the constraint and launches the grind. Validation fails
// fast: an over-long constraint never runs a single iteration.
func (s Searcher) Start(c Constraint) (*Job, error) {
	prefix, suffix, err := c.Normalize()
	if err != nil {
		return nil, err
	}

	max := s.MaxAttempts
	if max == 0 {
		max = DefaultMaxAttempts
	}

	j := &Job{
		prefix: prefix,
		suffix: suffix,
		max:    max,
		status: StatusRunning,
		done:   make(chan struct{}),
	}
	go j.run()
	return j, nil
}

// Poll returns the current state. After Cancel the job can never report
// Found, even if a match was about to land.
func (j *Job) Poll() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := Snapshot{Status: j.status, Attempts: j.attempts.Load()}
	if j.status == StatusFound {
		snap.KeyPair = j.found
	}
	return snap
}

// Cancel requests a cooperative stop. The grind observes the flag at the
// next yield point; Cancel itself settles the status immediately so a
// subsequent Poll never races into Found.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
	j.mu.Lock()
	if j.status == StatusRunning {
		j.status = StatusCancelled
	}
	j.mu.Unlock()
}

// Done closes when the grind goroutine has stopped, whatever the outcome.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) run() {
	defer close(j.done)

	for j.attempts.Load() < j.max {
		if j.cancelled.Load() {
			return
		}

		candidate := types.NewAccount()
		n := j.attempts.Add(1)

		if Matches(candidate.PublicKey.ToBase58(), j.prefix, j.suffix) {
			j.settle(StatusFound, &candidate)
			return
		}

		if n%YieldInterval == 0 {
			runtime.Gosched()
		}
	}
	j.settle(StatusExhausted, nil)
}

// settle transitions Running → terminal. A cancelled job stays cancelled:
// the match result is discarded.
func (j *Job) settle(st Status, found *types.Account) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		return
	}
	j.status = st
	j.found = found
}
