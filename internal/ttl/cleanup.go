package ttl

import (
	"context"
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/cell"
	"github.com/santimattius/kmp-kvs-storage/internal/logging"
	"github.com/santimattius/kmp-kvs-storage/internal/metrics"
	"github.com/santimattius/kmp-kvs-storage/internal/ttlentry"
)

// CleanupOption configures a CleanupJob at construction.
type CleanupOption func(*CleanupJob)

// WithFinalPass makes Start run one last sweep immediately after ctx is
// cancelled, instead of stopping at the next tick boundary with whatever
// state the store was last left in. Off by default: a cancelled cleanup
// loop leaves expired entries in place until a GetAll call removes them.
func WithFinalPass(enabled bool) CleanupOption {
	return func(j *CleanupJob) { j.finalPass = enabled }
}

// WithCleanupLogger overrides the default logger.
func WithCleanupLogger(l logging.Logger) CleanupOption {
	return func(j *CleanupJob) { j.logger = l }
}

// CleanupJob periodically sweeps expired entries out of a TTL cell so a
// store with many short-lived keys and no readers doesn't grow unbounded.
type CleanupJob struct {
	cell     *cell.PersistentCell[ttlentry.State]
	manager  *Manager
	interval time.Duration
	logger   logging.Logger

	finalPass bool
}

func newCleanupJob(c *cell.PersistentCell[ttlentry.State], manager *Manager, interval time.Duration, opts ...CleanupOption) *CleanupJob {
	job := &CleanupJob{
		cell:     c,
		manager:  manager,
		interval: interval,
		logger:   logging.New("TTL-CLEANUP"),
	}
	for _, opt := range opts {
		opt(job)
	}
	return job
}

// Start runs the sweep loop until ctx is cancelled. It blocks the calling
// goroutine; callers run it via `go job.Start(ctx)`. Errors from a sweep are
// logged and the loop continues rather than exiting, since a single failed
// sweep should not stop future ones.
func (j *CleanupJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if j.finalPass {
				j.sweep(context.Background())
			}
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// sweep removes every currently-expired entry in a single UpdateData call.
// It reads first and only writes if something is actually expired, so an
// idle store isn't rewritten and re-broadcast on every tick.
func (j *CleanupJob) sweep(ctx context.Context) {
	state, err := j.cell.Read(ctx)
	if err != nil {
		j.logger.Errorf("cleanup sweep read failed: %v", err)
		return
	}

	expired := make([]string, 0)
	for key, entry := range state {
		if j.manager.IsExpired(entry.ExpiresAt) {
			expired = append(expired, key)
		}
	}
	if len(expired) == 0 {
		return
	}

	if _, err := j.cell.UpdateData(ctx, func(current ttlentry.State) ttlentry.State {
		next := current.Clone()
		for _, key := range expired {
			delete(next, key)
		}
		return next
	}); err != nil {
		j.logger.Errorf("cleanup sweep failed: %v", err)
		return
	}
	metrics.ObserveCleanup(j.cell.Name(), "periodic", len(expired))
}
