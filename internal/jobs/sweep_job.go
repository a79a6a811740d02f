package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is anything that can drop its own expired entries.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// SweeperFunc adapts a plain function, such as ConfirmGate.Sweep.
type SweeperFunc func(ctx context.Context) int

func (f SweeperFunc) Sweep(ctx context.Context) int {
	return f(ctx)
}

type SweepJob struct {
	sweepers map[string]Sweeper
	timeout  time.Duration
}

func NewSweepJob(sweepers map[string]Sweeper) *SweepJob {
	return &SweepJob{
		sweepers: sweepers,
		timeout:  time.Minute,
	}
}

// Run sweeps every registered store once. A panicking sweeper is logged and
// does not stop the others.
func (j *SweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	for name, s := range j.sweepers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Info("sweeper panicked", "sweeper", name, "panic", r)
				}
			}()
			if n := s.Sweep(ctx); n > 0 {
				slog.Info("swept expired entries", "sweeper", name, "count", n)
			}
		}()
	}
}

// Schedule registers the job on c under spec, e.g. "@every 5m".
func (j *SweepJob) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, j.Run)
}
