package usecase

import (
	"errors"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

const defaultFetchWorkers = 64

// FetchPool is the bounded set of goroutines every ranking view fetches on.
type FetchPool struct {
	pool   *ants.Pool
	logger *logging.Logger
}

func NewFetchPool(size int, logger *logging.Logger) (*FetchPool, error) {
	if size <= 0 {
		size = defaultFetchWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("fetchpool")

	pool, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithLogger(antsLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("create fetch pool: %w", err)
	}

	return &FetchPool{pool: pool, logger: logger}, nil
}

// Submit runs task on a free worker and hands its outcome to done exactly once.
// A panic inside task reaches done as an error. When every worker is busy, Submit
// returns ErrFetchPoolBusy and done is never called.
func (p *FetchPool) Submit(task func() error, done func(error)) error {
	err := p.pool.Submit(func() {
		var (
			catcher panics.Catcher
			taskErr error
		)
		catcher.Try(func() {
			taskErr = task()
		})
		if recovered := catcher.Recovered(); recovered != nil {
			p.logger.Error("fetch task panicked", "panic", fmt.Sprint(recovered.Value), "stack", string(recovered.Stack))
			taskErr = crerr.WithHint(crerr.Wrap(recovered.AsError(), "fetch task panicked"), MessageFetchFailed)
		}
		done(taskErr)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ants.ErrPoolOverload) {
		p.logger.Warn("fetch pool saturated", "capacity", p.pool.Cap(), "running", p.pool.Running())
		return crerr.WithHint(fmt.Errorf("%w: %d workers busy", ErrFetchPoolBusy, p.pool.Running()), MessagePoolBusy)
	}
	return crerr.WithHint(fmt.Errorf("submit fetch task: %w", err), MessageFetchFailed)
}

func (p *FetchPool) Running() int {
	return p.pool.Running()
}

// Release stops accepting work and waits up to timeout for running tasks.
func (p *FetchPool) Release(timeout time.Duration) error {
	if timeout <= 0 {
		p.pool.Release()
		return nil
	}
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release fetch pool: %w", err)
	}
	return nil
}

type antsLogger struct {
	logger *logging.Logger
}

func (l antsLogger) Printf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
