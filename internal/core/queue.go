package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// ErrQueueFull is returned when the run queue cannot accept more work.
var ErrQueueFull = errors.New("import queue is full, please try again later")

// maxRunHistory bounds how many finished runs Status can still report.
const maxRunHistory = 100

// EntityAll is the status entity of a run that imports every entity.
const EntityAll = "all"

// Runner executes import runs. RunAll stops at the first fatal error.
type Runner interface {
	Run(ctx context.Context, opts RunOptions) (*RunResult, error)
	RunAll(ctx context.Context, opts RunOptions) ([]*RunResult, error)
}

// RunStatus is the externally visible state of a queued run.
type RunStatus struct {
	RunID      string       `json:"run_id"`
	Entity     string       `json:"entity"`
	Phase      RunPhase     `json:"phase"`
	Error      string       `json:"error,omitempty"`
	Result     *RunResult   `json:"result,omitempty"`
	Results    []*RunResult `json:"results,omitempty"`
	QueuedAt   time.Time    `json:"queued_at"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

// Queue feeds runs to a single worker, so runs started through it never
// overlap regardless of how many requests arrive.
type Queue struct {
	runner Runner
	jobs   chan RunOptions

	mu    sync.RWMutex
	runs  map[string]*RunStatus
	order []string

	wg sync.WaitGroup
}

// NewQueue creates a queue that holds up to size pending runs.
func NewQueue(r Runner, size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		runner: r,
		jobs:   make(chan RunOptions, size),
		runs:   make(map[string]*RunStatus),
	}
}

// Start launches the worker. It stops when ctx is done; a run in progress
// sees the cancellation between batches.
func (q *Queue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case opts := <-q.jobs:
				q.execute(ctx, opts)
			}
		}
	}()
}

// Wait blocks until the worker has exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Submit enqueues a run and returns its initial status. With opts.All set
// the whole import is one job, so it is either queued completely or not
// at all.
func (q *Queue) Submit(opts RunOptions) (RunStatus, error) {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	entity := opts.Entity
	if opts.All {
		entity = EntityAll
	}
	status := &RunStatus{
		RunID:    opts.RunID,
		Entity:   entity,
		Phase:    PhaseQueued,
		QueuedAt: time.Now(),
	}

	q.mu.Lock()
	q.remember(status)
	snapshot := *status
	q.mu.Unlock()

	select {
	case q.jobs <- opts:
		return snapshot, nil
	default:
		q.mu.Lock()
		q.forget(opts.RunID)
		q.mu.Unlock()
		return RunStatus{}, ErrQueueFull
	}
}

// Status returns a copy of a run's status.
func (q *Queue) Status(runID string) (RunStatus, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	st, ok := q.runs[runID]
	if !ok {
		return RunStatus{}, false
	}
	return *st, true
}

// Pending returns the number of runs waiting for the worker.
func (q *Queue) Pending() int {
	return len(q.jobs)
}

func (q *Queue) execute(ctx context.Context, opts RunOptions) {
	entity := opts.Entity
	if opts.All {
		entity = EntityAll
	}
	logger := logging.WithFields(logging.WithRunID(ctx, opts.RunID), "entity", entity)
	q.update(opts.RunID, func(st *RunStatus) {
		now := time.Now()
		st.Phase = PhaseRunning
		st.StartedAt = &now
	})
	logger.Info("queued import started")

	var (
		result  *RunResult
		results []*RunResult
		err     error
	)
	if opts.All {
		results, err = q.runner.RunAll(ctx, opts)
	} else {
		result, err = q.runner.Run(ctx, opts)
	}

	q.update(opts.RunID, func(st *RunStatus) {
		now := time.Now()
		st.FinishedAt = &now
		st.Result = result
		st.Results = results
		if err != nil {
			st.Phase = PhaseFailed
			st.Error = FormatUserError(err)
			return
		}
		st.Phase = PhaseComplete
	})
}

func (q *Queue) update(runID string, fn func(*RunStatus)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if st, ok := q.runs[runID]; ok {
		fn(st)
	}
}

// remember stores status, evicting the oldest finished runs past the limit.
// Callers hold q.mu.
func (q *Queue) remember(status *RunStatus) {
	q.runs[status.RunID] = status
	q.order = append(q.order, status.RunID)

	for len(q.order) > maxRunHistory {
		evicted := false
		for i, id := range q.order {
			st := q.runs[id]
			if st.Phase == PhaseComplete || st.Phase == PhaseFailed {
				delete(q.runs, id)
				q.order = append(q.order[:i], q.order[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return
		}
	}
}

// forget removes a run that never made it into the queue. Callers hold q.mu.
func (q *Queue) forget(runID string) {
	delete(q.runs, runID)
	for i, id := range q.order {
		if id == runID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}
