package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"resumeforge/internal/agent"
)

// State is the lifecycle of one workflow run.
type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateRunning:
		return "RUNNING"
	case StateCompleted:
		return "COMPLETED"
	case StateTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// ErrNoFragments is returned when the deadline fired before any task
// produced output; there is nothing to assemble.
var ErrNoFragments = errors.New("workflow: deadline exceeded with no fragments collected")

// DefaultDeadline bounds a whole run, not individual tasks.
const DefaultDeadline = 60 * time.Second

// InputFunc builds one task's invocation input. Fragments collected by
// earlier stages are visible, so later stages can build on them.
type InputFunc func(task Task, fragments map[string]any) map[string]any

// Progress receives task lifecycle notifications; optional.
type Progress func(stage int, task string, status string)

// Result is the outcome of a run. Both terminal states feed the same
// downstream path: Fragments go to the schema assembler either way.
type Result struct {
	State     State
	Fragments map[string]any
	Failures  map[string]error
	StartedAt time.Time
	Took      time.Duration
}

// Orchestrator executes graphs against an Invoker.
type Orchestrator struct {
	Invoker  agent.Invoker
	Deadline time.Duration
	Logger   *zap.Logger
	OnEvent  Progress
}

func NewOrchestrator(inv agent.Invoker, deadline time.Duration, log *zap.Logger) *Orchestrator {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{Invoker: inv, Deadline: deadline, Logger: log}
}

// Execute runs every stage of the graph. Within a stage all tasks fan out
// concurrently; a stage joins before the next starts. One task's failure
// never aborts its siblings: the failure is recorded and that field's
// fragment stays absent. When the run deadline fires mid-stage, collected
// fragments from finished tasks are returned with StateTimedOut. When the
// caller's context is canceled instead, the context error is returned and
// the result is not marked timed out.
//
// A deadline-bound run errors only when it produced nothing at all.
func (o *Orchestrator) Execute(ctx context.Context, g *Graph, input InputFunc) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, o.Deadline)
	defer cancel()

	res := &Result{
		State:     StateRunning,
		Fragments: make(map[string]any),
		Failures:  make(map[string]error),
		StartedAt: time.Now(),
	}
	var mu sync.Mutex

	for si, stage := range g.Stages() {
		// Inputs see only fragments from earlier stages; the snapshot is
		// taken at the stage boundary so concurrent writes never race.
		mu.Lock()
		collected := snapshot(res)
		mu.Unlock()

		eg, stageCtx := errgroup.WithContext(runCtx)
		for _, task := range stage {
			task := task
			eg.Go(func() error {
				o.notify(si, task.Name, "started")
				frag, err := o.runTask(stageCtx, task, input, collected)
				mu.Lock()
				if err != nil {
					res.Failures[task.Name] = err
					mu.Unlock()
					o.notify(si, task.Name, "failed")
					o.Logger.Warn("task failed",
						zap.Int("stage", si), zap.String("task", task.Name), zap.Error(err))
					// Isolation: siblings keep running.
					return nil
				}
				// Write-once per field; each field has exactly one
				// producing task in a well-formed graph.
				res.Fragments[task.Field] = frag
				mu.Unlock()
				o.notify(si, task.Name, "finished")
				return nil
			})
		}
		_ = eg.Wait()

		if runCtx.Err() != nil {
			res.Took = time.Since(res.StartedAt)
			// A caller-canceled run is not a timeout; only the run's own
			// deadline marks the result TIMED_OUT.
			if ctx.Err() != nil {
				o.Logger.Warn("run canceled mid-stage",
					zap.Int("stage", si), zap.Int("fragments", len(res.Fragments)))
				return res, ctx.Err()
			}
			res.State = StateTimedOut
			o.Logger.Warn("run deadline hit mid-stage",
				zap.Int("stage", si), zap.Int("fragments", len(res.Fragments)))
			if len(res.Fragments) == 0 {
				return res, ErrNoFragments
			}
			return res, nil
		}
	}

	res.State = StateCompleted
	res.Took = time.Since(res.StartedAt)
	return res, nil
}

// runTask invokes one task and drains its event stream, retaining only the
// last final event. Structured output is preferred; otherwise the raw text
// is handed onward untouched, since normalization happens downstream.
func (o *Orchestrator) runTask(ctx context.Context, task Task, input InputFunc, collected map[string]any) (any, error) {
	var in map[string]any
	if input != nil {
		in = input(task, collected)
	}
	events, err := o.Invoker.Invoke(ctx, task.Spec, in)
	if err != nil {
		return nil, err
	}

	var final *agent.Event
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if final == nil {
					return nil, errors.New("invocation ended without a final event")
				}
				if final.Structured != nil {
					return final.Structured, nil
				}
				return final.Text, nil
			}
			if ev.Final {
				ev := ev
				final = &ev
			}
		}
	}
}

func (o *Orchestrator) notify(stage int, task, status string) {
	if o.OnEvent != nil {
		o.OnEvent(stage, task, status)
	}
}

func snapshot(res *Result) map[string]any {
	out := make(map[string]any, len(res.Fragments))
	for k, v := range res.Fragments {
		out[k] = v
	}
	return out
}
