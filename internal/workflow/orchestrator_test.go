package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resumeforge/internal/agent"
)

// stubInvoker runs a per-task function instead of an LLM call.
type stubInvoker struct {
	handlers map[string]func(ctx context.Context, input map[string]any) (agent.Event, error)
}

func (s *stubInvoker) Invoke(ctx context.Context, spec agent.Spec, input map[string]any) (<-chan agent.Event, error) {
	h, ok := s.handlers[spec.Name]
	if !ok {
		return nil, errors.New("no handler for " + spec.Name)
	}
	ch := make(chan agent.Event, 1)
	go func() {
		defer close(ch)
		ev, err := h(ctx, input)
		if err != nil {
			return
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}

func structured(field string, v any) func(context.Context, map[string]any) (agent.Event, error) {
	return func(context.Context, map[string]any) (agent.Event, error) {
		return agent.Event{Final: true, Structured: map[string]any{field: v}}, nil
	}
}

func TestExecuteCollectsFragmentsByField(t *testing.T) {
	inv := &stubInvoker{handlers: map[string]func(context.Context, map[string]any) (agent.Event, error){
		"a": structured("a", "one"),
		"b": structured("b", "two"),
	}}
	g, err := NewGraph(
		Task{Name: "a", Field: "a", Spec: agent.Spec{Name: "a"}},
		Task{Name: "b", Field: "b", Spec: agent.Spec{Name: "b"}},
	)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}

	orch := NewOrchestrator(inv, time.Second, nil)
	res, err := orch.Execute(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.State != StateCompleted {
		t.Fatalf("expected COMPLETED, got %s", res.State)
	}
	if len(res.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %v", res.Fragments)
	}
}

func TestExecuteLaterStageSeesEarlierFragments(t *testing.T) {
	var mu sync.Mutex
	var sawEarlier bool

	inv := &stubInvoker{handlers: map[string]func(context.Context, map[string]any) (agent.Event, error){
		"first":  structured("first", "value"),
		"second": structured("second", "value"),
	}}
	g, err := NewGraph(
		Task{Name: "first", Field: "first", Spec: agent.Spec{Name: "first"}},
		Task{Name: "second", Field: "second", Spec: agent.Spec{Name: "second"}, DependsOn: []string{"first"}},
	)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}

	input := func(task Task, fragments map[string]any) map[string]any {
		if task.Name == "second" {
			mu.Lock()
			_, sawEarlier = fragments["first"]
			mu.Unlock()
		}
		return fragments
	}

	orch := NewOrchestrator(inv, time.Second, nil)
	if _, err := orch.Execute(context.Background(), g, input); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !sawEarlier {
		t.Fatal("second stage should see the first stage's fragment")
	}
}

func TestExecuteIsolatesTaskFailures(t *testing.T) {
	inv := &stubInvoker{handlers: map[string]func(context.Context, map[string]any) (agent.Event, error){
		"good": structured("good", "value"),
		"bad": func(context.Context, map[string]any) (agent.Event, error) {
			return agent.Event{}, errors.New("boom")
		},
	}}
	g, err := NewGraph(
		Task{Name: "good", Field: "good", Spec: agent.Spec{Name: "good"}},
		Task{Name: "bad", Field: "bad", Spec: agent.Spec{Name: "bad"}},
	)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}

	orch := NewOrchestrator(inv, time.Second, nil)
	res, err := orch.Execute(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.State != StateCompleted {
		t.Fatalf("expected COMPLETED, got %s", res.State)
	}
	if _, ok := res.Fragments["good"]; !ok {
		t.Fatal("sibling fragment should survive a failure")
	}
	if _, ok := res.Fragments["bad"]; ok {
		t.Fatal("failed task must not produce a fragment")
	}
	if _, ok := res.Failures["bad"]; !ok {
		t.Fatal("failure should be recorded")
	}
}

func TestExecuteDeadlineKeepsCollectedFragments(t *testing.T) {
	inv := &stubInvoker{handlers: map[string]func(context.Context, map[string]any) (agent.Event, error){
		"fast": structured("fast", "value"),
		"slow": func(ctx context.Context, _ map[string]any) (agent.Event, error) {
			select {
			case <-time.After(5 * time.Second):
				return agent.Event{Final: true, Structured: map[string]any{"slow": "late"}}, nil
			case <-ctx.Done():
				return agent.Event{}, ctx.Err()
			}
		},
	}}
	g, err := NewGraph(
		Task{Name: "fast", Field: "fast", Spec: agent.Spec{Name: "fast"}},
		Task{Name: "slow", Field: "slow", Spec: agent.Spec{Name: "slow"}},
	)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}

	orch := NewOrchestrator(inv, 100*time.Millisecond, nil)
	res, err := orch.Execute(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.State != StateTimedOut {
		t.Fatalf("expected TIMED_OUT, got %s", res.State)
	}
	if _, ok := res.Fragments["fast"]; !ok {
		t.Fatal("fragments collected before the deadline should survive")
	}
}

func TestExecuteDeadlineWithNothingCollected(t *testing.T) {
	inv := &stubInvoker{handlers: map[string]func(context.Context, map[string]any) (agent.Event, error){
		"slow": func(ctx context.Context, _ map[string]any) (agent.Event, error) {
			<-ctx.Done()
			return agent.Event{}, ctx.Err()
		},
	}}
	g, err := NewGraph(Task{Name: "slow", Field: "slow", Spec: agent.Spec{Name: "slow"}})
	if err != nil {
		t.Fatalf("graph: %v", err)
	}

	orch := NewOrchestrator(inv, 50*time.Millisecond, nil)
	res, err := orch.Execute(context.Background(), g, nil)
	if !errors.Is(err, ErrNoFragments) {
		t.Fatalf("expected ErrNoFragments, got %v", err)
	}
	if res.State != StateTimedOut {
		t.Fatalf("expected TIMED_OUT, got %s", res.State)
	}
}

func TestExecuteCallerCancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inv := &stubInvoker{handlers: map[string]func(context.Context, map[string]any) (agent.Event, error){
		"slow": func(tctx context.Context, _ map[string]any) (agent.Event, error) {
			cancel()
			<-tctx.Done()
			return agent.Event{}, tctx.Err()
		},
	}}
	g, err := NewGraph(Task{Name: "slow", Field: "slow", Spec: agent.Spec{Name: "slow"}})
	if err != nil {
		t.Fatalf("graph: %v", err)
	}

	orch := NewOrchestrator(inv, time.Minute, nil)
	res, err := orch.Execute(ctx, g, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.State == StateTimedOut {
		t.Fatal("caller cancellation must not be reported as TIMED_OUT")
	}
}

func TestProgressNotifications(t *testing.T) {
	inv := &stubInvoker{handlers: map[string]func(context.Context, map[string]any) (agent.Event, error){
		"a": structured("a", "one"),
	}}
	g, err := NewGraph(Task{Name: "a", Field: "a", Spec: agent.Spec{Name: "a"}})
	if err != nil {
		t.Fatalf("graph: %v", err)
	}

	var mu sync.Mutex
	var statuses []string
	orch := NewOrchestrator(inv, time.Second, nil)
	orch.OnEvent = func(_ int, _ string, status string) {
		mu.Lock()
		statuses = append(statuses, status)
		mu.Unlock()
	}
	if _, err := orch.Execute(context.Background(), g, nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(statuses) != 2 || statuses[0] != "started" || statuses[1] != "finished" {
		t.Fatalf("unexpected progress sequence: %v", statuses)
	}
}
