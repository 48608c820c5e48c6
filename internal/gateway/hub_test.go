package gateway

import (
	"testing"
	"time"
)

func TestHubDeliversToRunSubscribers(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("run-1")
	defer cancel()

	h.Publish(ProgressEvent{RunID: "run-1", Task: "skills_agent", Status: "started"})

	select {
	case ev := <-ch:
		if ev.Task != "skills_agent" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestHubIsolatesRuns(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("run-1")
	defer cancel()

	h.Publish(ProgressEvent{RunID: "run-2", Task: "other", Status: "started"})

	select {
	case ev := <-ch:
		t.Fatalf("event leaked across runs: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("run-1")
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}
	// Publishing after cancel must not panic.
	h.Publish(ProgressEvent{RunID: "run-1"})
}

func TestHubPublishNeverBlocks(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe("run-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h.Publish(ProgressEvent{RunID: "run-1", Stage: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
