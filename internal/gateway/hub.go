package gateway

import (
	"sync"
)

// ProgressEvent is one task lifecycle notification pushed to websocket
// subscribers of a run.
type ProgressEvent struct {
	RunID  string `json:"runId"`
	Stage  int    `json:"stage"`
	Task   string `json:"task"`
	Status string `json:"status"`
}

// Hub fans progress events out to per-run subscribers. Publishing never
// blocks: a subscriber that stops draining misses events rather than
// stalling the run.
type Hub struct {
	mu   sync.RWMutex
	subs map[string][]chan ProgressEvent
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string][]chan ProgressEvent)}
}

// Subscribe registers a listener for one run. The returned cancel func
// unregisters and closes the channel; call it exactly once.
func (h *Hub) Subscribe(runID string) (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 32)
	h.mu.Lock()
	h.subs[runID] = append(h.subs[runID], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subs[runID]
		for i, c := range subs {
			if c == ch {
				h.subs[runID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
		if len(h.subs[runID]) == 0 {
			delete(h.subs, runID)
		}
	}
	return ch, cancel
}

func (h *Hub) Publish(ev ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[ev.RunID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
