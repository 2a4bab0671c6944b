package ws

import (
	"encoding/json"
	"testing"
)

func TestBroadcastReachesOnlyRunWatchers(t *testing.T) {
	h := NewHub()
	a1 := &Client{runID: "run-a", send: make(chan []byte, 4)}
	a2 := &Client{runID: "run-a", send: make(chan []byte, 4)}
	b := &Client{runID: "run-b", send: make(chan []byte, 4)}
	h.add(a1)
	h.add(a2)
	h.add(b)

	h.BroadcastToRun("run-a", ProgressEvent{Type: "stage", RunID: "run-a", Stage: "render"})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.send:
			var ev ProgressEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ev.Stage != "render" {
				t.Errorf("stage = %q, want render", ev.Stage)
			}
		default:
			t.Fatal("run-a watcher got nothing")
		}
	}

	select {
	case <-b.send:
		t.Error("run-b watcher received a run-a event")
	default:
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	c := &Client{runID: "run-a", send: make(chan []byte, 1)}
	h.add(c)

	// Second send must not block even though nobody is draining.
	h.BroadcastToRun("run-a", ProgressEvent{Stage: "one"})
	h.BroadcastToRun("run-a", ProgressEvent{Stage: "two"})

	if got := len(c.send); got != 1 {
		t.Errorf("buffered messages = %d, want 1", got)
	}
}

func TestRemoveCleansUpRoom(t *testing.T) {
	h := NewHub()
	c := &Client{runID: "run-a", send: make(chan []byte, 1)}
	h.add(c)

	if got := h.Watchers("run-a"); got != 1 {
		t.Fatalf("watchers = %d, want 1", got)
	}

	h.remove(c)
	if got := h.Watchers("run-a"); got != 0 {
		t.Errorf("watchers after remove = %d, want 0", got)
	}

	// Double remove must not panic or close the channel twice.
	h.remove(c)

	if _, open := <-c.send; open {
		t.Error("send channel still open after remove")
	}
}

func TestPublishProgressWithoutRedisDeliversDirectly(t *testing.T) {
	c := &Client{runID: "run-direct", send: make(chan []byte, 1)}
	GameHub.add(c)
	defer GameHub.remove(c)

	PublishProgress(t.Context(), ProgressEvent{Type: "stage", RunID: "run-direct", Stage: "audio"})

	select {
	case raw := <-c.send:
		var ev ProgressEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Stage != "audio" {
			t.Errorf("stage = %q, want audio", ev.Stage)
		}
	default:
		t.Fatal("no direct delivery without redis")
	}
}
