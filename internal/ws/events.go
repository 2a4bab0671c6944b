package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// jobEventsChannel carries pipeline progress from workers to every server
// instance, so watchers see updates no matter which node runs the job.
const jobEventsChannel = "job_events"

var rdbClient *redis.Client

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// ProgressEvent is one pipeline progress update for a run.
type ProgressEvent struct {
	Type    string  `json:"type"`
	RunID   string  `json:"run_id"`
	Stage   string  `json:"stage"`
	Message string  `json:"message,omitempty"`
	Percent float64 `json:"percent,omitempty"`
}

// PublishProgress pushes an event through Redis. Callers on the worker side
// use this; the subscriber fans it out to websocket watchers.
func PublishProgress(ctx context.Context, ev ProgressEvent) {
	if rdbClient == nil {
		// Single-process mode: deliver directly.
		GameHub.BroadcastToRun(ev.RunID, ev)
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[WS] Failed to marshal progress event: %v", err)
		return
	}
	if err := rdbClient.Publish(ctx, jobEventsChannel, payload).Err(); err != nil {
		log.Printf("[WS] Failed to publish progress event: %v", err)
	}
}

// StartJobEventSubscriber subscribes to the job_events channel and fans
// incoming events out to the run's watchers.
func StartJobEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; job event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, jobEventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] job_events subscriber started")
		for msg := range ch {
			var ev ProgressEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}
			if ev.RunID == "" {
				continue
			}
			GameHub.BroadcastToRun(ev.RunID, ev)
		}
	}()
}
