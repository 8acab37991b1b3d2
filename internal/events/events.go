// Package events publishes domain notifications after a write commits.
// Delivery is best effort: publishing never fails the operation that
// produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types
const (
	JobCreated             = "job.created"
	JobStatusChanged       = "job.status_changed"
	CandidateCreated       = "candidate.created"
	CandidateStatusChanged = "candidate.status_changed"
	ApplicationSubmitted   = "application.submitted"
)

// Event is the JSON payload published for every domain change
type Event struct {
	Type    string            `json:"type"`
	At      time.Time         `json:"at"`
	ActorID string            `json:"actorId,omitempty"`
	Data    map[string]string `json:"data"`
}

// New builds an event stamped with the current time
func New(eventType, actorID string, data map[string]string) Event {
	return Event{Type: eventType, At: time.Now().UTC(), ActorID: actorID, Data: data}
}

// Publisher sends events to subscribers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// RedisPublisher publishes events on a Redis pub/sub channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher for channel
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the type of every published event in order
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
