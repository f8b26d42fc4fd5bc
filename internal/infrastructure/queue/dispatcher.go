package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/groomly/platform-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes identity events to a fixed set of workers using
// consistent hashing on the session id. Events for one session always land
// on the same worker, so the controller observes them in emission order
// (the property its generation counting depends on) while sessions on
// different shards hydrate concurrently.
type Dispatcher struct {
	workers []chan ports.AuthEventInput
	auth    ports.AuthStateService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, auth ports.AuthStateService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuthEventInput, numWorkers),
		auth:    auth,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuthEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its session.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.AuthEventInput) {
	d.workers[d.shardIndex(event.SessionID)] <- event
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuthEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.log.Debug().
				Str("session_id", event.SessionID).
				Str("event", string(event.Event)).
				Int("worker_id", id).
				Msg("dispatching auth event")
			d.auth.OnAuthEvent(ctx, event.SessionID, event.Event, event.Identity)
		}
	}
}
