package server

import (
	"encoding/json"
	"sync"

	"github.com/decred/slog"
	"github.com/sixpeteunder/Karata/internal/karata"
)

// EventProcessor decouples karata.Orchestrator's event emission from
// broadcast delivery: Publish enqueues, a worker pool drains the queue
// and fans each event out to subscriber streams. Collapsed to a single
// handler stage (broadcast) since persistence already has its own
// boundary (karata.PersistFunc) and Karata has no separate "game
// state" projection to maintain beyond the snapshot itself.
type EventProcessor struct {
	server   *Server
	log      slog.Logger
	queue    chan karata.Event
	workers  []*eventWorker
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

type eventWorker struct {
	id        int
	processor *EventProcessor
}

// NewEventProcessor creates a processor with queueSize buffered slots
// serviced by workerCount goroutines.
func NewEventProcessor(srv *Server, queueSize, workerCount int) *EventProcessor {
	p := &EventProcessor{
		server:   srv,
		log:      srv.log,
		queue:    make(chan karata.Event, queueSize),
		stopChan: make(chan struct{}),
	}
	p.workers = make([]*eventWorker, workerCount)
	for i := range p.workers {
		p.workers[i] = &eventWorker{id: i, processor: p}
	}
	return p
}

// Start launches the worker pool. Safe to call once; a second call is
// a no-op.
func (p *EventProcessor) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.log.Infof("starting event processor with %d workers", len(p.workers))
	for _, w := range p.workers {
		p.wg.Add(1)
		go w.run()
	}
}

// Stop signals every worker to return, and waits for them. Events still
// in the queue when the workers return are not delivered.
func (p *EventProcessor) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()

	close(p.stopChan)
	p.wg.Wait()
}

// Publish implements karata.EventSink. It must not block on delivery:
// a full queue drops the event and logs, rather than stalling the
// orchestrator holding the turn lock.
func (p *EventProcessor) Publish(e karata.Event) {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		p.log.Warnf("event processor not started, dropping event %s for room %s", e.Type, e.RoomID)
		return
	}
	select {
	case p.queue <- e:
	default:
		p.log.Errorf("event queue full, dropping event %s for room %s", e.Type, e.RoomID)
	}
}

func (w *eventWorker) run() {
	defer w.processor.wg.Done()
	for {
		select {
		case <-w.processor.stopChan:
			return
		case e := <-w.processor.queue:
			w.processor.server.broadcast(e)
		}
	}
}

// marshalSnapshot is the JSON encoding used for database persistence of
// a game snapshot.
func marshalSnapshot(snap karata.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}
