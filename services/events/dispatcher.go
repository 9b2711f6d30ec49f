package events

import (
	"Tombola/services/game"
	"Tombola/utils/logger"
	"context"
	"errors"
	"sync"
)

type namedSink struct {
	name string
	sink game.Sink
}

// Dispatcher fans engine batches out to sinks. Sync sinks (the socket.io
// transport) run inside Publish, in registration order. Async sinks (mirrors,
// archive, feeds) run on one worker, so they see batches in the same order,
// and are skipped when the queue is full.
type Dispatcher struct {
	syncSinks  []namedSink
	asyncSinks []namedSink

	queue   chan game.Batch
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	dropped int
}

func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		queue:  make(chan game.Batch, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (d *Dispatcher) AddSync(name string, s game.Sink) {
	d.syncSinks = append(d.syncSinks, namedSink{name, s})
}

func (d *Dispatcher) AddAsync(name string, s game.Sink) {
	d.asyncSinks = append(d.asyncSinks, namedSink{name, s})
}

// Start launches the async worker. Sinks must be added before.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || len(d.asyncSinks) == 0 {
		return
	}
	d.started = true
	d.wg.Add(1)
	go d.worker()
}

// worker stops on d.ctx, but sinks get a context that outlives it so the
// batches drained on Close are still written.
func (d *Dispatcher) worker() {
	defer d.wg.Done()
	ctx := context.WithoutCancel(d.ctx)
	for {
		select {
		case <-d.ctx.Done():
			// deliver what is already queued, then stop
			for {
				select {
				case b := <-d.queue:
					d.deliver(ctx, b)
				default:
					return
				}
			}
		case b := <-d.queue:
			d.deliver(ctx, b)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, b game.Batch) {
	for _, s := range d.asyncSinks {
		if err := s.sink.Publish(ctx, b); err != nil {
			logger.Errorf("[SINK-ERROR] %s room %s: %v", s.name, b.RoomCode, err)
		}
	}
}

// Publish implements game.Sink.
func (d *Dispatcher) Publish(ctx context.Context, b game.Batch) error {
	var errs []error
	for _, s := range d.syncSinks {
		if err := s.sink.Publish(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}

	d.mu.RLock()
	started := d.started
	d.mu.RUnlock()
	if started {
		select {
		case d.queue <- b:
		default:
			d.mu.Lock()
			d.dropped++
			dropped := d.dropped
			d.mu.Unlock()
			logger.Warnf("[DISPATCH] async queue full, room %s batch dropped (%d total)", b.RoomCode, dropped)
		}
	}
	return errors.Join(errs...)
}

// Dropped counts batches skipped by the async sinks.
func (d *Dispatcher) Dropped() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dropped
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
