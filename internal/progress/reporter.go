// Package progress defines the wire model for job progress events and the
// Reporter that fans them out to streaming sessions.
package progress

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives encoded events for delivery. *ws.Registry implements it.
type Sink interface {
	Broadcast(payload []byte)
}

// Reporter turns job lifecycle calls into broadcast events. Reporting is
// fire-and-forget: events are enqueued on a bounded channel drained by a
// single dispatcher goroutine, so a slow fan-out never stalls the job.
// When the queue is full the event is dropped and logged.
type Reporter struct {
	sink   Sink
	logger *zap.Logger

	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

const defaultQueueSize = 256

// NewReporter starts a reporter draining into sink. Call Close to stop the
// dispatcher goroutine.
func NewReporter(sink Sink, logger *zap.Logger) *Reporter {
	r := &Reporter{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, defaultQueueSize),
		done:   make(chan struct{}),
	}
	go r.dispatch()
	return r
}

// Progress reports a job milestone. Never blocks and never fails, even with
// zero registered sessions.
func (r *Reporter) Progress(percent float64, message string) {
	r.enqueue(NewProgress(percent, message))
}

// Error reports a job failure to all listeners.
func (r *Reporter) Error(message string) {
	r.enqueue(NewError(message))
}

func (r *Reporter) enqueue(ev Event) {
	select {
	case r.queue <- ev:
	case <-r.done:
	default:
		r.logger.Warn("progress queue full, dropping event",
			zap.String("type", ev.Type))
	}
}

func (r *Reporter) dispatch() {
	for {
		select {
		case ev := <-r.queue:
			r.sink.Broadcast(ev.Encode())
		case <-r.done:
			// Drain whatever was enqueued before Close.
			for {
				select {
				case ev := <-r.queue:
					r.sink.Broadcast(ev.Encode())
				default:
					return
				}
			}
		}
	}
}

// Close stops the dispatcher after draining pending events. Safe to call
// more than once.
func (r *Reporter) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}
