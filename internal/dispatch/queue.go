// Package dispatch carries scheduler-emitted commands to the consuming
// loop through a bounded in-process queue. The scheduler never blocks on
// a slow consumer: a full queue refuses the dispatch and the condition is
// logged.
package dispatch

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/autocore/internal/logger"
)

var (
	// ErrQueueFull is returned when the consumer is not keeping up.
	ErrQueueFull = errors.New("dispatch queue is full")
	// ErrQueueClosed is returned after Close.
	ErrQueueClosed = errors.New("dispatch queue is closed")
)

// Dispatch is one command emitted by the scheduler.
type Dispatch struct {
	ID         string // unique dispatch identifier
	Command    string // "status", "heartbeat_run", "reminder_run", or a cron command
	EnqueuedAt time.Time
}

// Queue is a bounded FIFO of dispatches. Publish and Close are called
// from the single tick loop; C may be consumed from another goroutine.
type Queue struct {
	ch     chan Dispatch
	log    *logger.Logger
	closed bool
}

// NewQueue creates a queue with the given capacity.
func NewQueue(capacity int, log *logger.Logger) *Queue {
	if capacity <= 0 {
		capacity = 16
	}
	return &Queue{
		ch:  make(chan Dispatch, capacity),
		log: log,
	}
}

// Publish enqueues a command. It never blocks; a full queue is an error
// the caller may ignore (the timer reschedules regardless).
func (q *Queue) Publish(command string) error {
	if q.closed {
		return ErrQueueClosed
	}

	d := Dispatch{
		ID:         uuid.NewString(),
		Command:    command,
		EnqueuedAt: time.Now(),
	}

	select {
	case q.ch <- d:
		q.log.Debug("dispatch enqueued",
			logger.Field{Key: "id", Value: d.ID},
			logger.Field{Key: "command", Value: command})
		return nil
	default:
		q.log.Warn("dispatch queue full, dropping command",
			logger.Field{Key: "command", Value: command},
			logger.Field{Key: "capacity", Value: cap(q.ch)})
		return ErrQueueFull
	}
}

// C returns the consumer channel.
func (q *Queue) C() <-chan Dispatch {
	return q.ch
}

// Close stops the queue. Pending dispatches remain readable until
// drained.
func (q *Queue) Close() {
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
