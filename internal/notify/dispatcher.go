package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// DispatcherConfig tunes the worker pool.
type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher queues messages and sends them from worker goroutines.
// A full queue drops the message; failures are logged and counted.
type Dispatcher struct {
	sender  Sender
	log     logrus.FieldLogger
	timeout time.Duration

	queue chan Message
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher starts cfg.Workers goroutines. Call Close to stop them.
func NewDispatcher(sender Sender, cfg DispatcherConfig, logger logrus.FieldLogger) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	d := &Dispatcher{
		sender:  sender,
		log:     logger.WithField("component", "notify"),
		timeout: cfg.SendTimeout,
		queue:   make(chan Message, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue schedules msgs for delivery. Messages without a recipient are skipped.
func (d *Dispatcher) Enqueue(msgs ...Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, msg := range msgs {
		if msg.To == "" {
			d.log.WithField("subject", msg.Subject).Warn(errNoRecipient.Error())
			continue
		}
		if d.closed {
			d.dropped.Add(1)
			d.log.WithField("subject", msg.Subject).Warn("notification dropped: dispatcher closed")
			continue
		}
		select {
		case d.queue <- msg:
		default:
			d.dropped.Add(1)
			d.log.WithFields(logrus.Fields{
				"to":      msg.To,
				"subject": msg.Subject,
			}).Error("notification dropped: queue full")
		}
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := d.sender.Send(ctx, msg); err != nil {
		d.failed.Add(1)
		d.log.WithError(err).WithFields(logrus.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
		}).Error("failed to send notification")
		return
	}
	d.sent.Add(1)
	d.log.WithFields(logrus.Fields{
		"to":          msg.To,
		"subject":     msg.Subject,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("notification sent")
}

// Stats reports delivery counters.
func (d *Dispatcher) Stats() (sent, failed, dropped int64) {
	return d.sent.Load(), d.failed.Load(), d.dropped.Load()
}

// Close stops accepting messages and waits for queued ones to be sent,
// giving up when ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.log.WithField("pending", len(d.queue)).Warn("notification queue not drained before shutdown")
		return ctx.Err()
	}
}
