package generator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultQueueSize = 64

// Worker runs generation attempts off a queue so HTTP handlers and the
// detection pipeline never wait on a provider call. It also implements the
// delayed scheduling used by auto-generation.
type Worker struct {
	svc    *Service
	tasks  chan uuid.UUID
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewWorker(svc *Service, logger *slog.Logger) *Worker {
	return &Worker{
		svc:    svc,
		tasks:  make(chan uuid.UUID, defaultQueueSize),
		logger: logger,
	}
}

// Start launches n goroutines draining the queue. They stop when ctx is
// canceled; Wait blocks until they have all returned.
func (w *Worker) Start(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case eventID := <-w.tasks:
			if _, err := w.svc.Generate(ctx, eventID); err != nil {
				w.logger.Error("background generation failed", "event_id", eventID, "error", err)
			}
		}
	}
}

// Submit queues an event for generation. Returns false when the queue is
// full; the event stays pending and can be retried through the API.
func (w *Worker) Submit(eventID uuid.UUID) bool {
	select {
	case w.tasks <- eventID:
		return true
	default:
		w.logger.Warn("generation queue full, dropping task", "event_id", eventID)
		return false
	}
}

// Schedule queues the event after the delay. Used by auto-generation so the
// detection request itself returns immediately.
func (w *Worker) Schedule(eventID uuid.UUID, delay time.Duration) {
	if delay <= 0 {
		w.Submit(eventID)
		return
	}
	time.AfterFunc(delay, func() { w.Submit(eventID) })
}

func (w *Worker) Wait() {
	w.wg.Wait()
}
