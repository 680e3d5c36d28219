package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"sullendaAPI/internal/notification"
)

// ErrPushDropped is returned when a job cannot be queued.
var ErrPushDropped = errors.New("push dropped")

type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type PushJob struct {
	Push   notification.Push
	Tokens []notification.DeviceToken
}

// PushDispatcher sends pushes on a fixed pool of workers so request handlers
// never wait on FCM.
type PushDispatcher struct {
	log      *zap.Logger
	workers  int
	jobQueue chan *PushJob
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu       sync.RWMutex
	provider PushProvider
	stopOnce sync.Once
}

func NewPushDispatcher(log *zap.Logger, workers, queueSize int) *PushDispatcher {
	d := &PushDispatcher{
		log:      log,
		workers:  workers,
		jobQueue: make(chan *PushJob, queueSize),
		stopChan: make(chan struct{}),
	}
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

func (d *PushDispatcher) SetPushProvider(provider PushProvider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.provider = provider
}

func (d *PushDispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.process(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *PushDispatcher) process(job *PushJob) {
	d.mu.RLock()
	provider := d.provider
	d.mu.RUnlock()

	kind := string(job.Push.Kind)
	if provider == nil {
		d.log.Debug("Skipping push, no provider", zap.String("kind", kind))
		pushesSent.WithLabelValues(kind, "skipped").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := provider.SendPush(ctx, job.Tokens, job.Push.Title, job.Push.Body, job.Push.Data); err != nil {
		d.log.Warn("Push failed",
			zap.String("owner_id", job.Push.OwnerID),
			zap.String("kind", kind),
			zap.Error(err),
		)
		pushesSent.WithLabelValues(kind, "failed").Inc()
		return
	}
	pushesSent.WithLabelValues(kind, "sent").Inc()
}

// Dispatch queues job. It gives up when the queue stays full for 5 seconds,
// when ctx ends first or after Stop, returning ErrPushDropped.
func (d *PushDispatcher) Dispatch(ctx context.Context, job *PushJob) error {
	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()

	var reason string
	select {
	case d.jobQueue <- job:
		return nil
	case <-d.stopChan:
		reason = "dispatcher stopped"
	case <-ctx.Done():
		reason = ctx.Err().Error()
	case <-timer.C:
		reason = "queue full"
	}

	d.log.Warn("Dropping push job",
		zap.String("owner_id", job.Push.OwnerID),
		zap.String("kind", string(job.Push.Kind)),
		zap.String("reason", reason),
	)
	pushesSent.WithLabelValues(string(job.Push.Kind), "dropped").Inc()
	return fmt.Errorf("%w: %s", ErrPushDropped, reason)
}

func (d *PushDispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.log.Info("Stopping push dispatcher...")
		close(d.stopChan)
		d.wg.Wait()
		d.log.Info("Push dispatcher stopped")
	})
}
