package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/repository"
)

const (
	queueSize    = 256
	workerCount  = 2
	writeTimeout = 5 * time.Second
)

// Recorder writes audit entries in the background. Record never blocks the
// caller and never surfaces an error: a failed or dropped entry is logged
// and the request that produced it proceeds unaffected.
type Recorder struct {
	store  repository.AuditStore
	logger *zap.Logger

	queue chan *domain.AuditLog
	wg    sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}
}

func NewRecorder(store repository.AuditStore, logger *zap.Logger) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
		queue:  make(chan *domain.AuditLog, queueSize),
		closed: make(chan struct{}),
	}
	for i := 0; i < workerCount; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Record enqueues an entry for asynchronous persistence. If the queue is
// full the entry is dropped rather than stalling the request path. Callers
// must not Record after Close; the server is stopped before the recorder.
func (r *Recorder) Record(entry *domain.AuditLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	select {
	case <-r.closed:
		r.logger.Warn("audit entry dropped, recorder closed", zap.String("action", entry.Action))
		return
	default:
	}

	select {
	case r.queue <- entry:
	default:
		r.logger.Warn("audit entry dropped, queue full", zap.String("action", entry.Action))
	}
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for entry := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := r.store.Insert(ctx, entry); err != nil {
			r.logger.Error("failed to persist audit entry",
				zap.String("action", entry.Action),
				zap.String("user_id", entry.UserID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close drains the queue and stops the workers.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
		close(r.queue)
	})
	r.wg.Wait()
}
