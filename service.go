package taskmgr

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/taskmgr/internal/idgen"
	"github.com/viant/taskmgr/model/task"
	"github.com/viant/taskmgr/service/event"
	"github.com/viant/taskmgr/service/messaging"
	"github.com/viant/taskmgr/service/registry"
	"github.com/viant/taskmgr/tracing"
)

// Service is the task orchestration engine: it accepts units of work,
// tracks their lifecycle in the registry, enforces timeouts, retries
// failures with exponential backoff, supports cooperative cancellation and
// reclaims terminal entries after the configured retention window.
type Service struct {
	config    *Config
	registry  *registry.Service
	events    *event.Service
	ownEvents bool
	logger    *logrus.Entry

	// baseCtx parents every task's cancellation handle; cancelling it on
	// Close signals every outstanding task at once.
	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu         sync.Mutex
	timeouts   map[string]*time.Timer
	retentions map[string]*time.Timer

	wg     sync.WaitGroup
	closed atomic.Bool
}

// New creates an engine. The zero-option call uses the in-memory event
// transport and the default retention window.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		registry:   registry.New(),
		timeouts:   make(map[string]*time.Timer),
		retentions: make(map[string]*time.Timer),
	}
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger().WithField("component", "taskmgr")
	}
	if s.config.LogLevel != "" {
		if level, err := logrus.ParseLevel(s.config.LogLevel); err == nil {
			s.logger.Logger.SetLevel(level)
		}
	}
	if s.events == nil {
		vendor := messaging.Vendor(s.config.QueueVendor)
		if vendor == "" {
			vendor = messaging.VendorMemory
		}
		events, err := event.New(vendor, event.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.events = events
		s.ownEvents = true
	}
	s.events.Start()
	s.baseCtx, s.baseCancel = context.WithCancel(context.Background())
	return s, nil
}

// Events exposes the lifecycle event service for subscriptions.
func (s *Service) Events() *event.Service {
	return s.events
}

// StartNew submits a synchronous action and returns its task id immediately.
func (s *Service) StartNew(action func(ctx context.Context), options ...StartOption) (string, error) {
	if action == nil {
		return "", ErrNilWork
	}
	return s.submit(task.NewAction(action), options)
}

// StartNewFunc submits a synchronous, result-bearing function.
func (s *Service) StartNewFunc(fn func(ctx context.Context) interface{}, options ...StartOption) (string, error) {
	if fn == nil {
		return "", ErrNilWork
	}
	return s.submit(task.NewFunc(fn), options)
}

// StartNewAsync submits a context-aware, error-returning action.
func (s *Service) StartNewAsync(fn func(ctx context.Context) error, options ...StartOption) (string, error) {
	if fn == nil {
		return "", ErrNilWork
	}
	return s.submit(task.NewAsyncAction(fn), options)
}

// StartNewAsyncFunc submits a context-aware, result-bearing function.
func (s *Service) StartNewAsyncFunc(fn func(ctx context.Context) (interface{}, error), options ...StartOption) (string, error) {
	if fn == nil {
		return "", ErrNilWork
	}
	return s.submit(task.NewAsyncFunc(fn), options)
}

// submit registers a new task and launches its execution goroutine.
// Submission never blocks on work completion.
func (s *Service) submit(work task.Work, options []StartOption) (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}
	meta := task.Meta{Priority: task.PriorityNormal}
	for _, option := range options {
		option(&meta)
	}
	id := idgen.New()
	ctx, cancel := context.WithCancel(s.baseCtx)
	t := task.New(id, work, meta, ctx, cancel)
	s.registry.Register(t)
	if s.closed.Load() {
		// Close raced the submission; undo and fail fast.
		s.registry.Remove(id)
		cancel()
		return "", ErrClosed
	}
	s.publish(event.NewEvent(event.KindAdded, t.ID, t.Tag, t.Description))
	t.MarkPending()
	s.wg.Add(1)
	go s.execute(t)
	s.logger.WithFields(logrus.Fields{"task": id, "tag": meta.Tag}).Debug("task submitted")
	return id, nil
}

// execute drives one task to its terminal state and fires the terminal
// notification set exactly once.
func (s *Service) execute(t *task.Task) {
	defer s.wg.Done()

	ctx, span := tracing.StartSpan(t.Context(), "task.execute")
	span.WithAttributes(map[string]string{"task.id": t.ID, "task.tag": t.Tag})

	t.Start()
	s.armTimeout(t)
	out := s.runWithRetry(ctx, t)
	s.disarmTimeout(t.ID)

	var cause error
	switch {
	case out.Canceled:
		if t.MarkCanceled() {
			s.logger.WithFields(logrus.Fields{"task": t.ID, "timedOut": t.TimedOut()}).Debug("task canceled")
			s.publish(event.NewEvent(event.KindCompleted, t.ID, t.Tag, t.Description))
			s.publish(event.NewEvent(event.KindCanceled, t.ID, t.Tag, t.Description))
		}
	case out.Err != nil:
		cause = s.aggregate(t, out.Err)
		if t.Fail(cause) {
			s.logger.WithFields(logrus.Fields{"task": t.ID, "retries": t.RetryCount()}).WithError(cause).Error("task faulted")
			s.publish(event.NewEvent(event.KindCompleted, t.ID, t.Tag, t.Description))
			faulted := event.NewEvent(event.KindFaulted, t.ID, t.Tag, t.Description)
			faulted.Cause = cause.Error()
			s.publish(faulted)
		}
	default:
		if t.Complete(out.Value) {
			// a timeout firing in the final stretch of a successful run
			// lands the task in the canceled state, never completed
			if t.State() == task.StateCanceled {
				s.logger.WithFields(logrus.Fields{"task": t.ID, "timedOut": t.TimedOut()}).Debug("task canceled")
				s.publish(event.NewEvent(event.KindCompleted, t.ID, t.Tag, t.Description))
				s.publish(event.NewEvent(event.KindCanceled, t.ID, t.Tag, t.Description))
			} else {
				s.logger.WithField("task", t.ID).Debug("task completed")
				s.publish(event.NewEvent(event.KindCompleted, t.ID, t.Tag, t.Description))
			}
		}
	}
	tracing.EndSpan(span, cause)
	s.scheduleRetention(t)
}

// publish enqueues a lifecycle event; delivery is asynchronous to the
// transition that produced it.
func (s *Service) publish(e *event.Event) {
	if err := s.events.Publish(s.baseCtx, e); err != nil {
		s.logger.WithError(err).WithField("kind", e.Kind).Debug("event publish failed")
	}
}
