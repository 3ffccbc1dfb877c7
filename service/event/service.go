// Package event delivers task lifecycle notifications. All events flow
// through a single FIFO queue drained by one dispatcher goroutine, which
// guarantees that the added event for a task is observed before any of its
// terminal events, while subscriber execution stays asynchronous to the
// transition that produced the event.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/taskmgr/service/messaging"
	"github.com/viant/taskmgr/service/messaging/fs"
	"github.com/viant/taskmgr/service/messaging/memory"
)

// Service publishes and dispatches lifecycle events.
type Service struct {
	queue       messaging.Queue[Event]
	queueVendor messaging.Vendor
	fsConfig    fs.Config
	memConfig   memory.Config
	logger      *logrus.Entry

	mu   sync.RWMutex
	subs map[Kind]map[string]func(Event)

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped chan struct{}
}

// New creates an event service backed by the given queue vendor.
func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor: queueVendor,
		fsConfig:    fs.DefaultConfig(),
		memConfig:   memory.DefaultConfig(),
		subs:        make(map[Kind]map[string]func(Event)),
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logrus.NewEntry(logrus.StandardLogger())
	}

	switch queueVendor {
	case messaging.VendorMemory:
		ret.queue = memory.NewQueue[Event](ret.memConfig)
	case messaging.VendorFS:
		queue, err := fs.NewQueue[Event](afs.New(), ret.fsConfig)
		if err != nil {
			return nil, err
		}
		ret.queue = queue
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}
	ret.ctx, ret.cancel = context.WithCancel(context.Background())
	return ret, nil
}

// Publish enqueues an event for asynchronous dispatch.
func (s *Service) Publish(ctx context.Context, event *Event) error {
	return s.queue.Publish(ctx, event)
}

// Subscribe registers a handler for the given event kind and returns a
// subscription token usable with Unsubscribe.
func (s *Service) Subscribe(kind Kind, handler func(Event)) string {
	token := newToken()
	s.mu.Lock()
	kindSubs, ok := s.subs[kind]
	if !ok {
		kindSubs = make(map[string]func(Event))
		s.subs[kind] = kindSubs
	}
	kindSubs[token] = handler
	s.mu.Unlock()
	return token
}

// Unsubscribe removes a subscription; it reports whether the token was known.
func (s *Service) Unsubscribe(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kindSubs := range s.subs {
		if _, ok := kindSubs[token]; ok {
			delete(kindSubs, token)
			return true
		}
	}
	return false
}

// Start launches the dispatcher goroutine. It is a no-op when already
// started.
func (s *Service) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()
	go s.dispatch()
}

// Stop terminates the dispatcher. Events published after Stop stay queued
// and are never delivered.
func (s *Service) Stop() {
	s.cancel()
}

// Stopped is closed once the dispatcher goroutine exits.
func (s *Service) Stopped() <-chan struct{} { return s.stopped }

func (s *Service) dispatch() {
	defer close(s.stopped)
	for {
		msg, err := s.queue.Consume(s.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.WithError(err).Warn("event consume failed")
			continue
		}
		if msg == nil {
			continue
		}
		event := *msg.T()
		if err := msg.Ack(); err != nil {
			s.logger.WithError(err).Warn("event ack failed")
		}
		for _, handler := range s.handlers(event.Kind) {
			s.invoke(handler, event)
		}
	}
}

func (s *Service) handlers(kind Kind) []func(Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]func(Event), 0, len(s.subs[kind]))
	for _, handler := range s.subs[kind] {
		out = append(out, handler)
	}
	return out
}

// invoke shields the dispatcher from a panicking subscriber.
func (s *Service) invoke(handler func(Event), event Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("kind", event.Kind).Warnf("event handler panicked: %v", r)
		}
	}()
	handler(event)
}
