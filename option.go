package taskmgr

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/taskmgr/model/task"
	"github.com/viant/taskmgr/service/event"
)

// Option customises engine construction.
type Option func(s *Service)

// WithConfig sets the full engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithRetention sets the retention window for terminal tasks.
func WithRetention(retention time.Duration) Option {
	return func(s *Service) {
		s.config.RetentionMs = int(retention / time.Millisecond)
	}
}

// WithQueueVendor selects the event transport ("memory" or "fs").
func WithQueueVendor(vendor string) Option {
	return func(s *Service) {
		s.config.QueueVendor = vendor
	}
}

// WithEventService supplies an externally owned event service; the engine
// will not stop it on Close.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		s.logger = logger.WithField("component", "taskmgr")
	}
}

// StartOption customises a single submission.
type StartOption func(m *task.Meta)

// WithTag sets the free-form grouping tag.
func WithTag(tag string) StartOption {
	return func(m *task.Meta) { m.Tag = tag }
}

// WithDescription sets the diagnostic description.
func WithDescription(description string) StartOption {
	return func(m *task.Meta) { m.Description = description }
}

// WithTimeout bounds the task's execution; zero or negative means no limit.
func WithTimeout(timeout time.Duration) StartOption {
	return func(m *task.Meta) { m.Timeout = timeout }
}

// WithMaxRetries sets how many times a failing work unit is re-invoked.
func WithMaxRetries(maxRetries int) StartOption {
	return func(m *task.Meta) {
		if maxRetries >= 0 {
			m.MaxRetries = maxRetries
		}
	}
}

// WithPriority sets the stored task priority.
func WithPriority(priority task.Priority) StartOption {
	return func(m *task.Meta) { m.Priority = priority }
}
