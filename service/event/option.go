package event

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/viant/taskmgr/service/messaging/fs"
	"github.com/viant/taskmgr/service/messaging/memory"
)

type Option func(s *Service)

// WithFSQueueConfig sets the file system queue configuration
func WithFSQueueConfig(config fs.Config) Option {
	return func(s *Service) {
		s.fsConfig = config
	}
}

// WithMemoryQueueConfig sets the memory queue configuration
func WithMemoryQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.memConfig = config
	}
}

// WithLogger sets the dispatcher logger
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func newToken() string { return uuid.New().String() }
