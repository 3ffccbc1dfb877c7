// Package fs provides a filesystem-journaled queue built on viant/afs.
// Every published message is written as a JSON file, which makes the
// lifecycle event stream inspectable after the fact with nothing more than
// ls and cat. Consumed messages are moved to an archive directory on Ack
// and to a failed directory on Nack.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/taskmgr/service/messaging"
)

// Config holds configuration for the filesystem queue.
type Config struct {
	// BasePath is the base directory for queue files
	BasePath string

	// PollInterval is how often Consume re-lists an empty pending directory
	PollInterval time.Duration
}

// DefaultConfig returns a default queue configuration.
func DefaultConfig() Config {
	return Config{
		BasePath:     "/tmp/taskmgr/events",
		PollInterval: 50 * time.Millisecond,
	}
}

// Message implements messaging.Message for the filesystem queue.
type Message[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message file to the archive directory.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.UpdatedAt = time.Now()
	return m.queue.archive(context.Background(), m, m.queue.archiveDir)
}

// Nack moves the message file to the failed directory.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	m.UpdatedAt = time.Now()
	return m.queue.archive(context.Background(), m, m.queue.failedDir)
}

// Queue implements a filesystem-based messaging.Queue.
type Queue[T any] struct {
	fs         afs.Service
	config     Config
	pendingDir string
	archiveDir string
	failedDir  string
	mu         sync.Mutex
	seq        uint64
}

// NewQueue creates a new filesystem-based queue.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	q := &Queue[T]{
		fs:         fs,
		config:     config,
		pendingDir: path.Join(config.BasePath, "pending"),
		archiveDir: path.Join(config.BasePath, "archive"),
		failedDir:  path.Join(config.BasePath, "failed"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.archiveDir, q.failedDir} {
		if exists, _ := fs.Exists(ctx, dir); !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish writes a new message file to the pending directory. Filenames
// carry a per-queue sequence prefix so that lexical order equals publish
// order.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	q.mu.Lock()
	q.seq++
	name := fmt.Sprintf("%012d-%s.json", q.seq, message.ID)
	q.mu.Unlock()
	return q.upload(ctx, path.Join(q.pendingDir, name), data)
}

// Consume returns the oldest pending message, blocking until one is
// available or the context is done.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		msg, err := q.next(ctx)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			return msg, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.config.PollInterval):
		}
	}
}

func (q *Queue[T]) next(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var oldest storage.Object
	for _, obj := range objects {
		if obj.IsDir() || !strings.HasSuffix(obj.Name(), ".json") {
			continue
		}
		if oldest == nil || obj.Name() < oldest.Name() {
			oldest = obj
		}
	}
	if oldest == nil {
		return nil, nil
	}

	data, err := q.fs.DownloadWithURL(ctx, oldest.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", oldest.URL(), err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		destURL := path.Join(q.failedDir, fmt.Sprintf("invalid-%s", oldest.Name()))
		_ = q.fs.Move(ctx, oldest.URL(), destURL)
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", oldest.URL(), err)
	}
	message.queue = q
	if err := q.fs.Delete(ctx, oldest.URL()); err != nil {
		return nil, fmt.Errorf("failed to delete message from pending directory: %w", err)
	}
	return &message, nil
}

// archive writes the final message state into the given directory.
func (q *Queue[T]) archive(ctx context.Context, m *Message[T], dir string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.upload(ctx, path.Join(dir, fmt.Sprintf("%s.json", m.ID)), data)
}

func (q *Queue[T]) upload(ctx context.Context, path string, data []byte) error {
	return q.fs.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewBuffer(data))
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
