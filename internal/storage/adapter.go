package storage

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Adapter persists serialized state on behalf of the stores.
// It never reports failures to its caller: a backend error is logged and
// the value is kept in memory, so the running session always sees its own
// writes even when nothing reaches disk.
type Adapter struct {
	mu       sync.Mutex
	backend  Backend
	memory   map[string][]byte
	logger   logrus.FieldLogger
	degraded bool
}

// NewAdapter wraps backend. A nil backend gives an in-memory-only adapter.
func NewAdapter(backend Backend, logger logrus.FieldLogger) *Adapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Adapter{
		backend: backend,
		memory:  make(map[string][]byte),
		logger:  logger,
	}
}

// Save stores data under key.
func (a *Adapter) Save(key string, data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.memory[key] = append([]byte(nil), data...)

	if a.backend == nil {
		return
	}
	if err := a.backend.Put(key, data); err != nil {
		a.degraded = true
		a.logger.WithError(err).WithField("key", key).Warn("persisting state failed, keeping it in memory")
		return
	}
	a.degraded = false
}

// Load returns the data stored under key and whether it was found.
// Values saved during this session win over anything the backend returns.
func (a *Adapter) Load(key string) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if data, ok := a.memory[key]; ok {
		return append([]byte(nil), data...), true
	}

	if a.backend == nil {
		return nil, false
	}

	data, err := a.backend.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.degraded = true
			a.logger.WithError(err).WithField("key", key).Warn("loading state failed, starting empty")
		}
		return nil, false
	}
	a.memory[key] = append([]byte(nil), data...)
	return data, true
}

// Degraded returns true if the most recent backend operation failed.
func (a *Adapter) Degraded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.degraded
}

// Close closes the underlying backend, if any.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}
