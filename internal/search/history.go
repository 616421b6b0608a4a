package search

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jacksmith/binder/internal/model"
)

const (
	// HistoryKey is the persistence key for past queries.
	HistoryKey = "history"

	// MaxHistory is the number of queries remembered.
	MaxHistory = 10
)

// Persister stores serialized state under a key. Implementations absorb
// their own failures.
type Persister interface {
	Save(key string, data []byte)
	Load(key string) ([]byte, bool)
}

// History is the list of recent queries, most recent first, without duplicates.
type History struct {
	mu        sync.Mutex
	queries   []string
	persister Persister
	logger    logrus.FieldLogger
}

// NewHistory loads history from p. Unreadable history starts empty.
func NewHistory(p Persister, logger logrus.FieldLogger) *History {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &History{persister: p, logger: logger.WithField("component", "history")}

	if data, ok := p.Load(HistoryKey); ok {
		queries, err := model.DecodeHistory(data)
		if err != nil {
			h.logger.WithError(err).Warn("ignoring unreadable search history")
		} else {
			h.queries = queries
		}
	}
	if len(h.queries) > MaxHistory {
		h.queries = h.queries[:MaxHistory]
	}
	return h
}

// Add records query as the most recent. Empty queries are ignored.
func (h *History) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	queries := []string{query}
	for _, q := range h.queries {
		if q != query {
			queries = append(queries, q)
		}
	}
	if len(queries) > MaxHistory {
		queries = queries[:MaxHistory]
	}
	h.queries = queries
	h.save()
}

// Remove forgets query. Returns false if it was not present.
func (h *History) Remove(query string) bool {
	query = strings.TrimSpace(query)

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, q := range h.queries {
		if q == query {
			h.queries = append(h.queries[:i:i], h.queries[i+1:]...)
			h.save()
			return true
		}
	}
	return false
}

// Clear forgets every query.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.queries = nil
	h.save()
}

// Entries returns the remembered queries, most recent first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.queries...)
}

// save persists the history. Caller must hold h.mu.
func (h *History) save() {
	data, err := model.EncodeHistory(h.queries)
	if err != nil {
		h.logger.WithError(err).Warn("failed to encode search history")
		return
	}
	h.persister.Save(HistoryKey, data)
}
