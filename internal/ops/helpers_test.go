package ops

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/jacksmith/binder/internal/model"
	"github.com/jacksmith/binder/internal/storage"
)

// setupTestAdapter creates an adapter over an in-memory backend.
func setupTestAdapter(t *testing.T) (*storage.Adapter, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	return storage.NewAdapter(backend, testLogger()), backend
}

func testLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func testCard(id, name string) model.Card {
	return model.Card{
		ID:     id,
		Name:   name,
		Rarity: "Common",
		Types:  []string{"Lightning"},
		Set:    model.CardSet{ID: "base1", Name: "Base", Series: "Base"},
	}
}

func sumDeck(entries []model.DeckEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}

func strPtr(s string) *string {
	return &s
}

func entryIDs(entries []model.ListEntry) string {
	ids := ""
	for i, e := range entries {
		if i > 0 {
			ids += ","
		}
		ids += e.Card.ID
	}
	return fmt.Sprintf("[%s]", ids)
}
