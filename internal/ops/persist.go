// Package ops holds the deck and list stores and the list importer.
package ops

// Persistence keys for store state.
const (
	DeckKey = "deck"
	ListKey = "list"
)

// Persister defines the persistence interface required by the stores.
// The concrete implementation is storage.Adapter; it absorbs its own
// failures so a mutation is never rolled back because a save failed.
type Persister interface {
	Save(key string, data []byte)
	Load(key string) ([]byte, bool)
}
