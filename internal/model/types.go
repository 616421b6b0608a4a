// Package model defines the core data structures for binder.
package model

import "time"

// Quantity bounds for a deck entry.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// CardImages holds the artwork URLs for a card.
type CardImages struct {
	Small string `json:"small" yaml:"small,omitempty"`
	Large string `json:"large" yaml:"large,omitempty"`
}

// CardSet describes the expansion a card was printed in.
type CardSet struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Series       string `json:"series" yaml:"series,omitempty"`
	PrintedTotal int    `json:"printedTotal,omitempty" yaml:"printed_total,omitempty"`
	Total        int    `json:"total,omitempty" yaml:"total,omitempty"`
	ReleaseDate  string `json:"releaseDate,omitempty" yaml:"release_date,omitempty"`
}

// Card is an immutable catalog record. Stores copy it whole and never
// modify it after retrieval.
type Card struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Supertype string     `json:"supertype,omitempty" yaml:"supertype,omitempty"`
	Subtypes  []string   `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
	Rarity    string     `json:"rarity,omitempty" yaml:"rarity,omitempty"`
	Types     []string   `json:"types,omitempty" yaml:"types,omitempty,flow"`
	Set       CardSet    `json:"set" yaml:"set"`
	Number    string     `json:"number,omitempty" yaml:"number,omitempty"`
	Artist    string     `json:"artist,omitempty" yaml:"artist,omitempty"`
	Images    CardImages `json:"images" yaml:"images,omitempty"`
}

// DeckEntry pairs a card with how many copies are in the deck.
type DeckEntry struct {
	Card     Card      `json:"card" yaml:"card"`
	Quantity int       `json:"quantity" yaml:"quantity"`
	AddedAt  time.Time `json:"addedAt" yaml:"added_at"`
}

// Deck is a multiset of cards in insertion order.
// TotalCards is always the sum of every entry's Quantity.
type Deck struct {
	Cards       []DeckEntry `yaml:"cards,omitempty"`
	TotalCards  int         `yaml:"total_cards"`
	LastUpdated time.Time   `yaml:"last_updated"`
}

// ListEntry is a saved card with optional notes.
type ListEntry struct {
	Card    Card      `json:"card" yaml:"card"`
	AddedAt time.Time `json:"addedAt" yaml:"added_at"`
	Notes   string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// List is a set of saved cards in insertion order.
type List struct {
	Cards       []ListEntry `yaml:"cards,omitempty"`
	TotalCards  int         `yaml:"total_cards"`
	LastUpdated time.Time   `yaml:"last_updated"`
}

// SearchFilters narrows a catalog search. Empty fields are ignored.
type SearchFilters struct {
	Rarity    string `yaml:"rarity,omitempty"`
	Type      string `yaml:"type,omitempty"`
	Set       string `yaml:"set,omitempty"`
	Supertype string `yaml:"supertype,omitempty"`
}

// IsZero returns true if no filter is set.
func (f SearchFilters) IsZero() bool {
	return f == SearchFilters{}
}

// SearchResultSet is the visible state of a search: everything fetched so
// far for the current query plus continuation metadata.
type SearchResultSet struct {
	Query       string
	Filters     SearchFilters
	Results     []Card
	HasMore     bool
	CurrentPage int
	TotalCount  int
	Loading     bool
	Error       string
}

// DisplayName returns the card name followed by its set and number,
// e.g. "Charizard (Base / 4)".
func (c *Card) DisplayName() string {
	if c.Set.Name == "" {
		return c.Name
	}
	if c.Number == "" {
		return c.Name + " (" + c.Set.Name + ")"
	}
	return c.Name + " (" + c.Set.Name + " / " + c.Number + ")"
}
