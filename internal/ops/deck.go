package ops

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jacksmith/binder/internal/model"
)

// DeckStore owns the deck: one entry per card ID, each with a quantity in
// 1..99, kept in the order cards were first added.
type DeckStore struct {
	mu        sync.Mutex
	deck      model.Deck
	persister Persister
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewDeckStore creates a DeckStore, restoring any deck saved under DeckKey.
func NewDeckStore(p Persister, logger logrus.FieldLogger) *DeckStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &DeckStore{
		persister: p,
		logger:    logger.WithField("store", DeckKey),
		now:       time.Now,
	}
	s.deck.LastUpdated = s.now()

	if data, ok := p.Load(DeckKey); ok {
		d, err := model.DecodeDeck(data)
		if err != nil {
			s.logger.WithError(err).Warn("ignoring unreadable saved deck")
		} else {
			s.deck = sanitizeDeck(d)
		}
	}
	return s
}

// sanitizeDeck drops entries without an ID or repeating an earlier ID and
// clamps quantities, so a hand-edited file cannot break the invariants.
func sanitizeDeck(d *model.Deck) model.Deck {
	out := model.Deck{LastUpdated: d.LastUpdated}
	seen := make(map[string]bool, len(d.Cards))
	for _, e := range d.Cards {
		if e.Card.ID == "" || seen[e.Card.ID] || e.Quantity < model.MinQuantity {
			continue
		}
		seen[e.Card.ID] = true
		e.Quantity = min(e.Quantity, model.MaxQuantity)
		out.Cards = append(out.Cards, e)
	}
	out.TotalCards = model.SumQuantities(out.Cards)
	return out
}

// indexOf returns the position of cardID, or -1. Caller must hold s.mu.
func (s *DeckStore) indexOf(cardID string) int {
	for i := range s.deck.Cards {
		if s.deck.Cards[i].Card.ID == cardID {
			return i
		}
	}
	return -1
}

// commit recomputes derived fields and persists. Caller must hold s.mu.
func (s *DeckStore) commit() {
	s.deck.TotalCards = model.SumQuantities(s.deck.Cards)
	s.deck.LastUpdated = s.now()

	data, err := model.EncodeDeck(&s.deck)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode deck")
		return
	}
	s.persister.Save(DeckKey, data)
}

// AddCard adds one copy of card. A card already in the deck has its quantity
// incremented, up to MaxQuantity.
func (s *DeckStore) AddCard(card model.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(card.ID); i >= 0 {
		s.deck.Cards[i].Quantity = min(s.deck.Cards[i].Quantity+1, model.MaxQuantity)
	} else {
		s.deck.Cards = append(s.deck.Cards, model.DeckEntry{
			Card:     card,
			Quantity: 1,
			AddedAt:  s.now(),
		})
	}
	s.commit()
}

// RemoveCard removes every copy of cardID. Returns false if it was not in the deck.
func (s *DeckStore) RemoveCard(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(cardID)
	if i < 0 {
		return false
	}
	s.deck.Cards = append(s.deck.Cards[:i:i], s.deck.Cards[i+1:]...)
	s.commit()
	return true
}

// UpdateQuantity sets the quantity of cardID to min(n, MaxQuantity).
// n <= 0 removes the card. Returns false if the card is not in the deck.
func (s *DeckStore) UpdateQuantity(cardID string, n int) bool {
	if n <= 0 {
		return s.RemoveCard(cardID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(cardID)
	if i < 0 {
		return false
	}
	s.deck.Cards[i].Quantity = min(n, model.MaxQuantity)
	s.commit()
	return true
}

// ClearDeck removes every card.
func (s *DeckStore) ClearDeck() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deck.Cards = nil
	s.commit()
}

// CardQuantity returns how many copies of cardID are in the deck.
func (s *DeckStore) CardQuantity(cardID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(cardID); i >= 0 {
		return s.deck.Cards[i].Quantity
	}
	return 0
}

// DeckStats recomputes the deck statistics.
func (s *DeckStore) DeckStats() model.DeckStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ComputeDeckStats(&s.deck)
}

// TotalCards returns the sum of all quantities.
func (s *DeckStore) TotalCards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.TotalCards
}

// UniqueCards returns the number of distinct cards.
func (s *DeckStore) UniqueCards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deck.Cards)
}

// Entries returns a copy of the deck entries in insertion order.
func (s *DeckStore) Entries() []model.DeckEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.DeckEntry(nil), s.deck.Cards...)
}

// Deck returns a copy of the deck.
func (s *DeckStore) Deck() model.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.deck
	d.Cards = append([]model.DeckEntry(nil), s.deck.Cards...)
	return d
}

// ShareText renders the deck as plain text: a header line, a blank line,
// then "<qty>x <name>" per entry.
func (s *DeckStore) ShareText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "My Pokémon Deck - %d cards\n\n", s.deck.TotalCards)
	for _, e := range s.deck.Cards {
		fmt.Fprintf(&b, "%dx %s\n", e.Quantity, e.Card.Name)
	}
	return b.String()
}
