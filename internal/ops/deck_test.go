package ops

import (
	"testing"

	"github.com/jacksmith/binder/internal/model"
)

func newTestDeckStore(t *testing.T) *DeckStore {
	t.Helper()
	a, _ := setupTestAdapter(t)
	s := NewDeckStore(a, testLogger())
	s.now = tickingClock()
	return s
}

// TestDeckAddCard tests insertion and increments.
func TestDeckAddCard(t *testing.T) {
	s := newTestDeckStore(t)

	pikachu := testCard("base1-58", "Pikachu")
	raichu := testCard("base1-14", "Raichu")

	s.AddCard(pikachu)
	s.AddCard(raichu)
	s.AddCard(pikachu)

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Card.ID != "base1-58" || entries[1].Card.ID != "base1-14" {
		t.Errorf("expected insertion order [base1-58 base1-14], got [%s %s]", entries[0].Card.ID, entries[1].Card.ID)
	}
	if entries[0].Quantity != 2 {
		t.Errorf("expected Pikachu quantity 2, got %d", entries[0].Quantity)
	}
	if s.TotalCards() != 3 {
		t.Errorf("expected total 3, got %d", s.TotalCards())
	}
	if s.UniqueCards() != 2 {
		t.Errorf("expected 2 unique cards, got %d", s.UniqueCards())
	}
	if entries[0].AddedAt.IsZero() {
		t.Error("expected AddedAt to be set")
	}
}

// TestDeckQuantityClamp checks that repeated adds stop at the ceiling.
func TestDeckQuantityClamp(t *testing.T) {
	for _, calls := range []int{1, 4, 98, 99, 100, 150} {
		s := newTestDeckStore(t)
		card := testCard("base1-4", "Charizard")

		for i := 0; i < calls; i++ {
			s.AddCard(card)
		}

		want := min(calls, model.MaxQuantity)
		if got := s.CardQuantity(card.ID); got != want {
			t.Errorf("after %d adds: expected quantity %d, got %d", calls, want, got)
		}
		if s.TotalCards() != want {
			t.Errorf("after %d adds: expected total %d, got %d", calls, want, s.TotalCards())
		}
	}
}

// TestDeckRemoveCard checks that removal drops every copy.
func TestDeckRemoveCard(t *testing.T) {
	s := newTestDeckStore(t)
	card := testCard("base1-4", "Charizard")
	other := testCard("base1-58", "Pikachu")

	for i := 0; i < 5; i++ {
		s.AddCard(card)
	}
	s.AddCard(other)

	if !s.RemoveCard(card.ID) {
		t.Fatal("expected RemoveCard to report removal")
	}
	if s.CardQuantity(card.ID) != 0 {
		t.Errorf("expected quantity 0 after removal, got %d", s.CardQuantity(card.ID))
	}
	for _, e := range s.Entries() {
		if e.Card.ID == card.ID {
			t.Error("removed card still present")
		}
	}
	if s.TotalCards() != 1 {
		t.Errorf("expected total 1, got %d", s.TotalCards())
	}

	// Removing again is a no-op
	if s.RemoveCard(card.ID) {
		t.Error("expected second RemoveCard to report nothing removed")
	}
}

// TestDeckUpdateQuantity tests setting, clamping, and removal by quantity.
func TestDeckUpdateQuantity(t *testing.T) {
	s := newTestDeckStore(t)
	card := testCard("base1-4", "Charizard")
	s.AddCard(card)

	if !s.UpdateQuantity(card.ID, 4) {
		t.Fatal("expected update to succeed")
	}
	if s.CardQuantity(card.ID) != 4 {
		t.Errorf("expected 4, got %d", s.CardQuantity(card.ID))
	}

	s.UpdateQuantity(card.ID, 500)
	if s.CardQuantity(card.ID) != model.MaxQuantity {
		t.Errorf("expected clamp to %d, got %d", model.MaxQuantity, s.CardQuantity(card.ID))
	}

	s.UpdateQuantity(card.ID, 0)
	if s.UniqueCards() != 0 {
		t.Errorf("expected quantity 0 to remove the card, %d entries left", s.UniqueCards())
	}

	s.AddCard(card)
	s.UpdateQuantity(card.ID, -3)
	if s.CardQuantity(card.ID) != 0 {
		t.Error("expected negative quantity to remove the card")
	}

	// Missing card is ignored
	if s.UpdateQuantity("nope-1", 3) {
		t.Error("expected update of missing card to report false")
	}
	if s.UniqueCards() != 0 {
		t.Error("update of missing card must not add it")
	}
}

// TestDeckTotalInvariant runs a mixed sequence and checks the total after every step.
func TestDeckTotalInvariant(t *testing.T) {
	s := newTestDeckStore(t)
	a := testCard("a-1", "A")
	b := testCard("b-1", "B")
	c := testCard("c-1", "C")

	steps := []func(){
		func() { s.AddCard(a) },
		func() { s.AddCard(b) },
		func() { s.AddCard(a) },
		func() { s.UpdateQuantity(b.ID, 40) },
		func() { s.AddCard(c) },
		func() { s.UpdateQuantity(c.ID, 120) },
		func() { s.RemoveCard(a.ID) },
		func() { s.UpdateQuantity(b.ID, 0) },
		func() { s.AddCard(a) },
		func() { s.ClearDeck() },
		func() { s.AddCard(b) },
	}

	for i, step := range steps {
		step()
		if got, want := s.TotalCards(), sumDeck(s.Entries()); got != want {
			t.Fatalf("step %d: total %d does not match sum %d", i, got, want)
		}
		if d := s.Deck(); d.TotalCards != sumDeck(d.Cards) {
			t.Fatalf("step %d: deck copy total %d does not match sum %d", i, d.TotalCards, sumDeck(d.Cards))
		}
	}
}

// TestDeckClear tests clearing the deck.
func TestDeckClear(t *testing.T) {
	s := newTestDeckStore(t)
	s.AddCard(testCard("a-1", "A"))
	s.AddCard(testCard("b-1", "B"))

	before := s.Deck().LastUpdated
	s.ClearDeck()

	if s.TotalCards() != 0 || s.UniqueCards() != 0 {
		t.Errorf("expected empty deck, got total=%d unique=%d", s.TotalCards(), s.UniqueCards())
	}
	if !s.Deck().LastUpdated.After(before) {
		t.Error("expected LastUpdated to advance")
	}
}

// TestDeckStatsSumQuantities checks stats buckets use quantities.
func TestDeckStatsSumQuantities(t *testing.T) {
	s := newTestDeckStore(t)
	pikachu := testCard("base1-58", "Pikachu")
	dual := model.Card{
		ID: "xy1-1", Name: "Dual", Rarity: "Rare",
		Types: []string{"Fire", "Water"},
		Set:   model.CardSet{ID: "xy1", Name: "XY"},
	}

	s.AddCard(pikachu)
	s.AddCard(pikachu)
	s.AddCard(dual)
	s.UpdateQuantity(dual.ID, 3)

	stats := s.DeckStats()
	if stats.TotalCards != 5 || stats.UniqueCards != 2 {
		t.Errorf("expected total=5 unique=2, got total=%d unique=%d", stats.TotalCards, stats.UniqueCards)
	}
	if stats.ByRarity["Common"] != 2 || stats.ByRarity["Rare"] != 3 {
		t.Errorf("unexpected rarity buckets: %v", stats.ByRarity)
	}
	if stats.ByType["Fire"] != 3 || stats.ByType["Water"] != 3 || stats.ByType["Lightning"] != 2 {
		t.Errorf("unexpected type buckets: %v", stats.ByType)
	}
	if stats.BySet["Base"] != 2 || stats.BySet["XY"] != 3 {
		t.Errorf("unexpected set buckets: %v", stats.BySet)
	}
}

// TestDeckPersistence checks state survives a new store over the same adapter.
func TestDeckPersistence(t *testing.T) {
	a, backend := setupTestAdapter(t)

	s := NewDeckStore(a, testLogger())
	s.AddCard(testCard("base1-4", "Charizard"))
	s.AddCard(testCard("base1-4", "Charizard"))
	s.AddCard(testCard("base1-58", "Pikachu"))

	if _, err := backend.Get(DeckKey); err != nil {
		t.Fatalf("expected deck to be written to the backend: %v", err)
	}

	reloaded := NewDeckStore(a, testLogger())
	if reloaded.TotalCards() != 3 {
		t.Errorf("expected reloaded total 3, got %d", reloaded.TotalCards())
	}
	entries := reloaded.Entries()
	if len(entries) != 2 || entries[0].Card.Name != "Charizard" || entries[0].Quantity != 2 {
		t.Errorf("unexpected reloaded entries: %+v", entries)
	}
}

// TestDeckLoadSanitizes checks a hand-edited deck cannot break the invariants.
func TestDeckLoadSanitizes(t *testing.T) {
	a, _ := setupTestAdapter(t)
	a.Save(DeckKey, []byte(`cards:
  - card: {id: a-1, name: A, set: {id: a, name: A}}
    quantity: 250
  - card: {id: a-1, name: A again, set: {id: a, name: A}}
    quantity: 2
  - card: {id: b-1, name: B, set: {id: b, name: B}}
    quantity: 0
  - card: {id: c-1, name: C, set: {id: c, name: C}}
    quantity: 3
total_cards: 1000
`))

	s := NewDeckStore(a, testLogger())
	if s.UniqueCards() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.UniqueCards())
	}
	if s.CardQuantity("a-1") != model.MaxQuantity {
		t.Errorf("expected clamp to %d, got %d", model.MaxQuantity, s.CardQuantity("a-1"))
	}
	if s.TotalCards() != model.MaxQuantity+3 {
		t.Errorf("expected total %d, got %d", model.MaxQuantity+3, s.TotalCards())
	}
}

// TestDeckLoadCorrupt checks unreadable state starts an empty deck.
func TestDeckLoadCorrupt(t *testing.T) {
	a, _ := setupTestAdapter(t)
	a.Save(DeckKey, []byte("cards: [unterminated"))

	s := NewDeckStore(a, testLogger())
	if s.UniqueCards() != 0 {
		t.Errorf("expected empty deck, got %d entries", s.UniqueCards())
	}
}

// TestDeckShareText tests the plain-text summary.
func TestDeckShareText(t *testing.T) {
	s := newTestDeckStore(t)
	s.AddCard(testCard("base1-4", "Charizard"))
	s.AddCard(testCard("base1-4", "Charizard"))
	s.AddCard(testCard("base1-58", "Pikachu"))

	want := "My Pokémon Deck - 3 cards\n\n2x Charizard\n1x Pikachu\n"
	if got := s.ShareText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestDeckEntriesIsACopy checks callers cannot mutate store state.
func TestDeckEntriesIsACopy(t *testing.T) {
	s := newTestDeckStore(t)
	s.AddCard(testCard("a-1", "A"))

	entries := s.Entries()
	entries[0].Quantity = 50

	if s.CardQuantity("a-1") != 1 {
		t.Error("mutating Entries() changed the store")
	}
}
