package model

// DeckStats summarizes a deck. Bucket values are summed quantities, so a
// card with quantity 3 adds 3 to its rarity, set, and every one of its types.
type DeckStats struct {
	TotalCards  int            `json:"totalCards"`
	UniqueCards int            `json:"uniqueCards"`
	ByRarity    map[string]int `json:"byRarity"`
	ByType      map[string]int `json:"byType"`
	BySet       map[string]int `json:"bySet"`
}

// ListStats summarizes a list. Bucket values count cards, one per card per
// bucket. Cards with no rarity or no types are left out of those buckets.
type ListStats struct {
	TotalCards  int            `json:"totalCards"`
	UniqueCards int            `json:"uniqueCards"`
	ByRarity    map[string]int `json:"byRarity"`
	ByType      map[string]int `json:"byType"`
}

// SumQuantities returns the total number of cards across entries.
func SumQuantities(entries []DeckEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}

// ComputeDeckStats scans the whole deck and returns fresh statistics.
// Nothing is cached between calls.
func ComputeDeckStats(d *Deck) DeckStats {
	stats := DeckStats{
		TotalCards:  d.TotalCards,
		UniqueCards: len(d.Cards),
		ByRarity:    make(map[string]int),
		ByType:      make(map[string]int),
		BySet:       make(map[string]int),
	}

	for _, e := range d.Cards {
		stats.ByRarity[e.Card.Rarity] += e.Quantity
		for _, t := range e.Card.Types {
			stats.ByType[t] += e.Quantity
		}
		stats.BySet[e.Card.Set.Name] += e.Quantity
	}

	return stats
}

// ComputeListStats scans the whole list and returns fresh statistics.
// TotalCards and UniqueCards are equal since a list holds each card once.
func ComputeListStats(l *List) ListStats {
	stats := ListStats{
		TotalCards:  len(l.Cards),
		UniqueCards: len(l.Cards),
		ByRarity:    make(map[string]int),
		ByType:      make(map[string]int),
	}

	for _, e := range l.Cards {
		if e.Card.Rarity != "" {
			stats.ByRarity[e.Card.Rarity]++
		}
		for _, t := range e.Card.Types {
			stats.ByType[t]++
		}
	}

	return stats
}
