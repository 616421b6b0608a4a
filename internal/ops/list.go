package ops

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jacksmith/binder/internal/model"
)

// ListStore owns the saved-card list: one entry per card ID with optional
// notes, in insertion order.
//
// The loading and error slots are transient UI state and never persisted.
type ListStore struct {
	mu        sync.Mutex
	list      model.List
	loading   bool
	err       string
	persister Persister
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewListStore creates a ListStore, restoring any list saved under ListKey.
func NewListStore(p Persister, logger logrus.FieldLogger) *ListStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &ListStore{
		persister: p,
		logger:    logger.WithField("store", ListKey),
		now:       time.Now,
	}
	s.list.LastUpdated = s.now()

	if data, ok := p.Load(ListKey); ok {
		l, err := model.DecodeList(data)
		if err != nil {
			s.logger.WithError(err).Warn("ignoring unreadable saved list")
		} else {
			s.list = sanitizeList(l)
		}
	}
	return s
}

// sanitizeList drops entries without an ID or repeating an earlier ID.
func sanitizeList(l *model.List) model.List {
	out := model.List{LastUpdated: l.LastUpdated}
	seen := make(map[string]bool, len(l.Cards))
	for _, e := range l.Cards {
		if e.Card.ID == "" || seen[e.Card.ID] {
			continue
		}
		seen[e.Card.ID] = true
		out.Cards = append(out.Cards, e)
	}
	out.TotalCards = len(out.Cards)
	return out
}

func (s *ListStore) indexOf(cardID string) int {
	for i := range s.list.Cards {
		if s.list.Cards[i].Card.ID == cardID {
			return i
		}
	}
	return -1
}

// commit recomputes derived fields and persists. Caller must hold s.mu.
func (s *ListStore) commit() {
	s.list.TotalCards = len(s.list.Cards)
	s.list.LastUpdated = s.now()

	data, err := model.EncodeList(&s.list)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode list")
		return
	}
	s.persister.Save(ListKey, data)
}

// AddCard saves card. If it is already saved, its AddedAt is refreshed and
// its notes replaced only when notes is non-nil.
func (s *ListStore) AddCard(card model.Card, notes *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if i := s.indexOf(card.ID); i >= 0 {
		if notes != nil {
			s.list.Cards[i].Notes = *notes
		}
		s.list.Cards[i].AddedAt = now
	} else {
		entry := model.ListEntry{Card: card, AddedAt: now}
		if notes != nil {
			entry.Notes = *notes
		}
		s.list.Cards = append(s.list.Cards, entry)
	}
	s.commit()
}

// RemoveCard removes cardID. Returns false if it was not saved.
func (s *ListStore) RemoveCard(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(cardID)
	if i < 0 {
		return false
	}
	s.list.Cards = append(s.list.Cards[:i:i], s.list.Cards[i+1:]...)
	s.commit()
	return true
}

// UpdateCardNotes replaces the notes of cardID. Returns false if it was not saved.
func (s *ListStore) UpdateCardNotes(cardID string, notes string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(cardID)
	if i < 0 {
		return false
	}
	s.list.Cards[i].Notes = notes
	s.commit()
	return true
}

// ClearList removes every card.
func (s *ListStore) ClearList() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list.Cards = nil
	s.commit()
}

// Contains returns true if cardID is saved.
func (s *ListStore) Contains(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(cardID) >= 0
}

// Get returns the entry for cardID.
func (s *ListStore) Get(cardID string) (model.ListEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(cardID); i >= 0 {
		return s.list.Cards[i], true
	}
	return model.ListEntry{}, false
}

// Len returns the number of saved cards.
func (s *ListStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list.Cards)
}

// ListStats recomputes the list statistics.
func (s *ListStore) ListStats() model.ListStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ComputeListStats(&s.list)
}

// Entries returns a copy of the entries in insertion order.
func (s *ListStore) Entries() []model.ListEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ListEntry(nil), s.list.Cards...)
}

// List returns a copy of the list.
func (s *ListStore) List() model.List {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list
	l.Cards = append([]model.ListEntry(nil), s.list.Cards...)
	return l
}

// Filter returns the entries whose card name contains term, ignoring case.
// An empty term matches everything.
func (s *ListStore) Filter(term string) []model.ListEntry {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ListEntry
	for _, e := range s.list.Cards {
		if strings.Contains(strings.ToLower(e.Card.Name), term) {
			out = append(out, e)
		}
	}
	return out
}

// ShareText renders the list as plain text: a header line, a blank line,
// then one card name per line.
func (s *ListStore) ShareText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "My Pokémon List - %d cards\n\n", len(s.list.Cards))
	for _, e := range s.list.Cards {
		b.WriteString(e.Card.Name)
		b.WriteByte('\n')
	}
	return b.String()
}

// Export builds a portable document of the whole list. It does no I/O.
func (s *ListStore) Export(now time.Time) *model.PortableListDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.NewDocument(&s.list, now)
}

// SetLoading sets the transient loading flag.
func (s *ListStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading returns the transient loading flag.
func (s *ListStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetError sets the transient error message. An empty message clears it.
func (s *ListStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// Err returns the transient error message.
func (s *ListStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// applyImport applies already-validated entries in one step and persists once.
// In merge mode entries whose card is already saved are skipped; otherwise
// they are upserted with their own notes. Imported AddedAt values are kept.
func (s *ListStore) applyImport(entries []model.ListEntry, mode ImportMode) (added, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == ImportModeReplace {
		s.list.Cards = nil
	}

	now := s.now()
	for _, e := range entries {
		i := s.indexOf(e.Card.ID)
		if i >= 0 && mode == ImportModeMerge {
			skipped++
			continue
		}
		if e.AddedAt.IsZero() {
			e.AddedAt = now
		}
		if i >= 0 {
			s.list.Cards[i] = e
		} else {
			s.list.Cards = append(s.list.Cards, e)
		}
		added++
	}

	if added > 0 || mode == ImportModeReplace {
		s.commit()
	}
	return added, skipped
}
