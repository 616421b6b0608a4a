package ops

import (
	"errors"
	"testing"
	"time"

	"github.com/jacksmith/binder/internal/model"
)

// scriptedPrompter answers prompts with fixed values and records the calls.
type scriptedPrompter struct {
	confirm      bool
	mode         ImportMode
	modeOK       bool
	foreignCalls []string
	modeCalls    []int
}

func (p *scriptedPrompter) ConfirmForeign(producer string) bool {
	p.foreignCalls = append(p.foreignCalls, producer)
	return p.confirm
}

func (p *scriptedPrompter) ChooseMode(existing int) (ImportMode, bool) {
	p.modeCalls = append(p.modeCalls, existing)
	return p.mode, p.modeOK
}

// seedList builds a list store holding A (notes "original") and B (notes "mine").
func seedList(t *testing.T) *ListStore {
	t.Helper()
	s := newTestListStore(t)
	s.AddCard(testCard("a-1", "A"), strPtr("original"))
	s.AddCard(testCard("b-1", "B"), strPtr("mine"))
	return s
}

// incomingDocument encodes a document holding B (notes "theirs") and C.
func incomingDocument(t *testing.T) []byte {
	t.Helper()
	src := newTestListStore(t)
	src.AddCard(testCard("b-1", "B"), strPtr("theirs"))
	src.AddCard(testCard("c-1", "C"), nil)

	data, err := model.EncodeDocument(src.Export(time.Now()))
	if err != nil {
		t.Fatalf("failed to encode document: %v", err)
	}
	return data
}

// TestImportMerge checks merge keeps existing entries and their notes.
func TestImportMerge(t *testing.T) {
	s := seedList(t)
	p := &scriptedPrompter{mode: ImportModeMerge, modeOK: true}

	result, err := NewImporter(s, p, testLogger()).Import(incomingDocument(t))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if got := entryIDs(s.Entries()); got != "[a-1,b-1,c-1]" {
		t.Errorf("expected [a-1,b-1,c-1], got %s", got)
	}
	if e, _ := s.Get("b-1"); e.Notes != "mine" {
		t.Errorf("merge must not overwrite notes, got %q", e.Notes)
	}
	if result.Added != 1 || result.Skipped != 1 || result.Mode != ImportModeMerge {
		t.Errorf("expected added=1 skipped=1 merge, got %+v", result)
	}
	if len(p.foreignCalls) != 0 {
		t.Error("own document must not ask for confirmation")
	}
	if len(p.modeCalls) != 1 || p.modeCalls[0] != 2 {
		t.Errorf("expected one mode prompt with 2 existing, got %v", p.modeCalls)
	}
}

// TestImportReplace checks replace yields exactly the imported entries.
func TestImportReplace(t *testing.T) {
	s := seedList(t)
	p := &scriptedPrompter{mode: ImportModeReplace, modeOK: true}

	result, err := NewImporter(s, p, testLogger()).Import(incomingDocument(t))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if got := entryIDs(s.Entries()); got != "[b-1,c-1]" {
		t.Errorf("expected [b-1,c-1], got %s", got)
	}
	if e, _ := s.Get("b-1"); e.Notes != "theirs" {
		t.Errorf("replace must take imported notes, got %q", e.Notes)
	}
	if result.Added != 2 || result.Skipped != 0 || result.Mode != ImportModeReplace {
		t.Errorf("expected added=2 skipped=0 replace, got %+v", result)
	}
}

// TestImportRoundTrip checks importing an export of the same list changes nothing.
func TestImportRoundTrip(t *testing.T) {
	s := seedList(t)
	before := s.List()

	data, err := model.EncodeDocument(s.Export(time.Now()))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	p := &scriptedPrompter{mode: ImportModeMerge, modeOK: true}
	result, err := NewImporter(s, p, testLogger()).Import(data)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Added != 0 || result.Skipped != 2 {
		t.Errorf("expected added=0 skipped=2, got %+v", result)
	}
	after := s.List()
	if entryIDs(after.Cards) != entryIDs(before.Cards) || !after.LastUpdated.Equal(before.LastUpdated) {
		t.Error("round trip changed the list")
	}
	for i := range after.Cards {
		if after.Cards[i].Notes != before.Cards[i].Notes {
			t.Errorf("notes changed for %s", after.Cards[i].Card.ID)
		}
	}
}

// TestImportRejectsMalformed checks a bad document changes nothing.
func TestImportRejectsMalformed(t *testing.T) {
	docs := map[string]string{
		"not json":        `{"cards": [`,
		"cards not array": `{"version": "1.0", "exportedBy": "Pokemon TCG Catalog", "cards": {"a": 1}}`,
		"cards missing":   `{"version": "1.0"}`,
		"cards null":      `{"cards": null}`,
		"top level array": `[{"card": {"id": "x-1"}}]`,
		"cards is string": `{"cards": "a-1"}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			s := seedList(t)
			before := s.List()
			p := &scriptedPrompter{confirm: true, mode: ImportModeReplace, modeOK: true}

			result, err := NewImporter(s, p, testLogger()).Import([]byte(doc))
			if err == nil {
				t.Fatalf("expected rejection, got %+v", result)
			}
			var docErr *model.DocumentError
			if !errors.As(err, &docErr) {
				t.Errorf("expected *model.DocumentError, got %T: %v", err, err)
			}

			after := s.List()
			if entryIDs(after.Cards) != entryIDs(before.Cards) || !after.LastUpdated.Equal(before.LastUpdated) {
				t.Error("rejected import changed the list")
			}
			if s.Err() == "" {
				t.Error("expected the store error slot to be set")
			}
			if s.Loading() {
				t.Error("loading flag left raised")
			}
			if len(p.foreignCalls)+len(p.modeCalls) != 0 {
				t.Error("rejected document must not prompt")
			}
		})
	}
}

// TestImportForeignProducer tests the advisory producer check.
func TestImportForeignProducer(t *testing.T) {
	doc := `{"exportedBy": "Some Other App", "cards": [{"card": {"id": "z-1", "name": "Z"}, "notes": "n"}]}`

	t.Run("declined", func(t *testing.T) {
		s := seedList(t)
		p := &scriptedPrompter{confirm: false, modeOK: true}

		_, err := NewImporter(s, p, testLogger()).Import([]byte(doc))
		if !errors.Is(err, ErrImportCancelled) {
			t.Fatalf("expected ErrImportCancelled, got %v", err)
		}
		if s.Len() != 2 {
			t.Error("declined import changed the list")
		}
		if len(p.foreignCalls) != 1 || p.foreignCalls[0] != "Some Other App" {
			t.Errorf("unexpected confirmation calls: %v", p.foreignCalls)
		}
		if s.Err() != "" {
			t.Errorf("cancel is not an error, got %q", s.Err())
		}
	})

	t.Run("accepted", func(t *testing.T) {
		s := seedList(t)
		p := &scriptedPrompter{confirm: true, mode: ImportModeMerge, modeOK: true}

		result, err := NewImporter(s, p, testLogger()).Import([]byte(doc))
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if result.Added != 1 || !s.Contains("z-1") {
			t.Errorf("expected z-1 to be added, got %+v", result)
		}
		if e, _ := s.Get("z-1"); e.Notes != "n" || e.AddedAt.IsZero() {
			t.Errorf("unexpected imported entry: %+v", e)
		}
	})
}

// TestImportModeCancelled checks cancelling the mode prompt changes nothing.
func TestImportModeCancelled(t *testing.T) {
	s := seedList(t)
	p := &scriptedPrompter{modeOK: false}

	_, err := NewImporter(s, p, testLogger()).Import(incomingDocument(t))
	if !errors.Is(err, ErrImportCancelled) {
		t.Fatalf("expected ErrImportCancelled, got %v", err)
	}
	if got := entryIDs(s.Entries()); got != "[a-1,b-1]" {
		t.Errorf("cancelled import changed the list: %s", got)
	}
}

// TestImportIntoEmptyList checks an empty list merges without prompting.
func TestImportIntoEmptyList(t *testing.T) {
	s := newTestListStore(t)
	p := &scriptedPrompter{}

	result, err := NewImporter(s, p, testLogger()).Import(incomingDocument(t))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(p.modeCalls) != 0 {
		t.Error("empty list must not ask for a mode")
	}
	if result.Mode != ImportModeMerge || result.Added != 2 {
		t.Errorf("expected merge with 2 added, got %+v", result)
	}
}

// TestImportCountsInvalidEntries checks entries without a card ID are reported, not applied.
func TestImportCountsInvalidEntries(t *testing.T) {
	doc := `{"exportedBy": "Pokemon TCG Catalog", "cards": [
		{"card": {"id": "ok-1", "name": "OK"}, "addedAt": "2023-02-03T04:05:06.000Z"},
		{"card": {"name": "No ID"}},
		{"notes": "no card"},
		42
	]}`

	s := newTestListStore(t)
	result, err := NewImporter(s, &scriptedPrompter{}, testLogger()).Import([]byte(doc))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Added != 1 || result.Invalid != 3 {
		t.Errorf("expected added=1 invalid=3, got %+v", result)
	}
	e, _ := s.Get("ok-1")
	want := time.Date(2023, 2, 3, 4, 5, 6, 0, time.UTC)
	if !e.AddedAt.Equal(want) {
		t.Errorf("expected imported AddedAt %v, got %v", want, e.AddedAt)
	}
}

// TestImportDuplicatesWithinDocument checks merge counts a repeated ID once.
func TestImportDuplicatesWithinDocument(t *testing.T) {
	doc := `{"exportedBy": "Pokemon TCG Catalog", "cards": [
		{"card": {"id": "d-1", "name": "D"}, "notes": "first"},
		{"card": {"id": "d-1", "name": "D"}, "notes": "second"}
	]}`

	s := newTestListStore(t)
	result, err := NewImporter(s, &scriptedPrompter{}, testLogger()).Import([]byte(doc))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if s.Len() != 1 || result.Added != 1 || result.Skipped != 1 {
		t.Errorf("expected one entry with added=1 skipped=1, got len=%d %+v", s.Len(), result)
	}
	if e, _ := s.Get("d-1"); e.Notes != "first" {
		t.Errorf("expected first occurrence to win, got %q", e.Notes)
	}
}

func TestImportModeString(t *testing.T) {
	if ImportModeMerge.String() != "merge" || ImportModeReplace.String() != "replace" {
		t.Error("unexpected mode names")
	}
}
