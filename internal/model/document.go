package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DocumentVersion is the version tag written on export.
	DocumentVersion = "1.0"

	// DocumentProducer identifies documents exported by this application.
	DocumentProducer = "Pokemon TCG Catalog"

	// TimestampLayout is the ISO-8601 layout used for document timestamps.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// PortableListDocument is the export/import file format for a List.
// Version, ExportedBy, TotalCards and Stats are advisory; only Cards is
// authoritative on import.
type PortableListDocument struct {
	Version    string      `json:"version"`
	ExportedAt string      `json:"exportedAt"`
	ExportedBy string      `json:"exportedBy"`
	Cards      []ListEntry `json:"cards"`
	TotalCards int         `json:"totalCards"`
	Stats      *ListStats  `json:"stats,omitempty"`

	// Invalid counts entries dropped during decoding because they had no
	// card or no card ID.
	Invalid int `json:"-"`
}

// DocumentError indicates an import document was rejected before any of
// its entries were considered.
type DocumentError struct {
	Reason string
	Err    error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid list file: %s: %v", e.Reason, e.Err)
	}
	return "invalid list file: " + e.Reason
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocument builds an export document for the given list.
func NewDocument(l *List, now time.Time) *PortableListDocument {
	cards := make([]ListEntry, len(l.Cards))
	copy(cards, l.Cards)
	stats := ComputeListStats(l)

	return &PortableListDocument{
		Version:    DocumentVersion,
		ExportedAt: now.UTC().Format(TimestampLayout),
		ExportedBy: DocumentProducer,
		Cards:      cards,
		TotalCards: len(cards),
		Stats:      &stats,
	}
}

// ExportFileName returns the suggested file name for an export made at now,
// e.g. pokemon-list-2024-03-09.json.
func ExportFileName(now time.Time) string {
	return "pokemon-list-" + now.UTC().Format("2006-01-02") + ".json"
}

// FromProducer returns true if the document claims to come from this application.
func (d *PortableListDocument) FromProducer() bool {
	return d.ExportedBy == DocumentProducer
}

// EncodeDocument renders a document as indented JSON.
func EncodeDocument(d *PortableListDocument) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode list document: %w", err)
	}
	return append(data, '\n'), nil
}

// rawEntry mirrors ListEntry with loose typing so that one bad entry does
// not reject the whole document.
type rawEntry struct {
	Card    *Card   `json:"card"`
	AddedAt string  `json:"addedAt"`
	Notes   *string `json:"notes"`
}

// DecodeDocument parses and validates untrusted document bytes.
// It fails with a *DocumentError if the bytes are not a JSON object or the
// cards field is missing or not an array. Entries that cannot be read or
// have no card ID are counted in Invalid and left out of Cards.
func DecodeDocument(data []byte) (*PortableListDocument, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &DocumentError{Reason: "not a JSON object", Err: err}
	}

	rawCards, ok := fields["cards"]
	if !ok {
		return nil, &DocumentError{Reason: "missing cards array"}
	}
	trimmed := bytes.TrimSpace(rawCards)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &DocumentError{Reason: "cards must be an array"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &DocumentError{Reason: "cards must be an array", Err: err}
	}

	doc := &PortableListDocument{
		Version:    stringField(fields, "version"),
		ExportedAt: stringField(fields, "exportedAt"),
		ExportedBy: stringField(fields, "exportedBy"),
		TotalCards: intField(fields, "totalCards"),
		Cards:      make([]ListEntry, 0, len(items)),
	}

	for _, item := range items {
		var raw rawEntry
		if err := json.Unmarshal(item, &raw); err != nil || raw.Card == nil || raw.Card.ID == "" {
			doc.Invalid++
			continue
		}
		entry := ListEntry{Card: *raw.Card, AddedAt: parseTimestamp(raw.AddedAt)}
		if raw.Notes != nil {
			entry.Notes = *raw.Notes
		}
		doc.Cards = append(doc.Cards, entry)
	}

	return doc, nil
}

// stringField returns fields[key] as a string, or "" if absent or not a string.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// intField returns fields[key] as an int, or 0 if absent or not a number.
func intField(fields map[string]json.RawMessage, key string) int {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

// parseTimestamp accepts ISO-8601 timestamps with or without fractional
// seconds. Unparseable input yields the zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
