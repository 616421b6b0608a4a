package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidID is returned when a card ID cannot be parsed.
	ErrInvalidID = errors.New("invalid card ID format")

	// cardIDRegex matches catalog IDs like base1-4, swsh12pt5-160, sma-SV1
	cardIDRegex = regexp.MustCompile(`^([A-Za-z0-9]+)-([A-Za-z0-9]+)$`)
)

// ParseCardID splits a card ID into its set ID and collector number.
// The set ID is lowercased; the number keeps its case (e.g. "SV1", "TG05").
// Surrounding whitespace is ignored.
func ParseCardID(s string) (setID string, number string, err error) {
	matches := cardIDRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return "", "", fmt.Errorf("%w: %q is not a valid card ID", ErrInvalidID, s)
	}
	return strings.ToLower(matches[1]), matches[2], nil
}

// FormatCardID joins a set ID and collector number into a card ID.
func FormatCardID(setID, number string) string {
	return strings.ToLower(setID) + "-" + number
}

// NormalizeCardID returns the canonical form of a card ID.
// If parsing fails, the trimmed input is returned unchanged.
func NormalizeCardID(s string) string {
	setID, number, err := ParseCardID(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return FormatCardID(setID, number)
}

// ExtractSetID returns the set part of a card ID, or "" if the ID is invalid.
func ExtractSetID(id string) string {
	setID, _, err := ParseCardID(id)
	if err != nil {
		return ""
	}
	return setID
}
