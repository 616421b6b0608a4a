package cli

import (
	"errors"
	"fmt"

	"github.com/jacksmith/binder/internal/ops"
)

// NotFoundError indicates a card is not in the catalog, the deck, or the list.
type NotFoundError struct {
	Type string // "card", "deck entry", or "list entry"
	ID   string // the card ID that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// ValidationError indicates a validation failure.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ops.ErrImportCancelled) {
		return "import cancelled, list unchanged"
	}
	return "error: " + err.Error()
}
