package ops

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/jacksmith/binder/internal/model"
)

// ErrImportCancelled is returned when the user declines a foreign document
// or cancels the replace/merge choice. Nothing was changed.
var ErrImportCancelled = errors.New("import cancelled")

// ImportMode selects how imported entries combine with the current list.
type ImportMode int

const (
	// ImportModeMerge keeps current entries and skips imported cards that are already saved.
	ImportModeMerge ImportMode = iota
	// ImportModeReplace clears the list before adding every imported entry.
	ImportModeReplace
)

func (m ImportMode) String() string {
	switch m {
	case ImportModeReplace:
		return "replace"
	default:
		return "merge"
	}
}

// Prompter asks the user the questions an import may need answered.
type Prompter interface {
	// ConfirmForeign asks whether to import a document exported by another
	// producer. producer may be empty.
	ConfirmForeign(producer string) bool

	// ChooseMode asks how to combine the import with a list of existing
	// entries. ok is false if the user cancelled.
	ChooseMode(existing int) (mode ImportMode, ok bool)
}

// ImportResult reports what an import did.
type ImportResult struct {
	Added   int
	Skipped int
	// Invalid counts document entries without a usable card.
	Invalid int
	Mode    ImportMode
}

// Importer drives a list import: validate, ask, then apply in one step.
// A rejected or cancelled import leaves the list untouched.
type Importer struct {
	store    *ListStore
	prompter Prompter
	logger   logrus.FieldLogger
}

// NewImporter creates an Importer for store.
func NewImporter(store *ListStore, prompter Prompter, logger logrus.FieldLogger) *Importer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Importer{store: store, prompter: prompter, logger: logger.WithField("op", "import")}
}

// Import decodes data as a portable list document and applies it.
// A malformed document fails with a *model.DocumentError.
func (im *Importer) Import(data []byte) (*ImportResult, error) {
	im.store.SetLoading(true)
	defer im.store.SetLoading(false)
	im.store.SetError("")

	doc, err := model.DecodeDocument(data)
	if err != nil {
		im.store.SetError(err.Error())
		im.logger.WithError(err).Info("rejected list document")
		return nil, err
	}
	return im.apply(doc)
}

// ImportDocument applies an already decoded document.
func (im *Importer) ImportDocument(doc *model.PortableListDocument) (*ImportResult, error) {
	im.store.SetLoading(true)
	defer im.store.SetLoading(false)
	im.store.SetError("")

	return im.apply(doc)
}

func (im *Importer) apply(doc *model.PortableListDocument) (*ImportResult, error) {
	if !doc.FromProducer() && !im.prompter.ConfirmForeign(doc.ExportedBy) {
		return nil, ErrImportCancelled
	}

	mode := ImportModeMerge
	if existing := im.store.Len(); existing > 0 {
		var ok bool
		mode, ok = im.prompter.ChooseMode(existing)
		if !ok {
			return nil, ErrImportCancelled
		}
	}

	added, skipped := im.store.applyImport(doc.Cards, mode)
	result := &ImportResult{
		Added:   added,
		Skipped: skipped,
		Invalid: doc.Invalid,
		Mode:    mode,
	}

	im.logger.WithFields(logrus.Fields{
		"mode":    mode.String(),
		"added":   added,
		"skipped": skipped,
		"invalid": doc.Invalid,
	}).Info("imported list")
	return result, nil
}
