package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/cli"
	"github.com/jacksmith/binder/internal/model"
	"github.com/jacksmith/binder/internal/ops"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show and edit the list of saved cards",
	Long: `Show and edit the list of saved cards.

Each card appears in the list at most once and may carry notes. Without a
subcommand the list is shown.`,
	Args: cobra.NoArgs,
	RunE: runListShow,
}

var listAddCmd = &cobra.Command{
	Use:   "add <id> [notes]...",
	Short: "Save a card to the list",
	Long: `Save a card to the list. Arguments after the ID are joined with spaces to
form the notes. Saving a card that is already in the list keeps its notes
unless new notes are given.

Examples:
  binder list add base1-4
  binder list add base1-2 want a PSA 9 copy`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeSavedCardIDs,
	RunE:              runListAdd,
}

var listNotesCmd = &cobra.Command{
	Use:   "notes <id> [text]...",
	Short: "Show or set the notes of a saved card",
	Long: `Show or set the notes of a card in the list.

With text, the notes are replaced by it. With -i, the notes open in $EDITOR.
With --clear, the notes are removed. Otherwise the current notes are shown.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeListIDs,
	RunE:              runListNotes,
}

var listRemoveCmd = &cobra.Command{
	Use:               "remove <id>",
	Short:             "Remove a card from the list",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeListIDs,
	RunE:              runListRemove,
}

var listClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every card from the list",
	Args:  cobra.NoArgs,
	RunE:  runListClear,
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the list",
	Args:  cobra.NoArgs,
	RunE:  runListShow,
}

var listStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show list totals by rarity and type",
	Args:  cobra.NoArgs,
	RunE:  runListStats,
}

var listExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the list to a JSON file",
	Long: `Export the list to a JSON file that 'binder list import' can read back.

The file defaults to pokemon-list-YYYY-MM-DD.json in the current directory.
Use - to write to standard output. Existing files are not overwritten
without --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runListExport,
}

var listImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import cards from an exported JSON file",
	Long: `Import cards from a file written by 'binder list export'. Use - to read
standard input.

If the list is not empty you are asked whether to replace it or merge into
it. Merging skips cards that are already saved and keeps their notes.
--mode answers the question up front. --yes accepts files exported by other
applications and merges unless --mode says otherwise.

A malformed file is rejected and the list is left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runListImport,
}

var listShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Copy the list as plain text to the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runListShare,
}

var (
	listNotesInteractive bool
	listNotesClear       bool
	listClearYes         bool
	listShowFilter       string
	listExportForce      bool
	listImportYes        bool
	listImportMode       string
	listSharePrint       bool
)

// clock is used for export timestamps. Tests replace it.
var clock = time.Now

func init() {
	listNotesCmd.Flags().BoolVarP(&listNotesInteractive, "interactive", "i", false, "edit the notes in $EDITOR")
	listNotesCmd.Flags().BoolVar(&listNotesClear, "clear", false, "remove the notes")
	listClearCmd.Flags().BoolVarP(&listClearYes, "yes", "y", false, "do not ask for confirmation")
	listShowCmd.Flags().StringVarP(&listShowFilter, "filter", "f", "", "only cards whose name contains this text")
	listCmd.Flags().StringVarP(&listShowFilter, "filter", "f", "", "only cards whose name contains this text")
	listExportCmd.Flags().BoolVar(&listExportForce, "force", false, "overwrite an existing file")
	listImportCmd.Flags().BoolVarP(&listImportYes, "yes", "y", false, "do not ask for confirmation")
	listImportCmd.Flags().StringVar(&listImportMode, "mode", "", "replace or merge without asking")
	listShareCmd.Flags().BoolVar(&listSharePrint, "print", false, "print instead of copying to the clipboard")

	listCmd.AddCommand(listAddCmd, listNotesCmd, listRemoveCmd, listClearCmd, listShowCmd,
		listStatsCmd, listExportCmd, listImportCmd, listShareCmd)
	rootCmd.AddCommand(listCmd)
}

func runListAdd(cmd *cobra.Command, args []string) error {
	id, err := parseCardArg(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	card, err := resolveCard(commandContext(cmd), a, id)
	if err != nil {
		return err
	}

	var notes *string
	if len(args) > 1 {
		text := strings.Join(args[1:], " ")
		notes = &text
	}

	existed := a.list.Contains(card.ID)
	a.list.AddCard(card, notes)
	if existed {
		fmt.Printf("Updated %s (%s) in the list.\n", card.Name, card.ID)
	} else {
		fmt.Printf("Saved %s (%s) to the list.\n", card.Name, card.ID)
	}
	return nil
}

func runListNotes(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id := model.NormalizeCardID(args[0])
	entry, ok := a.list.Get(id)
	if !ok {
		return &cli.NotFoundError{Type: "list entry", ID: id}
	}

	var notes string
	switch {
	case listNotesClear:
		notes = ""
	case listNotesInteractive:
		notes, err = cli.EditNotes(entry.Card.Name, entry.Notes)
		if err != nil {
			return err
		}
	case len(args) > 1:
		notes = strings.Join(args[1:], " ")
	default:
		if entry.Notes == "" {
			fmt.Printf("%s has no notes.\n", entry.Card.Name)
		} else {
			fmt.Println(entry.Notes)
		}
		return nil
	}

	if notes == entry.Notes {
		fmt.Println("Notes unchanged.")
		return nil
	}
	a.list.UpdateCardNotes(id, notes)
	if notes == "" {
		fmt.Printf("Cleared notes for %s.\n", entry.Card.Name)
	} else {
		fmt.Printf("Updated notes for %s.\n", entry.Card.Name)
	}
	return nil
}

func runListRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id := model.NormalizeCardID(args[0])
	if !a.list.RemoveCard(id) {
		return &cli.NotFoundError{Type: "list entry", ID: id}
	}
	fmt.Printf("Removed %s from the list.\n", id)
	return nil
}

func runListClear(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n := a.list.Len()
	if n == 0 {
		fmt.Println("The list is already empty.")
		return nil
	}
	if !newPrompter(listClearYes).Confirm(fmt.Sprintf("Remove all %d cards from the list?", n)) {
		fmt.Println("List unchanged.")
		return nil
	}
	a.list.ClearList()
	fmt.Println("List cleared.")
	return nil
}

func runListShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.list.Len() == 0 {
		fmt.Println("The list is empty. Save cards with 'binder list add <id>'.")
		return nil
	}

	entries := a.list.Filter(listShowFilter)
	if len(entries) == 0 {
		fmt.Printf("No saved cards match %q.\n", listShowFilter)
		return nil
	}

	printListEntries(os.Stdout, entries)
	if len(entries) == a.list.Len() {
		fmt.Printf("\n%d cards\n", len(entries))
	} else {
		fmt.Printf("\n%d of %d cards\n", len(entries), a.list.Len())
	}
	return nil
}

// printListEntries writes a table of list entries with the first line of
// their notes.
func printListEntries(w io.Writer, entries []model.ListEntry) {
	table := cli.NewTable()
	table.SetMaxWidth(1, cli.DefaultMaxNameWidth)
	table.SetMaxWidth(5, 30)
	for _, e := range entries {
		note, _, _ := strings.Cut(e.Notes, "\n")
		table.AddRow(append(cardRow(e.Card), cli.Gray(note))...)
	}
	table.Render(w)
}

func runListStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.list.ListStats()
	fmt.Printf("Total cards:  %d\n", stats.TotalCards)
	fmt.Printf("Unique cards: %d\n", stats.UniqueCards)
	printBuckets(os.Stdout, "By rarity", stats.ByRarity)
	printBuckets(os.Stdout, "By type", stats.ByType)
	return nil
}

func runListExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t := clock()
	data, err := model.EncodeDocument(a.list.Export(t))
	if err != nil {
		return err
	}

	path := model.ExportFileName(t)
	if len(args) > 0 {
		path = args[0]
	}
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if !listExportForce {
		if _, err := os.Stat(path); err == nil {
			return &cli.ValidationError{Message: fmt.Sprintf("%s already exists (use --force to overwrite)", path)}
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Exported %d cards to %s\n", a.list.Len(), path)
	return nil
}

// modePrompter answers the replace/merge question with a fixed mode and
// passes every other question through.
type modePrompter struct {
	*cli.Prompter
	mode ops.ImportMode
}

func (p modePrompter) ChooseMode(existing int) (ops.ImportMode, bool) {
	return p.mode, true
}

// parseImportMode parses the --mode flag.
func parseImportMode(s string) (ops.ImportMode, error) {
	mode, err := cli.MatchCommand(strings.TrimSpace(s), []string{"replace", "merge"})
	if err != nil {
		return ops.ImportModeMerge, &cli.ValidationError{Field: "mode", Message: fmt.Sprintf("%q is not replace or merge", s)}
	}
	if mode == "replace" {
		return ops.ImportModeReplace, nil
	}
	return ops.ImportModeMerge, nil
}

func runListImport(cmd *cobra.Command, args []string) error {
	fromStdin := args[0] == "-"
	if fromStdin && !listImportYes {
		return &cli.ValidationError{Message: "importing from standard input needs --yes, answers cannot be read from it"}
	}

	var prompter ops.Prompter = newPrompter(listImportYes)
	if listImportMode != "" {
		mode, err := parseImportMode(listImportMode)
		if err != nil {
			return err
		}
		prompter = modePrompter{Prompter: newPrompter(listImportYes), mode: mode}
	}

	var data []byte
	var err error
	if fromStdin {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := ops.NewImporter(a.list, prompter, a.logger).Import(data)
	if err != nil {
		var docErr *model.DocumentError
		if errors.As(err, &docErr) {
			return fmt.Errorf("%w, list unchanged", err)
		}
		return err
	}

	fmt.Printf("Imported %d cards (%s)", result.Added, result.Mode)
	if result.Skipped > 0 {
		fmt.Printf(", skipped %d already saved", result.Skipped)
	}
	if result.Invalid > 0 {
		fmt.Printf(", ignored %d invalid entries", result.Invalid)
	}
	fmt.Printf(". The list has %d cards.\n", a.list.Len())
	return nil
}

func runListShare(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.list.Len() == 0 {
		fmt.Println("The list is empty, nothing to share.")
		return nil
	}
	shareText(os.Stdout, a.list.ShareText(), listSharePrint)
	return nil
}
