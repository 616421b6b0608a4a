package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/cli"
	"github.com/jacksmith/binder/internal/model"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Show and edit the deck",
	Long: `Show and edit the deck.

The deck holds cards with a quantity from 1 to 99 each. Without a subcommand
the deck is shown.`,
	Args: cobra.NoArgs,
	RunE: runDeckShow,
}

var deckAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add cards to the deck",
	Long: `Add one copy of each card, or --count copies. Adding a card already in the
deck increases its quantity, up to 99.

Examples:
  binder deck add base1-4
  binder deck add base1-58 --count 4`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeSavedCardIDs,
	RunE:              runDeckAdd,
}

var deckRemoveCmd = &cobra.Command{
	Use:               "remove <id>",
	Short:             "Remove every copy of a card from the deck",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeDeckIDs,
	RunE:              runDeckRemove,
}

var deckQtyCmd = &cobra.Command{
	Use:   "qty <id> <n>",
	Short: "Set how many copies of a card are in the deck",
	Long: `Set the quantity of a card already in the deck. Quantities above 99 are
capped at 99. A quantity of 0 removes the card.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeDeckIDs,
	RunE:              runDeckQty,
}

var deckClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every card from the deck",
	Args:  cobra.NoArgs,
	RunE:  runDeckClear,
}

var deckShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the deck",
	Args:  cobra.NoArgs,
	RunE:  runDeckShow,
}

var deckStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show deck totals by rarity, type and set",
	Args:  cobra.NoArgs,
	RunE:  runDeckStats,
}

var deckShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Copy the deck as plain text to the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runDeckShare,
}

var (
	deckAddCount   int
	deckClearYes   bool
	deckSharePrint bool
)

func init() {
	deckAddCmd.Flags().IntVarP(&deckAddCount, "count", "n", 1, "number of copies to add")
	deckClearCmd.Flags().BoolVarP(&deckClearYes, "yes", "y", false, "do not ask for confirmation")
	deckShareCmd.Flags().BoolVar(&deckSharePrint, "print", false, "print instead of copying to the clipboard")

	deckCmd.AddCommand(deckAddCmd, deckRemoveCmd, deckQtyCmd, deckClearCmd, deckShowCmd, deckStatsCmd, deckShareCmd)
	rootCmd.AddCommand(deckCmd)
}

// addToDeck adds count copies of card.
func addToDeck(a *app, card model.Card, count int) {
	current := a.deck.CardQuantity(card.ID)
	a.deck.AddCard(card)
	if count > 1 {
		a.deck.UpdateQuantity(card.ID, current+count)
	}
}

func runDeckAdd(cmd *cobra.Command, args []string) error {
	if deckAddCount < 1 {
		return &cli.ValidationError{Field: "count", Message: "must be at least 1"}
	}

	ids := make([]string, len(args))
	for i, arg := range args {
		id, err := parseCardArg(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	for _, id := range ids {
		card, err := resolveCard(ctx, a, id)
		if err != nil {
			return err
		}
		addToDeck(a, card, deckAddCount)
		fmt.Printf("Added %s (%s), now x%d.\n", card.Name, card.ID, a.deck.CardQuantity(card.ID))
	}
	fmt.Printf("Deck has %d cards.\n", a.deck.TotalCards())
	return nil
}

func runDeckRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id := model.NormalizeCardID(args[0])
	if !a.deck.RemoveCard(id) {
		return &cli.NotFoundError{Type: "deck entry", ID: id}
	}
	fmt.Printf("Removed %s from the deck.\n", id)
	return nil
}

func runDeckQty(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return &cli.ValidationError{Field: "quantity", Message: fmt.Sprintf("%q is not a number from 0 to %d", args[1], model.MaxQuantity)}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id := model.NormalizeCardID(args[0])
	if !a.deck.UpdateQuantity(id, n) {
		return &cli.NotFoundError{Type: "deck entry", ID: id}
	}
	if n == 0 {
		fmt.Printf("Removed %s from the deck.\n", id)
		return nil
	}
	fmt.Printf("%s is now x%d.\n", id, a.deck.CardQuantity(id))
	return nil
}

func runDeckClear(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	total := a.deck.TotalCards()
	if total == 0 {
		fmt.Println("The deck is already empty.")
		return nil
	}
	if !newPrompter(deckClearYes).Confirm(fmt.Sprintf("Remove all %d cards from the deck?", total)) {
		fmt.Println("Deck unchanged.")
		return nil
	}
	a.deck.ClearDeck()
	fmt.Println("Deck cleared.")
	return nil
}

func runDeckShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.deck.Entries()
	if len(entries) == 0 {
		fmt.Println("The deck is empty. Add cards with 'binder deck add <id>'.")
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(2, cli.DefaultMaxNameWidth)
	for _, e := range entries {
		row := append([]string{fmt.Sprintf("%dx", e.Quantity)}, cardRow(e.Card)...)
		table.AddRow(row...)
	}
	table.Render(os.Stdout)
	fmt.Printf("\n%d cards, %d unique\n", a.deck.TotalCards(), a.deck.UniqueCards())
	return nil
}

func runDeckStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.deck.DeckStats()
	fmt.Printf("Total cards:  %d\n", stats.TotalCards)
	fmt.Printf("Unique cards: %d\n", stats.UniqueCards)
	printBuckets(os.Stdout, "By rarity", stats.ByRarity)
	printBuckets(os.Stdout, "By type", stats.ByType)
	printBuckets(os.Stdout, "By set", stats.BySet)
	return nil
}

func runDeckShare(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.deck.TotalCards() == 0 {
		fmt.Println("The deck is empty, nothing to share.")
		return nil
	}
	shareText(os.Stdout, a.deck.ShareText(), deckSharePrint)
	return nil
}

// printBuckets writes a titled table of counts, largest first.
func printBuckets(w io.Writer, title string, buckets map[string]int) {
	if len(buckets) == 0 {
		return
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if buckets[keys[i]] != buckets[keys[j]] {
			return buckets[keys[i]] > buckets[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(w, "\n%s:\n", cli.Bold(title))
	table := cli.NewTable()
	for _, k := range keys {
		table.AddRow("  "+k, strconv.Itoa(buckets[k]))
	}
	table.Render(w)
}
