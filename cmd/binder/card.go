package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/catalog"
	"github.com/jacksmith/binder/internal/cli"
	"github.com/jacksmith/binder/internal/model"
)

var cardCmd = &cobra.Command{
	Use:   "card <id>",
	Short: "Show a card from the catalog",
	Long: `Show the details of one card, fetched from the catalog by ID.

Card IDs combine the set ID and the collector number, e.g. base1-4 or
swsh12pt5-160. The output also shows how many copies are in the deck and
whether the card is in the list.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeSavedCardIDs,
	RunE:              runCard,
}

func init() {
	rootCmd.AddCommand(cardCmd)
}

func runCard(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := parseCardArg(args[0])
	if err != nil {
		return err
	}

	card, err := a.catalog.GetCard(commandContext(cmd), id)
	if err != nil {
		if errors.Is(err, catalog.ErrCardNotFound) {
			return &cli.NotFoundError{Type: "card", ID: id}
		}
		return err
	}

	printCardDetails(os.Stdout, a, card)
	return nil
}

// parseCardArg validates and normalizes a card ID given on the command line.
func parseCardArg(s string) (string, error) {
	setID, number, err := model.ParseCardID(s)
	if err != nil {
		return "", &cli.ValidationError{Field: "card ID", Message: fmt.Sprintf("%q should look like base1-4", strings.TrimSpace(s))}
	}
	return model.FormatCardID(setID, number), nil
}

// resolveCard finds a card by ID. Cards already in the deck or list are
// reused so that no catalog request is needed.
func resolveCard(ctx context.Context, a *app, id string) (model.Card, error) {
	for _, e := range a.deck.Entries() {
		if e.Card.ID == id {
			return e.Card, nil
		}
	}
	if e, ok := a.list.Get(id); ok {
		return e.Card, nil
	}

	card, err := a.catalog.GetCard(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrCardNotFound) {
			return model.Card{}, &cli.NotFoundError{Type: "card", ID: id}
		}
		return model.Card{}, err
	}
	return *card, nil
}

// printCardDetails writes every known field of a card plus its deck and
// list membership.
func printCardDetails(w io.Writer, a *app, card *model.Card) {
	fmt.Fprintf(w, "%s  %s\n", cli.Bold(card.Name), cli.Gray(card.ID))

	set := card.Set.Name
	if card.Set.Series != "" {
		set += " (" + card.Set.Series + ")"
	}
	fmt.Fprintf(w, "Set:       %s\n", set)
	if card.Number != "" {
		if card.Set.PrintedTotal > 0 {
			fmt.Fprintf(w, "Number:    %s/%d\n", card.Number, card.Set.PrintedTotal)
		} else {
			fmt.Fprintf(w, "Number:    %s\n", card.Number)
		}
	}
	fmt.Fprintf(w, "Rarity:    %s\n", cli.RarityColor(card.Rarity))
	if card.Supertype != "" {
		kind := card.Supertype
		if len(card.Subtypes) > 0 {
			kind += " - " + strings.Join(card.Subtypes, ", ")
		}
		fmt.Fprintf(w, "Kind:      %s\n", kind)
	}
	fmt.Fprintf(w, "Types:     %s\n", cli.FormatTypes(card.Types))
	if card.Artist != "" {
		fmt.Fprintf(w, "Artist:    %s\n", card.Artist)
	}
	if card.Images.Large != "" {
		fmt.Fprintf(w, "Image:     %s\n", card.Images.Large)
	}

	if a == nil {
		return
	}
	if n := a.deck.CardQuantity(card.ID); n > 0 {
		fmt.Fprintf(w, "In deck:   %s\n", cli.Green(fmt.Sprintf("%d", n)))
	} else {
		fmt.Fprintf(w, "In deck:   %s\n", cli.Gray("no"))
	}
	if e, ok := a.list.Get(card.ID); ok {
		fmt.Fprintf(w, "In list:   %s\n", cli.Green("yes"))
		if e.Notes != "" {
			fmt.Fprintf(w, "\nNotes:\n")
			for _, line := range strings.Split(e.Notes, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	} else {
		fmt.Fprintf(w, "In list:   %s\n", cli.Gray("no"))
	}
}

// cardRow returns the table columns shown for a card in search results and
// list output.
func cardRow(card model.Card) []string {
	return []string{
		card.ID,
		card.Name,
		card.Set.Name,
		cli.RarityColor(card.Rarity),
		cli.FormatTypes(card.Types),
	}
}
