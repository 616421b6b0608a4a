package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/cli"
	"github.com/jacksmith/binder/internal/model"
	"github.com/jacksmith/binder/internal/storage"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the catalog by card name",
	Long: `Search the catalog for cards whose name matches the query.

All arguments are joined with spaces to form the query. Filters narrow the
search to an exact rarity, energy type, set name or supertype.

By default one page is fetched; --pages fetches more pages while the catalog
reports more results.

Examples:
  binder search charizard
  binder search pikachu --rarity "Rare Holo" --pages 3
  binder search "mr. mime" --set "Base" --supertype Pokémon`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchRarity    string
	searchType      string
	searchSet       string
	searchSupertype string
	searchPages     int
	searchPageSize  int
)

func init() {
	addFilterFlags(searchCmd)
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "number of pages to fetch")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "cards per page (default from .binderconfig.yaml)")
	rootCmd.AddCommand(searchCmd)
}

// addFilterFlags registers the search filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&searchRarity, "rarity", "", "only cards of this rarity")
	cmd.Flags().StringVar(&searchType, "type", "", "only cards of this energy type")
	cmd.Flags().StringVar(&searchSet, "set", "", "only cards from this set name")
	cmd.Flags().StringVar(&searchSupertype, "supertype", "", "only Pokémon, Trainer or Energy cards")
}

// searchFilters returns the filters given on the command line.
func searchFilters() model.SearchFilters {
	return model.SearchFilters{
		Rarity:    strings.TrimSpace(searchRarity),
		Type:      strings.TrimSpace(searchType),
		Set:       strings.TrimSpace(searchSet),
		Supertype: strings.TrimSpace(searchSupertype),
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchPages < 1 {
		return &cli.ValidationError{Field: "pages", Message: "must be at least 1"}
	}
	if searchPageSize != 0 && (searchPageSize < storage.MinPageSize || searchPageSize > storage.MaxPageSize) {
		return &cli.ValidationError{Field: "page size", Message: fmt.Sprintf("%d is not between %d and %d", searchPageSize, storage.MinPageSize, storage.MaxPageSize)}
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return &cli.ValidationError{Field: "query", Message: "must not be empty"}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	ctrl := a.newController(searchPageSize)
	ctrl.SetFilters(searchFilters())

	a.history.Add(query)
	if err := ctrl.Search(ctx, query); err != nil {
		return err
	}
	for i := 1; i < searchPages && ctrl.Snapshot().HasMore; i++ {
		if err := ctrl.LoadMore(ctx); err != nil {
			return err
		}
	}

	snap := ctrl.Snapshot()
	printResults(os.Stdout, snap, 0)
	printResultsFooter(os.Stdout, snap)
	return nil
}

// printResults writes a numbered table of results starting at index from.
// Numbers are 1-based positions in the whole result set.
func printResults(w io.Writer, snap model.SearchResultSet, from int) {
	if len(snap.Results) == 0 {
		fmt.Fprintf(w, "No cards found for %q.\n", snap.Query)
		return
	}

	table := cli.NewTable()
	table.SetMaxWidth(2, cli.DefaultMaxNameWidth)
	for i := from; i < len(snap.Results); i++ {
		row := append([]string{cli.Gray(fmt.Sprintf("%d", i+1))}, cardRow(snap.Results[i])...)
		table.AddRow(row...)
	}
	table.Render(w)
}

// printResultsFooter summarizes how much of the result set is shown.
func printResultsFooter(w io.Writer, snap model.SearchResultSet) {
	if len(snap.Results) == 0 {
		return
	}
	switch {
	case snap.TotalCount > 0:
		fmt.Fprintf(w, "\nShowing %d of %d cards", len(snap.Results), snap.TotalCount)
	default:
		fmt.Fprintf(w, "\nShowing %d cards", len(snap.Results))
	}
	if snap.HasMore {
		fmt.Fprint(w, " (more available)")
	}
	fmt.Fprintln(w)
}
