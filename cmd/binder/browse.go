package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/cli"
	"github.com/jacksmith/binder/internal/search"
)

var browseCmd = &cobra.Command{
	Use:   "browse [query]...",
	Short: "Search interactively and add results to the deck or list",
	Long: `Start an interactive search session.

Results are numbered. Commands can be shortened to any unique prefix:
  more               fetch the next page of results
  deck <n> [count]   add result n to the deck (count copies, default 1)
  list <n> [notes]   save result n to the list, with optional notes
  show <n>           show the details of result n
  search <query>     start a new search
  clear              clear the results
  help               show this help
  quit               leave (end of input also quits)`,
	RunE: runBrowse,
}

var browseCommands = []string{"more", "deck", "list", "show", "search", "clear", "help", "quit"}

const browseHelp = `Commands:
  more               fetch the next page of results
  deck <n> [count]   add result n to the deck
  list <n> [notes]   save result n to the list
  show <n>           show result n
  search <query>     start a new search
  clear              clear the results
  help               show this help
  quit               leave browse
`

func init() {
	addFilterFlags(browseCmd)
	browseCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "cards per page (default from .binderconfig.yaml)")
	rootCmd.AddCommand(browseCmd)
}

// browser is one interactive browse session.
type browser struct {
	app  *app
	ctrl *search.Controller
	in   *bufio.Reader
	out  io.Writer
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController(searchPageSize)
	ctrl.SetFilters(searchFilters())

	b := &browser{app: a, ctrl: ctrl, in: bufio.NewReader(stdin), out: os.Stdout}
	ctx := commandContext(cmd)

	if query := strings.TrimSpace(strings.Join(args, " ")); query != "" {
		b.search(ctx, query)
	} else {
		fmt.Fprint(b.out, browseHelp)
	}
	return b.loop(ctx)
}

// loop reads commands until quit, end of input, or cancellation.
func (b *browser) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(b.out, "binder> ")
		line, err := b.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(b.out)
			return nil
		}

		command, args, perr := cli.ParseCommandLine(line, browseCommands)
		if perr != nil {
			fmt.Fprintln(b.out, cli.FormatError(perr))
			continue
		}
		if command == "quit" {
			return nil
		}
		if err := b.run(ctx, command, args); err != nil {
			fmt.Fprintln(b.out, cli.FormatError(err))
		}
	}
}

// run executes one browse command.
func (b *browser) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "":
		return nil
	case "help":
		fmt.Fprint(b.out, browseHelp)
	case "search":
		query := strings.Join(args, " ")
		if strings.TrimSpace(query) == "" {
			return &cli.ValidationError{Field: "query", Message: "must not be empty"}
		}
		b.search(ctx, query)
	case "more":
		b.more(ctx)
	case "clear":
		b.ctrl.Clear()
		fmt.Fprintln(b.out, "Results cleared.")
	case "show":
		idx, err := b.resultIndex(args)
		if err != nil {
			return err
		}
		card := b.ctrl.Snapshot().Results[idx]
		printCardDetails(b.out, b.app, &card)
	case "deck":
		idx, err := b.resultIndex(args)
		if err != nil {
			return err
		}
		count := 1
		if len(args) > 1 {
			count, err = strconv.Atoi(args[1])
			if err != nil || count < 1 {
				return &cli.ValidationError{Field: "count", Message: fmt.Sprintf("%q is not a positive number", args[1])}
			}
		}
		card := b.ctrl.Snapshot().Results[idx]
		addToDeck(b.app, card, count)
		fmt.Fprintf(b.out, "Deck: %s x%d (%d cards total)\n", card.Name, b.app.deck.CardQuantity(card.ID), b.app.deck.TotalCards())
	case "list":
		idx, err := b.resultIndex(args)
		if err != nil {
			return err
		}
		card := b.ctrl.Snapshot().Results[idx]
		var notes *string
		if len(args) > 1 {
			text := strings.Join(args[1:], " ")
			notes = &text
		}
		existed := b.app.list.Contains(card.ID)
		b.app.list.AddCard(card, notes)
		if existed {
			fmt.Fprintf(b.out, "List: %s updated\n", card.Name)
		} else {
			fmt.Fprintf(b.out, "List: %s saved (%d cards)\n", card.Name, b.app.list.Len())
		}
	}
	return nil
}

// search starts a new search and prints the first page.
func (b *browser) search(ctx context.Context, query string) {
	b.app.history.Add(query)
	if err := b.ctrl.Search(ctx, query); err != nil {
		if !errors.Is(err, search.ErrSuperseded) {
			fmt.Fprintln(b.out, cli.FormatError(err))
		}
		return
	}
	snap := b.ctrl.Snapshot()
	printResults(b.out, snap, 0)
	printResultsFooter(b.out, snap)
}

// more fetches the next page and prints only the new rows.
func (b *browser) more(ctx context.Context) {
	before := b.ctrl.Snapshot()
	if !before.HasMore || len(before.Results) == 0 {
		fmt.Fprintln(b.out, "No more results.")
		return
	}
	if err := b.ctrl.LoadMore(ctx); err != nil {
		if !errors.Is(err, search.ErrSuperseded) {
			fmt.Fprintln(b.out, cli.FormatError(err))
		}
		return
	}
	after := b.ctrl.Snapshot()
	if len(after.Results) > len(before.Results) {
		printResults(b.out, after, len(before.Results))
	}
	printResultsFooter(b.out, after)
}

// resultIndex parses the 1-based result number in args[0].
func (b *browser) resultIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, &cli.ValidationError{Field: "result number", Message: "missing"}
	}
	n, err := strconv.Atoi(args[0])
	total := len(b.ctrl.Snapshot().Results)
	if err != nil || n < 1 || n > total {
		return 0, &cli.ValidationError{Field: "result number", Message: fmt.Sprintf("%q is not between 1 and %d", args[0], total)}
	}
	return n - 1, nil
}
