package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/cli"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Long: `Show the 10 most recent searches, newest first.

Examples:
  binder history
  binder history --remove charizard
  binder history --clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyRemove string
	historyClear  bool
)

func init() {
	historyCmd.Flags().StringVar(&historyRemove, "remove", "", "forget one search")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "forget every search")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case historyClear:
		a.history.Clear()
		fmt.Println("Search history cleared.")
		return nil
	case historyRemove != "":
		query := strings.TrimSpace(historyRemove)
		if !a.history.Remove(query) {
			return &cli.NotFoundError{Type: "search", ID: fmt.Sprintf("%q", query)}
		}
		fmt.Printf("Removed %q from search history.\n", query)
		return nil
	}

	entries := a.history.Entries()
	if len(entries) == 0 {
		fmt.Println("No recent searches.")
		return nil
	}
	for i, q := range entries {
		fmt.Printf("%s %s\n", cli.Gray(fmt.Sprintf("%2d.", i+1)), q)
	}
	return nil
}
