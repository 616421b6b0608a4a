package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/cli"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for binder.

To load completions:

Bash:
  $ source <(binder completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ binder completion bash > /etc/bash_completion.d/binder
  # macOS:
  $ binder completion bash > $(brew --prefix)/etc/bash_completion.d/binder

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ binder completion zsh > "${fpath[1]}/_binder"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ binder completion fish | source
  # To load completions for each session, execute once:
  $ binder completion fish > ~/.config/fish/completions/binder.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Long:  "Generate the autocompletion script for bash.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletion(os.Stdout)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Long:  "Generate the autocompletion script for zsh.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Long:  "Generate the autocompletion script for fish.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completeDeckIDs completes IDs of cards in the deck.
func completeDeckIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeCardIDs(true, false, toComplete)
}

// completeListIDs completes IDs of cards in the list.
func completeListIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeCardIDs(false, true, toComplete)
}

// completeSavedCardIDs completes IDs of cards in either the deck or the list.
func completeSavedCardIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeCardIDs(true, true, toComplete)
}

// completeCardIDs is a helper that returns deck and/or list card IDs with
// the card name as description.
func completeCardIDs(includeDeck, includeList bool, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := openApp()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer a.Close()

	seen := make(map[string]bool)
	var completions []string
	toCompleteLower := strings.ToLower(toComplete)

	add := func(id, name string) {
		if seen[id] || !strings.HasPrefix(strings.ToLower(id), toCompleteLower) {
			return
		}
		seen[id] = true
		completions = append(completions, id+"\t"+cli.Truncate(name, cli.DefaultMaxNameWidth))
	}

	if includeDeck {
		for _, e := range a.deck.Entries() {
			add(e.Card.ID, e.Card.Name)
		}
	}
	if includeList {
		for _, e := range a.list.Entries() {
			add(e.Card.ID, e.Card.Name)
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}
