package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize binder in the current directory",
	Long: `Create a .binder/ directory holding the deck, the list and search history.

The file backend (default) keeps one YAML file per store under .binder/data/.
The sqlite backend keeps everything in .binder/binder.db.

Settings such as the catalog URL and API key go in .binderconfig.yaml next to
.binder/. The file is optional and never written by binder.

Fails if .binder/ already exists in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initBackend string

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", storage.BackendFile, "storage backend (file or sqlite)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := storage.Init(".", initBackend)
	if err != nil {
		return err
	}

	cfg, err := s.StorageConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Initialized binder in .binder/ (%s backend)\n", cfg.Backend)
	return nil
}
