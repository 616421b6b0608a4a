package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jacksmith/binder/internal/catalog"
	"github.com/jacksmith/binder/internal/cli"
	"github.com/jacksmith/binder/internal/ops"
	"github.com/jacksmith/binder/internal/search"
	"github.com/jacksmith/binder/internal/storage"
)

// stdin is read by interactive commands and prompts. Tests replace it.
var stdin io.Reader = os.Stdin

// app holds everything a command needs, wired from the .binder/ directory
// in the working directory and its .binderconfig.yaml.
type app struct {
	storage *storage.Storage
	config  *storage.Config
	logger  *logrus.Logger
	adapter *storage.Adapter
	catalog catalog.Repository
	deck    *ops.DeckStore
	list    *ops.ListStore
	history *search.History
}

// openApp opens storage in the working directory and builds the stores.
// The caller must Close the app.
func openApp() (*app, error) {
	s, err := storage.Open(".")
	if err != nil {
		return nil, err
	}

	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger, err := newLogger(level, os.Stderr)
	if err != nil {
		return nil, err
	}

	var backend storage.Backend
	if !flagEphemeral {
		backend, err = s.OpenBackend()
		if err != nil {
			return nil, err
		}
	}
	adapter := storage.NewAdapter(backend, logger)

	timeout, _ := cfg.TimeoutDuration()
	client := catalog.NewClient(catalog.Options{
		BaseURL:           cfg.APIURL,
		APIKey:            cfg.APIKey,
		Timeout:           timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})

	if flagNoColor {
		cli.SetColorEnabled(false)
	}

	return &app{
		storage: s,
		config:  cfg,
		logger:  logger,
		adapter: adapter,
		catalog: client,
		deck:    ops.NewDeckStore(adapter, logger),
		list:    ops.NewListStore(adapter, logger),
		history: search.NewHistory(adapter, logger),
	}, nil
}

// Close releases the storage backend and warns if state could not be saved.
func (a *app) Close() error {
	if a.adapter.Degraded() {
		fmt.Fprintln(os.Stderr, cli.Yellow("warning: changes could not be saved to disk and will be lost on exit"))
	}
	return a.adapter.Close()
}

// newController creates a search controller using the configured page size,
// or pageSize when it is positive.
func (a *app) newController(pageSize int) *search.Controller {
	if pageSize <= 0 {
		pageSize = a.config.PageSize
	}
	return search.NewController(a.catalog, pageSize, a.logger)
}

// newLogger builds the process logger. Output goes to w so command output
// on stdout stays clean.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, &cli.ValidationError{Field: "log level", Message: fmt.Sprintf("unknown level %q", level)}
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    !cli.IsTerminal(w),
	})
	return logger, nil
}

// commandContext returns the command's context, or a background context
// when the command runs outside cobra.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// newPrompter returns a prompter on stdin. With assumeYes every question is
// answered yes.
func newPrompter(assumeYes bool) *cli.Prompter {
	p := cli.NewPrompter(stdin, os.Stdout)
	p.AssumeYes = assumeYes
	return p
}
