package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/comalice/statepattern"
	"github.com/comalice/statepattern/internal/production"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if err := run(os.Stdout, logger, cfg); err != nil {
		logger.Error("demo failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run builds one context in StateA, issues request one then request two
// per cycle, and closes it.
func run(w io.Writer, logger *slog.Logger, cfg config) error {
	recorder := &production.Recorder{}

	// The YAML format replaces the line transcript.
	out := w
	if cfg.Format == formatYAML {
		out = io.Discard
	}

	c := statepattern.NewContext(&statepattern.StateA{},
		statepattern.WithOutput(out),
		statepattern.WithLogger(logger),
		statepattern.WithPublisher(recorder),
	)
	logger.Info("context created", slog.String("context_id", c.ID().String()), slog.Int("cycles", cfg.Cycles))

	for i := 0; i < cfg.Cycles; i++ {
		c.RequestOne()
		c.RequestTwo()
	}

	if cfg.DOT {
		fmt.Fprint(w, production.ExportDOT(statepattern.Chart(), c.Current()))
	}
	c.Close()

	if cfg.Format == formatYAML {
		data, err := recorder.YAML()
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
	}
	logger.Info("context closed", slog.Int("transitions", len(recorder.Transitions())))
	return nil
}
