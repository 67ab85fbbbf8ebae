package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/tickerchain/config"
	"github.com/luca-patrignani/tickerchain/ledger"
	"github.com/luca-patrignani/tickerchain/ticker"
)

// app wires a ticker source to a freshly created blockchain.
type app struct {
	cfg    config.Config
	source ticker.Source
	logger *slog.Logger

	// out receives the JSON dump, status the human readable progress.
	out    io.Writer
	status io.Writer

	// interactive enables the banner and spinners.
	interactive bool
	spinner     *spinnerSlot
}

// spinnerSlot holds the spinner of the block being mined. The chain observer
// stops it before printing, so the mined line never shares the spinner line.
type spinnerSlot struct {
	current *pterm.SpinnerPrinter
}

func (s *spinnerSlot) start(w io.Writer, text string) {
	s.current, _ = pterm.DefaultSpinner.WithWriter(w).WithRemoveWhenDone().Start(text)
}

func (s *spinnerSlot) stop() {
	if s.current == nil {
		return
	}
	_ = s.current.Stop()
	s.current = nil
}

// run builds one blockchain from the observations of the source. A failed
// fetch is reported and leaves the chain with only its genesis block; it is
// not returned as an error. Mining and verification failures are returned
// together with whatever was mined before them.
func (a app) run(ctx context.Context) (*ledger.Blockchain, error) {
	if a.spinner == nil {
		a.spinner = &spinnerSlot{}
	}
	opts := []ledger.Option{
		ledger.WithDifficulty(a.cfg.Chain.Difficulty),
		ledger.WithMaxAttempts(a.cfg.Chain.MaxAttempts),
		ledger.WithLogger(a.logger),
		ledger.WithObserver(a.onMined),
	}
	var sealer *ledger.Sealer
	if a.cfg.Chain.Seal {
		sealer = ledger.NewSealer()
		opts = append(opts, ledger.WithSealer(sealer))
	}
	chain, err := ledger.NewBlockchain(opts...)
	if err != nil {
		return nil, err
	}

	if a.interactive {
		printBanner(a.status)
	}
	if sealer != nil {
		a.logger.Info("sealing blocks", "public_key", sealer.PublicKey())
	}

	observations, err := a.fetch(ctx)
	if err != nil {
		printFetchFailure(a.status, err)
		a.logger.Debug("ticker unavailable", "error", err)
		return chain, nil
	}

	pterm.Info.WithWriter(a.status).Println("Initializing blockchain...")
	for _, o := range observations {
		printObservation(a.status, o)
		if err := a.mine(ctx, chain, o); err != nil {
			printSummary(a.status, chain.Blocks())
			return chain, err
		}
	}

	if err := chain.Verify(); err != nil {
		return chain, fmt.Errorf("blockchain failed verification: %w", err)
	}
	printSummary(a.status, chain.Blocks())

	if a.cfg.Output == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(chain.Blocks()); err != nil {
			return chain, fmt.Errorf("failed to encode blockchain: %w", err)
		}
	}
	return chain, nil
}

func (a app) fetch(ctx context.Context) ([]ticker.Observation, error) {
	if !a.interactive {
		return a.source.Fetch(ctx)
	}
	spinner, _ := pterm.DefaultSpinner.WithWriter(a.status).Start("Fetching exchange rates ...")
	observations, err := a.source.Fetch(ctx)
	if err != nil {
		spinner.Fail()
		return nil, err
	}
	spinner.Success(fmt.Sprintf("Fetched %d exchange rates", len(observations)))
	return observations, nil
}

func (a app) onMined(b ledger.Block) {
	a.spinner.stop()
	printMined(a.status, b)
}

func (a app) mine(ctx context.Context, chain *ledger.Blockchain, o ticker.Observation) error {
	if a.interactive {
		a.spinner.start(a.status, "Mining ...")
	}
	_, err := chain.AppendPayload(ctx, o.Payload())
	a.spinner.stop()
	if err != nil {
		return fmt.Errorf("failed to commit %s: %w", o.Label, err)
	}
	return nil
}

// fetchFailureMessage maps a ticker error to the single line shown to the
// operator.
func fetchFailureMessage(err error) string {
	var parseErr *ticker.ParseError
	if errors.As(err, &parseErr) {
		return "Failed to parse bitcoin exchange rates"
	}
	return "Failed to fetch bitcoin exchange rates"
}
