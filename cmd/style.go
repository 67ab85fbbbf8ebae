package main

import (
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/tickerchain/ledger"
	"github.com/luca-patrignani/tickerchain/ticker"
)

func printBanner(w io.Writer) {
	_ = pterm.DefaultBigText.WithWriter(w).WithLetters(
		putils.LettersFromStringWithStyle("Ticker", pterm.FgYellow.ToStyle()),
		putils.LettersFromStringWithStyle("Chain", pterm.FgDarkGray.ToStyle()),
	).Render()
}

func printObservation(w io.Writer, o ticker.Observation) {
	pterm.Info.WithWriter(w).Printfln("Mining block for storing the following values into the blockchain: (%3s)%10d %s", o.Label, o.Value, o.Symbol)
}

func printMined(w io.Writer, b ledger.Block) {
	pterm.Success.WithWriter(w).Printfln("Block mined: %s", b.Hash)
}

func printFetchFailure(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(fetchFailureMessage(err))
}

func printSummary(w io.Writer, blocks []ledger.Block) {
	data := [][]string{{"Index", "Label", "Value", "Nonce", "Hash"}}
	for _, b := range blocks {
		hash := b.Hash
		if hash == "" {
			hash = "-"
		}
		data = append(data, []string{
			strconv.Itoa(b.Index),
			b.Payload.Label,
			strconv.Itoa(b.Payload.Value),
			strconv.FormatInt(b.Nonce, 10),
			hash,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithWriter(w).WithData(data).Render()
}
