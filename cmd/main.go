// Command cards prints tombola cards for playing on paper.
//
//	go run ./cmd -n 6 --format text
//	go run ./cmd -n 2 --format json --seed 42
package main

import (
	game_constants "Tombola/constants/game"
	"Tombola/services/game"
	"Tombola/utils/logger"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

func main() {
	count := pflag.IntP("count", "n", 1, "number of cards to print")
	format := pflag.StringP("format", "f", "text", "output format: text or json")
	seed := pflag.Uint64("seed", 0, "seed for a reproducible set of cards (0 is random)")
	pflag.Parse()

	if *count < 1 {
		logger.Fatalf("count must be positive, got %d", *count)
	}

	rng := game.DefaultRand()
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	}

	cards := make([]*game.Card, 0, *count)
	for i := 0; i < *count; i++ {
		card, err := game.GenerateCard(rng)
		if err != nil {
			logger.Fatalf("generating card %d: %v", i+1, err)
		}
		cards = append(cards, card)
	}

	var err error
	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(cards)
	case "text":
		err = printCards(os.Stdout, cards)
	default:
		logger.Fatalf("unknown format %q", *format)
	}
	if err != nil {
		logger.Fatalf("writing cards: %v", err)
	}
}

func printCards(w io.Writer, cards []*game.Card) error {
	border := "+" + strings.Repeat("----+", game_constants.CardColumns)
	for i, card := range cards {
		if _, err := fmt.Fprintf(w, "Card %d\n%s\n", i+1, border); err != nil {
			return err
		}
		for _, row := range card.Rows {
			var b strings.Builder
			b.WriteString("|")
			for _, cell := range row {
				if cell == nil {
					b.WriteString("    |")
					continue
				}
				fmt.Fprintf(&b, " %2d |", cell.Number)
			}
			if _, err := fmt.Fprintf(w, "%s\n%s\n", b.String(), border); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
