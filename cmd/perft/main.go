// Perft runner over the standard validation positions. Each position runs on
// its own goroutine; node counts print with digit grouping.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lodestar-chess/lodestar/pkg/common"
)

type perftPosition struct {
	name  string
	fen   string
	depth int
	nodes int
}

// https://www.chessprogramming.org/Perft_Results
var suite = []perftPosition{
	{"initial", common.InitialPositionFen, 5, 4865609},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 4, 2103487},
}

func main() {
	var flgDivide = flag.Bool("divide", false, "print per-move node counts")
	flag.Parse()

	var printer = message.NewPrinter(language.English)
	var start = time.Now()
	var g, _ = errgroup.WithContext(context.Background())

	for i := range suite {
		var test = suite[i]
		g.Go(func() error {
			var p, err = common.NewPositionFromFEN(test.fen)
			if err != nil {
				return fmt.Errorf("%s: %w", test.name, err)
			}
			var elapsed = time.Now()
			var nodes int
			if *flgDivide {
				var items, total = common.PerftDivide(&p, test.depth)
				for _, item := range items {
					printer.Printf("%s  %v: %d\n", test.name, item.Move, item.Nodes)
				}
				nodes = total
			} else {
				nodes = common.Perft(&p, test.depth)
			}
			var status = "ok"
			if nodes != test.nodes {
				status = printer.Sprintf("FAIL, want %d", test.nodes)
			}
			printer.Printf("%-10s depth %d: %d nodes in %v [%s]\n",
				test.name, test.depth, nodes, time.Since(elapsed).Round(time.Millisecond), status)
			if nodes != test.nodes {
				return fmt.Errorf("%s: got %d nodes, want %d", test.name, nodes, test.nodes)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	printer.Printf("suite completed in %v\n", time.Since(start).Round(time.Millisecond))
}
