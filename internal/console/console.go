// Package console is a small interactive board for playing the engine in a
// terminal. It is a development surface, not part of the UCI contract.
package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/lodestar-chess/lodestar/pkg/common"
	"github.com/lodestar-chess/lodestar/pkg/uci"
)

const (
	whiteKing   = "♔"
	whiteQueen  = "♕"
	whiteRook   = "♖"
	whiteBishop = "♗"
	whiteKnight = "♘"
	whitePawn   = "♙"
	blackKing   = "♚"
	blackQueen  = "♛"
	blackRook   = "♜"
	blackBishop = "♝"
	blackKnight = "♞"
	blackPawn   = "♟"
)

var chessSymbols = [2][7]string{
	{" ", whitePawn, whiteKnight, whiteBishop, whiteRook, whiteQueen, whiteKing},
	{" ", blackPawn, blackKnight, blackBishop, blackRook, blackQueen, blackKing},
}

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgCyan, color.FgBlack)
	frame       = color.New(color.Bold)
)

func printPosition(p *common.Position) {
	for rank := common.Rank8; rank >= common.Rank1; rank-- {
		frame.Printf(" %d ", rank+1)
		for file := common.FileA; file <= common.FileH; file++ {
			var sq = common.MakeSquare(file, rank)
			var piece, side = p.GetPieceTypeAndSide(sq)
			var symbol = " "
			if piece != common.Empty {
				if side {
					symbol = chessSymbols[0][piece]
				} else {
					symbol = chessSymbols[1][piece]
				}
			}
			if (file+rank)%2 == 0 {
				darkSquare.Printf(" %s ", symbol)
			} else {
				lightSquare.Printf(" %s ", symbol)
			}
		}
		fmt.Println()
	}
	frame.Print("   ")
	for file := common.FileA; file <= common.FileH; file++ {
		frame.Printf(" %c ", 'a'+file)
	}
	fmt.Println()
}

// Run plays a game human vs engine on stdin/stdout. The human plays White.
func Run(engine uci.Engine, moveTime time.Duration) {
	var p, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	var positions = []common.Position{p}
	var scanner = bufio.NewScanner(os.Stdin)

	engine.Prepare()

	for {
		var current = positions[len(positions)-1]
		printPosition(&current)

		if isGameOver(&current, positions) {
			return
		}

		if current.WhiteMove {
			fmt.Print("your move (e.g. e2e4, 'quit' to exit): ")
			if !scanner.Scan() {
				return
			}
			var input = strings.TrimSpace(scanner.Text())
			if input == "quit" {
				return
			}
			var move, ok = current.ParseMoveLAN(input)
			if !ok {
				fmt.Println("illegal move")
				continue
			}
			current.MakeMove(move)
			positions = append(positions, current)
		} else {
			var si = engine.Search(context.Background(), common.SearchParams{
				Positions: positions,
				Limits:    common.LimitsType{MoveTime: int(moveTime.Milliseconds())},
			})
			if len(si.MainLine) == 0 {
				return
			}
			var move = si.MainLine[0]
			fmt.Printf("engine plays %v (depth %d, score cp %d)\n",
				move, si.Depth, si.Score.Centipawns)
			current.MakeMove(move)
			positions = append(positions, current)
		}
	}
}

func isGameOver(p *common.Position, history []common.Position) bool {
	if len(common.GenerateLegalMoves(p)) == 0 {
		if p.InCheck() {
			if p.WhiteMove {
				fmt.Println("checkmate, engine wins")
			} else {
				fmt.Println("checkmate, you win")
			}
		} else {
			fmt.Println("stalemate")
		}
		return true
	}
	if p.Rule50 >= 100 {
		fmt.Println("draw by fifty-move rule")
		return true
	}
	var repeats = 0
	for i := range history {
		if history[i].Key == p.Key {
			repeats++
		}
	}
	if repeats >= 3 {
		fmt.Println("draw by threefold repetition")
		return true
	}
	return false
}
