package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lodestar-chess/lodestar/pkg/common"
)

type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

type Protocol struct {
	name         string
	author       string
	version      string
	engine       Engine
	positions    []common.Position
	thinking     bool
	engineOutput chan common.SearchInfo
	cancel       context.CancelFunc
}

func New(name, author, version string, engine Engine) *Protocol {
	var initPosition, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    engine,
		positions: []common.Position{initPosition},
	}
}

func (uci *Protocol) Run(logger *log.Logger) {
	var commands = make(chan string)

	go func() {
		defer close(commands)
		readCommands(commands)
	}()

	var searchResult common.SearchInfo
	for {
		select {
		case si, ok := <-uci.engineOutput:
			if ok {
				fmt.Println(searchInfoToUci(si))
				searchResult = si
			} else {
				if len(searchResult.MainLine) != 0 {
					fmt.Printf("bestmove %v\n", searchResult.MainLine[0])
				} else {
					fmt.Println("bestmove 0000")
				}
				uci.thinking = false
				uci.cancel = nil
				uci.engineOutput = nil
				searchResult = common.SearchInfo{}
			}
		case commandLine, ok := <-commands:
			if !ok {
				// quit
				return
			}
			var err = uci.handle(commandLine)
			if err != nil {
				fmt.Printf("info string %v\n", err)
				logger.Println(err)
			}
		}
	}
}

func readCommands(commands chan<- string) {
	var scanner = bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var commandLine = scanner.Text()
		if commandLine == "quit" {
			return
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
}

func (uci *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if uci.thinking {
		if commandName == "stop" {
			uci.cancel()
			return nil
		}
		return errors.New("search still run")
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "stop":
		h = func([]string) error { return nil }
	}

	if h == nil {
		return fmt.Errorf("unknown command %s", commandName)
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	fmt.Printf("id name %s %s\n", uci.name, uci.version)
	fmt.Printf("id author %s\n", uci.author)
	fmt.Println("uciok")
	return nil
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	uci.engine.Prepare()
	fmt.Println("readyok")
	return nil
}

func (uci *Protocol) positionCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("position: missing arguments")
	}
	var token = fields[0]
	var fen string
	var movesIndex = findIndexString(fields, "moves")
	if token == "startpos" {
		fen = common.InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(fields[1:], " ")
		} else {
			fen = strings.Join(fields[1:movesIndex], " ")
		}
	} else {
		return errors.New("unknown position command")
	}
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []common.Position{p}
	if movesIndex >= 0 && movesIndex+1 < len(fields) {
		for _, smove := range fields[movesIndex+1:] {
			var current = positions[len(positions)-1]
			var move, ok = current.ParseMoveLAN(smove)
			if !ok {
				// An illegal move invalidates the rest of the line; keep what
				// was applied so far.
				fmt.Printf("info string illegal move %s\n", smove)
				break
			}
			current.MakeMove(move)
			positions = append(positions, current)
		}
	}
	uci.positions = positions
	return nil
}

func (uci *Protocol) goCommand(fields []string) error {
	if len(fields) > 0 && fields[0] == "perft" {
		return uci.goPerftCommand(fields[1:])
	}
	var limits, err = parseLimits(fields)
	if err != nil {
		return err
	}
	var ctx, cancel = context.WithCancel(context.Background())
	uci.cancel = cancel
	uci.thinking = true
	uci.engineOutput = make(chan common.SearchInfo, 3)
	go func() {
		var searchResult = uci.engine.Search(ctx, common.SearchParams{
			Positions: uci.positions,
			Limits:    limits,
			Progress: func(si common.SearchInfo) {
				select {
				case uci.engineOutput <- si:
				default:
				}
			},
		})
		uci.engineOutput <- searchResult
		close(uci.engineOutput)
	}()
	return nil
}

func (uci *Protocol) goPerftCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("Invalid perft")
	}
	var depth, err = strconv.Atoi(fields[0])
	if err != nil || depth <= 0 {
		return errors.New("Invalid perft depth")
	}
	var p = uci.positions[len(uci.positions)-1]
	var items, total = common.PerftDivide(&p, depth)
	for _, item := range items {
		fmt.Printf("%v: %d\n", item.Move, item.Nodes)
	}
	fmt.Println()
	fmt.Printf("Nodes searched: %d\n", total)
	return nil
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.Clear()
	return nil
}

func searchInfoToUci(si common.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v seldepth %v", si.Depth, si.SelDepth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v nps %v hashfull %v time %v", si.Nodes, nps, si.HashFull, timeMs)
	if len(si.MainLine) != 0 {
		fmt.Fprintf(sb, " pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func parseLimits(args []string) (result common.LimitsType, err error) {
	var atoi = func(i int) int {
		if err != nil {
			return 0
		}
		if i >= len(args) {
			err = fmt.Errorf("Invalid %s", args[i-1])
			return 0
		}
		var v, convErr = strconv.Atoi(args[i])
		if convErr != nil {
			err = fmt.Errorf("Invalid %s", args[i-1])
			return 0
		}
		return v
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime":
			result.WhiteTime = atoi(i + 1)
			i++
		case "btime":
			result.BlackTime = atoi(i + 1)
			i++
		case "winc":
			result.WhiteIncrement = atoi(i + 1)
			i++
		case "binc":
			result.BlackIncrement = atoi(i + 1)
			i++
		case "movestogo":
			result.MovesToGo = atoi(i + 1)
			i++
		case "depth":
			result.Depth = atoi(i + 1)
			i++
		case "nodes":
			result.Nodes = atoi(i + 1)
			i++
		case "movetime":
			result.MoveTime = atoi(i + 1)
			i++
		case "infinite":
			result.Infinite = true
		}
	}
	return result, err
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
