package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/lodestar-chess/lodestar/internal/console"
	"github.com/lodestar-chess/lodestar/pkg/engine"
	"github.com/lodestar-chess/lodestar/pkg/uci"
)

const (
	name   = "Lodestar"
	author = "The Lodestar authors"
)

var (
	versionName = "dev"
	flgHash     int
	flgConsole  bool
	flgMoveTime time.Duration
)

func main() {
	flag.IntVar(&flgHash, "hash", 64, "transposition table size in MB")
	flag.BoolVar(&flgConsole, "console", false, "play against the engine in the terminal")
	flag.DurationVar(&flgMoveTime, "movetime", 3*time.Second, "engine think time in console mode")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

	logger.Println(name,
		"VersionName", versionName,
		"RuntimeVersion", runtime.Version(),
		"GOARCH", runtime.GOARCH,
		"GOOS", runtime.GOOS,
	)

	var eng = engine.NewEngine()
	eng.Hash = flgHash

	if flgConsole {
		console.Run(eng, flgMoveTime)
		return
	}

	var protocol = uci.New(name, author, versionName, eng)
	protocol.Run(logger)
}
