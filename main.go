// ipne is the interactive terminal harness for the dungeon engine.
//
// Usage:
//
//	ipne [--seed N] [--fov 8] [--log ipne.log] [--no-record]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"ipne/internal/game"
	"ipne/internal/runlog"
)

func main() {
	seed := flag.Int64("seed", 0, "RNG seed (0 picks one from the clock)")
	fov := flag.Int("fov", game.DefaultFOVRadius, "Field of view radius in tiles")
	logPath := flag.String("log", "", "Write a development log to this file")
	noRecord := flag.Bool("no-record", false, "Do not append finished runs to the run log")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	logger, err := newLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	opts := game.Options{Seed: *seed, FOVRadius: *fov, Logger: logger}
	if !*noRecord {
		if dir, err := runlog.Dir(); err == nil {
			opts.RecordDir = dir
		} else {
			logger.Warn("run log disabled", zap.Error(err))
		}
	}

	g, err := game.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := g.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a no-op logger unless a log file is requested; the
// terminal belongs to the game screen.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
