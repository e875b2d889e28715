// Package main is the entry point for the gitstage application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/chmouel/gitstage/internal/app"
	"github.com/chmouel/gitstage/internal/config"
	"github.com/chmouel/gitstage/internal/log"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "gitstage: %v\n", r)
			os.Exit(1)
		}
	}()

	cliApp := &cli.Command{
		Name:  "gitstage",
		Usage: "a terminal UI for staging, committing, and pushing git changes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-file", Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "debug-log", Usage: "write debug output to this file"},
			&cli.StringFlag{Name: "remote", Usage: "override the push remote"},
			&cli.StringFlag{Name: "branch", Usage: "override the push branch"},
			&cli.DurationFlag{Name: "refresh-interval", Usage: "polling interval for repository refresh"},
			&cli.BoolFlag{Name: "no-watch", Usage: "disable filesystem watch-based auto-refresh"},
		},
		Action: run,
	}

	if err := cliApp.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	debugLog := cmd.String("debug-log")
	if debugLog == "" {
		debugLog = cfg.DebugLog
	}
	if err := log.SetFile(debugLog); err != nil {
		fmt.Fprintf(os.Stderr, "error opening debug log %q: %v\n", debugLog, err)
	}

	if remote := cmd.String("remote"); remote != "" {
		cfg.Remote = remote
	}
	if branch := cmd.String("branch"); branch != "" {
		cfg.Branch = branch
	}
	if d := cmd.Duration("refresh-interval"); d > 0 {
		cfg.RefreshInterval = d
	}
	if cmd.Bool("no-watch") {
		cfg.DisableWatch = true
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	orch := app.New(cfg, cwd)
	if err := orch.Run(ctx); err != nil {
		_ = log.Close()
		return fmt.Errorf("run: %w", err)
	}
	return log.Close()
}
