package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-commando/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the commando WebSocket server",
	Long: `Start an HTTP server that hosts games for browser clients.

Each WebSocket connection on /ws plays its own game. The server sends a
JSON snapshot every frame and a message for every game signal; clients
send {"type":"fire","x":..,"y":..}, {"type":"reset"}, {"type":"welcome"}
and {"type":"dismiss"}. Coordinates are playfield units.

/healthz reports the number of connected players.

Examples:
  commando web
  commando web --addr 127.0.0.1:9000 --fps 30`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "commando-web")

	cfg := web.DefaultConfig()
	cfg.Address = flagWebAddr
	cfg.Game = loadConfig()
	cfg.FPS = flagFPS
	cfg.Seed = flagSeed

	opts := []web.Option{web.WithLogger(logger)}
	if journal := openJournal(logger); journal != nil {
		defer journal.Close()
		opts = append(opts, web.WithJournal(journal))
	}
	server := web.NewServer(cfg, opts...)

	fmt.Printf("Starting commando web server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		fatalf("server: %v", err)
	}
}
