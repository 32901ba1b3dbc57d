package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	grimoirecmd "github.com/louisbranch/grimoire.cards/internal/cmd/grimoire"
)

// main starts the deck-building MCP server on stdio.
func main() {
	cfg, err := grimoirecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[grimoire] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := grimoirecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
