// Fixture Server
//
// Serves the pages used to exercise browser waits by hand or from e2e
// tests: re-rendered regions, growing lists, popups, alerts, frames and
// focus changes, each applied after a configurable delay.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/stdr"

	"github.com/thesyncim/pagewait/cmd/fixture-server/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	delay := flag.Duration("delay", 300*time.Millisecond, "delay before each page update")
	verbosity := flag.Int("v", 0, "log verbosity")
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	cfg := server.DefaultConfig()
	cfg.Addr = *addr
	cfg.Delay = *delay
	cfg.Logger = logger

	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Error(err, "failed to create server")
		os.Exit(1)
	}
	if _, err := srv.Start(); err != nil {
		logger.Error(err, "failed to start server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "shutdown failed")
	}
}
