package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesyncim/pagewait/cmd/fixture-server/server"
)

const (
	FlagAddr  = "addr"
	FlagDelay = "delay"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "serve",
		Short:             "Serve the fixture pages",
		Args:              cobra.NoArgs,
		RunE:              runServe,
		DisableAutoGenTag: true,
	}
	cmd.Flags().String(FlagAddr, ":8080", "listen address")
	cmd.Flags().Duration(FlagDelay, 300*time.Millisecond, "delay before each page update")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString(FlagAddr)
	delay, _ := cmd.Flags().GetDuration(FlagDelay)

	log, err := logger(cmd)
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Addr = addr
	cfg.Delay = delay
	cfg.Logger = log
	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	if _, err := srv.Start(); err != nil {
		return err
	}

	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
