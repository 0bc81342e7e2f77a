package main

import (
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
)

const FlagVerbosity = "verbosity"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pagewait",
		Short:             "Wait for browser page state",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	cmd.PersistentFlags().IntP(FlagVerbosity, "v", 0, "log verbosity (1: progress, 2: transient errors)")
	cmd.AddCommand(newProbeCmd(), newServeCmd())
	return cmd
}

// logger builds a stderr logger at the verbosity set on cmd.
func logger(cmd *cobra.Command) (logr.Logger, error) {
	v, err := cmd.Flags().GetInt(FlagVerbosity)
	if err != nil {
		return logr.Discard(), err
	}
	stdr.SetVerbosity(v)
	return stdr.New(log.New(cmd.ErrOrStderr(), "", log.LstdFlags)), nil
}
