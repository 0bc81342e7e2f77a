package main

import (
	"fmt"

	"github.com/go-rod/rod/lib/proto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/thesyncim/pagewait/pkg/config"
	"github.com/thesyncim/pagewait/pkg/driver/roddriver"
	"github.com/thesyncim/pagewait/pkg/metrics"
	"github.com/thesyncim/pagewait/pkg/waitfor"
)

const (
	FlagURL     = "url"
	FlagPlan    = "plan"
	FlagConfig  = "config"
	FlagMetrics = "metrics"
)

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run a wait plan against a page in Chrome",
		Long: `Open a URL in Chrome and run the waits of a YAML plan in order.

Each step prints one line. The command fails at the first step that times
out or fails. Steps of kind frame leave the session inside the frame.`,
		Args:              cobra.NoArgs,
		RunE:              runProbe,
		DisableAutoGenTag: true,
	}
	cmd.Flags().String(FlagURL, "", "page to open")
	cmd.Flags().String(FlagPlan, "", "YAML wait plan")
	cmd.Flags().String(FlagConfig, "", "YAML config file (wait and browser settings)")
	cmd.Flags().Bool(FlagMetrics, false, "print wait metrics after the run")
	_ = cmd.MarkFlagRequired(FlagURL)
	_ = cmd.MarkFlagRequired(FlagPlan)
	return cmd
}

func runProbe(cmd *cobra.Command, _ []string) error {
	url, _ := cmd.Flags().GetString(FlagURL)
	planPath, _ := cmd.Flags().GetString(FlagPlan)
	cfgPath, _ := cmd.Flags().GetString(FlagConfig)
	printMetrics, _ := cmd.Flags().GetBool(FlagMetrics)

	log, err := logger(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	plan, err := LoadPlan(planPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := append(cfg.PollerOptions(),
		waitfor.WithLogger(log),
		waitfor.WithObserver(metrics.NewRecorder(reg)),
	)
	poller, err := waitfor.NewPoller(opts...)
	if err != nil {
		return err
	}

	browser, err := roddriver.Launch(roddriver.LaunchConfig{
		Headless: cfg.Browser.Headless,
		Bin:      cfg.Browser.Bin,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Error(err, "failed to close browser")
		}
	}()

	page, err := browser.Context(cmd.Context()).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}

	session := roddriver.New(browser, page, roddriver.WithLogger(log))
	defer session.Close()
	log.Info("probing", "url", url, "steps", len(plan.Steps), "session", session.String())

	runErr := plan.Run(cmd.Context(), poller, session, cmd.OutOrStdout())
	if printMetrics {
		if err := metrics.WriteText(cmd.OutOrStdout(), reg); err != nil {
			return err
		}
	}
	return runErr
}
