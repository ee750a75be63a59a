package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/milk9111/skirmish/match"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario headless for a number of ticks",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := match.Load(cfg.GetString(cfgKeyScenario), match.Options{
			Script: cfg.GetString(cfgKeyScript),
			Seed:   cfg.GetInt64(cfgKeySeed),
			Log:    log,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if err := m.Run(ctx, cfg.GetInt(cfgKeyTicks)); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "match %s: %d frames\n", m.ID, m.World.Frame())
		for _, name := range m.PlayerNames() {
			e, _ := m.Player(name)
			if p, ok := m.Planner(e); ok && len(p.Requests) > 0 {
				fmt.Fprintf(out, "  %s: %d production requests\n", name, len(p.Requests))
			}
		}
		if errs := m.TaskErrors(); len(errs) > 0 {
			fmt.Fprintf(out, "  %d deferred task failures\n", len(errs))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String(cfgKeyScenario, "skirmish.scenario.yaml", "scenario file")
	runCmd.Flags().Int(cfgKeyTicks, 200, "ticks to run; 0 runs until interrupted")
	runCmd.Flags().Int64(cfgKeySeed, 1, "planner random seed")
	runCmd.Flags().String(cfgKeyScript, "", `script override; "-" disables the map script`)
}
