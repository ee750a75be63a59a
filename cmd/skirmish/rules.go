package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/match"
	"github.com/milk9111/skirmish/rules"
	"github.com/milk9111/skirmish/trait"
)

var flagWatch bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect rules files",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Validate rulesets and scenarios",
	Long: `Validate rulesets and scenarios. Files ending in .scenario.yaml are
built into a match, which also loads their ruleset and map script. Other
files are parsed as rulesets. With --watch the files are checked again
whenever a file in the rules directory changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			files = []string{"default.yaml", cfg.GetString(cfgKeyScenario)}
		}
		out := cmd.OutOrStdout()

		failed := checkFiles(out, files)
		if !flagWatch {
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		}

		w, err := rules.NewWatcher(rules.Dir, filepath.Join(rules.Dir, "scripts"))
		if err != nil {
			return fmt.Errorf("watch %s: %w", rules.Dir, err)
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case name, ok := <-w.Events:
				if !ok {
					return nil
				}
				fmt.Fprintf(out, "changed: %s\n", name)
				checkFiles(out, files)
			case err, ok := <-w.Errors:
				if ok {
					log.WithError(err).Warn("rules: watch error")
				}
			}
		}
	},
}

func checkFiles(out io.Writer, files []string) int {
	failed := 0
	for _, file := range files {
		if err := checkFile(out, file); err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", file, err)
			failed++
		}
	}
	return failed
}

func checkFile(out io.Writer, file string) error {
	if strings.HasSuffix(file, ".scenario.yaml") {
		m, err := match.Load(file, match.Options{Log: log})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "ok   %s: %d players, %d entities\n", file, len(m.PlayerNames()), len(ecs.Entities(m.World)))
		return nil
	}
	rs, err := rules.LoadRuleset(file, trait.DefaultTypes())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ok   %s: %d actor types\n", file, len(rs.ActorNames()))
	return nil
}

func init() {
	rulesCheckCmd.Flags().BoolVar(&flagWatch, "watch", false, "check again when rules files change")
	rulesCmd.AddCommand(rulesCheckCmd)
}
