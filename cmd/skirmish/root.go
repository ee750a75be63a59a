package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/milk9111/skirmish/logger"
	"github.com/milk9111/skirmish/rules"
)

// Global flag values.
var (
	flagConfig   string
	flagRulesDir string
)

var (
	cfg *viper.Viper
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "skirmish",
	Short:         "Headless skirmish simulation",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg, err := logger.LoadConfig()
		if err != nil {
			return err
		}
		log = logger.New(logCfg, cmd.ErrOrStderr())

		cfg, err = loadConfig(flagConfig, cmd)
		if err != nil {
			return err
		}
		rules.Dir = cfg.GetString(cfgKeyRulesDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./skirmish.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagRulesDir, "rules-dir", "", "directory checked for rules before the embedded defaults (default: rules)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(rulesCmd)
}
