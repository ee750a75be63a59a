package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "skirmish"
	configFileType = "yaml"
	envPrefix      = "SKIRMISH"

	cfgKeyRulesDir = "rules_dir"
	cfgKeyScenario = "scenario"
	cfgKeyTicks    = "ticks"
	cfgKeySeed     = "seed"
	cfgKeyScript   = "script"
)

// loadConfig layers flags over SKIRMISH_* env over skirmish.yaml over
// defaults. A missing config file is not an error.
func loadConfig(path string, cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyRulesDir, "rules")
	v.SetDefault(cfgKeyScenario, "skirmish.scenario.yaml")
	v.SetDefault(cfgKeyTicks, 200)
	v.SetDefault(cfgKeySeed, 1)
	v.SetDefault(cfgKeyScript, "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if f := cmd.Flags().Lookup("rules-dir"); f != nil {
		if err := v.BindPFlag(cfgKeyRulesDir, f); err != nil {
			return nil, err
		}
	}
	for _, key := range []string{cfgKeyScenario, cfgKeyTicks, cfgKeySeed, cfgKeyScript} {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}
