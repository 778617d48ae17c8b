package main

import (
	"github.com/matsen/refdoi/internal/config"
)

// loadSettings merges the global config file, REFDOI_* environment and
// flag overrides.
func loadSettings(flags config.Overrides) (config.Settings, error) {
	file, err := config.LoadGlobalConfig()
	if err != nil {
		return config.Settings{}, err
	}
	env, err := config.LoadEnv()
	if err != nil {
		return config.Settings{}, err
	}
	return config.Resolve(file, env, flags)
}

// mustLoadSettings is loadSettings that exits with ExitConfigError on failure.
func mustLoadSettings(flags config.Overrides) config.Settings {
	s, err := loadSettings(flags)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return s
}
