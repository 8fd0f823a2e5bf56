package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// loadSettings reads the file given with --config, then the first file found
// in the default locations, and falls back to the built-in defaults.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("Using the default settings: %v", err)
			return entities.DefaultSettings()
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	return entities.NewSettings(configPath)
}
