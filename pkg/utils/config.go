// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"errors"
	"strings"

	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"

	"github.com/spf13/viper"
)

var (
	ConfigurationFileDirectory string
)

// LoadConfiguration merges configFileName (any extension viper knows) into
// the global viper instance. A missing file is only an error when required.
func LoadConfiguration(configFileName string, required bool) (bool, error) {
	viper.SetConfigName(configFileName)
	viper.AddConfigPath(ResolvePath(ConfigurationFileDirectory))
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.objfiledb")
	viper.AddConfigPath("/etc/objfiledb/")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if required {
				return false, err
			}
			logger.Debug().Str("config", configFileName).Msg("config file not found")
			return false, nil
		}
		return false, err
	}
	logger.Info().Str("config", viper.ConfigFileUsed()).Msg("loaded config file")

	return true, nil
}
