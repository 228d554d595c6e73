// Package config prepares the Viper instance the CLI reads its settings
// from: a config file found on the search path, LEGISLATION_* environment
// variables, and command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	appconfig "github.com/JakeFAU/legislation-crawler/internal/config"
)

// New returns a Viper instance with the search paths and environment
// bindings set. Nothing is read yet.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/legislation-crawler/")
	v.AddConfigPath("$HOME/.legislation-crawler")

	v.SetEnvPrefix(appconfig.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadOptional reads path, or searches for a config file when path is
// empty. A missing file on the search path is not an error; the returned
// string is the file used, if any.
func ReadOptional(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}
