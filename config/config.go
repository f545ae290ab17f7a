// Package config owns the viper-backed settings: defaults, environment bindings and the TOML file.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/filesystem"
	"github.com/tubeplay-cli/tubeplay/where"
)

const fileType = "toml"

// EnvKeyReplacer maps configuration keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Path returns the location of tubeplay.toml.
func Path() string {
	return filepath.Join(where.Config(), constant.Tubeplay+"."+fileType)
}

// Setup registers defaults and environment bindings, then reads tubeplay.toml if it exists.
// A missing file is not an error.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Tubeplay)
	viper.SetConfigType(fileType)
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Tubeplay)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, k := range EnvExposed {
		viper.MustBindEnv(k)
	}

	viper.SetTypeByDefaultValue(true)
	for k, field := range Default {
		viper.SetDefault(k, field.Value)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Write saves the current settings, creating the file when there is none yet.
func Write() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfigAs(Path())
	}
	return err
}
