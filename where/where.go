// Package where resolves the per-user filesystem locations the application reads and writes.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/filesystem"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "TUBEPLAY_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config returns the configuration directory, honouring TUBEPLAY_CONFIG_PATH first
// and the platform config home (XDG_CONFIG_HOME on Linux) otherwise.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Tubeplay))
}

// Cache returns the cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Tubeplay))
}

// Logs returns the directory daily log files are written to.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Downloads returns the default destination for fetched media: ~/Downloads/tubeplay,
// or a directory under the working directory when no home is available.
func Downloads() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ensureDir(filepath.Join(".", "downloads"))
	}
	return ensureDir(filepath.Join(home, "Downloads", constant.Tubeplay))
}

// History returns the path of the download history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Temp returns a scratch directory for transient artifacts such as frame snapshots.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Tubeplay))
}
