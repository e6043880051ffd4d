// Package config loads the server's startup configuration: built-in
// defaults, optionally overridden by a YAML file, in turn overridden
// by command-line flags.
package config

import (
	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/pkg/errors"
)

// Config is the typed startup configuration for rhino-rox-server. It
// is distinct from the (explicitly out-of-scope) administrative hot
// configuration of running data structures: nothing here changes once
// the server has started.
type Config struct {
	TCPAddr    string `config:"tcpAddr"`
	UnixSocket string `config:"unixSocket"`
	LogLevel   string `config:"logLevel"`
	LogFile    string `config:"logFile"`
}

// Default returns the built-in configuration used when no file and no
// flags override it.
func Default() Config {
	return Config{
		TCPAddr:    ":6000",
		UnixSocket: "/tmp/rhino-rox.sock",
		LogLevel:   "info",
		LogFile:    "",
	}
}

// Load starts from Default, merges in path (a YAML file) if path is
// non-empty, and returns the result. A missing path is an error; an
// empty path is not — it simply means "no file, defaults only".
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	fileCfg, err := yaml.NewConfigWithFile(path, ucfg.PathSep("."))
	if err != nil {
		return Config{}, errors.Wrap(err, "load config file")
	}

	defaultCfg, err := ucfg.NewFrom(cfg, ucfg.PathSep("."))
	if err != nil {
		return Config{}, errors.Wrap(err, "build default config")
	}
	if err := defaultCfg.Merge(fileCfg, ucfg.PathSep(".")); err != nil {
		return Config{}, errors.Wrap(err, "merge config file")
	}
	if err := defaultCfg.Unpack(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unpack config")
	}
	return cfg, nil
}
