// Package config loads the brain configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

const (
	fileName = "config"
	fileType = "yaml"

	// FileExt is the name of the configuration file inside the config directory.
	FileExt = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. BRAIN_SERVER_PORT.
	EnvPrefix = "BRAIN"
)

// Config keys.
const (
	KeyBackend       = "backend"
	KeyDataDir       = "data_dir"
	KeyServerAddress = "server.address"
	KeyServerPort    = "server.port"
	KeyServerMode    = "server.mode"
	KeyLogPrefix     = "log.prefix"
)

// Defaults.
const (
	DefaultBackend = types.BackendSQLite
	DefaultAddress = "127.0.0.1"
	DefaultPort    = 8080
	DefaultMode    = "release"
	DefaultPrefix  = "brain: "
)

// DefaultYAML is written to config.yaml on first run.
const DefaultYAML = `# secondbrain configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

server:
  address: 127.0.0.1
  port: 8080
  mode: release

log:
  prefix: "brain: "
`

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

type LogConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// Config is the decoded configuration file.
type Config struct {
	Backend string       `mapstructure:"backend"`
	DataDir string       `mapstructure:"data_dir"`
	Server  ServerConfig `mapstructure:"server"`
	Log     LogConfig    `mapstructure:"log"`
}

// Store returns the backend selection with the data directory resolved by
// the caller.
func (c Config) Store(dataDir string) types.Config {
	return types.Config{Backend: c.Backend, DataDir: dataDir}
}

// Load reads config.yaml from configDir. It creates the directory and a
// default config.yaml on first run. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := newViper()
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyServerAddress, DefaultAddress)
	v.SetDefault(KeyServerPort, DefaultPort)
	v.SetDefault(KeyServerMode, DefaultMode)
	v.SetDefault(KeyLogPrefix, DefaultPrefix)
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func ensureDefaultFile(configDir string) error {
	path := filepath.Join(configDir, FileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(DefaultYAML), 0o644)
}
