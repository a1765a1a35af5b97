package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/secondbrain/internal/config"
	"github.com/mesh-intelligence/secondbrain/internal/paths"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string       `yaml:"backend"`
	DataDir string       `yaml:"data_dir,omitempty"`
	Server  serverConfig `yaml:"server"`
	Log     logConfig    `yaml:"log"`
}

type serverConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	Mode    string `yaml:"mode"`
}

type logConfig struct {
	Prefix string `yaml:"prefix"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Create the configuration and data directories, write config.yaml if it is\nmissing, then initialize the storage backend.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, config.FileExt)
	if err := writeConfigIfMissing(configPath, a.flags.dataDir); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if _, err := a.attach(); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized secondbrain\nconfig: %s\ndata:   %s\n", configPath, dataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is left untouched.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			return err
		}
		dataDir = abs
	}

	cfg := configFile{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		Server: serverConfig{
			Address: config.DefaultAddress,
			Port:    config.DefaultPort,
			Mode:    config.DefaultMode,
		},
		Log: logConfig{Prefix: config.DefaultPrefix},
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
