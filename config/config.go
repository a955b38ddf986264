package config

import (
	"fmt"
	"github.com/spacemeshos/smutil"
	"path/filepath"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataDirName    = "data"
	DefaultLogDebug       = false

	// MaxBitBudget caps the bits a single decode may consume: 128GB.
	MaxBitBudget = 1 << 40
)

var (
	DefaultHomeDir    = filepath.Join(smutil.GetUserHomeDirectory(), "preon")
	DefaultDataDir    = filepath.Join(DefaultHomeDir, DefaultDataDirName)
	DefaultConfigFile = filepath.Join(DefaultHomeDir, DefaultConfigFileName)
)

type Config struct {
	HomeDir    string `mapstructure:"homedir"`
	ConfigFile string `mapstructure:"config"`
	DataDir    string `mapstructure:"datadir"`
	LogDir     string `mapstructure:"logdir"`
	LogDebug   bool   `mapstructure:"logdebug"`

	// SchemaFile is the field schema the codecs are built from.
	SchemaFile string `mapstructure:"schema"`

	// BitBudget limits the bits a decode may consume. Zero means the length
	// of the input.
	BitBudget uint64 `mapstructure:"bit-budget"`
}

func (cfg *Config) Validate() error {
	if cfg.SchemaFile == "" {
		return fmt.Errorf("invalid `SchemaFile`; expected: a path, given: none")
	}

	if cfg.BitBudget > MaxBitBudget {
		return fmt.Errorf("invalid `BitBudget`; expected: <= %d, given: %d", uint64(MaxBitBudget), cfg.BitBudget)
	}

	if cfg.DataDir == "" {
		return fmt.Errorf("invalid `DataDir`; expected: a path, given: none")
	}

	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HomeDir:    DefaultHomeDir,
		ConfigFile: DefaultConfigFile,
		DataDir:    DefaultDataDir,
		LogDir:     DefaultHomeDir,
		LogDebug:   DefaultLogDebug,
	}
}
