package config

import (
	"fmt"
	"github.com/jumpkick/preon/binding"
	"github.com/spacemeshos/smutil"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
)

// Load builds the configuration from the defaults, the config file and the
// given flags, in increasing priority. A missing default config file is not
// an error; a missing explicitly given one is.
func Load(flags *pflag.FlagSet) (*Config, error) {
	vip := viper.New()
	if flags != nil {
		if err := vip.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %v", err)
		}
	}

	fileLocation := vip.GetString("config")
	if fileLocation == "" {
		fileLocation = DefaultConfigFile
	}
	fileLocation = smutil.GetCanonicalPath(fileLocation)

	if err := loadConfigFile(fileLocation, vip); err != nil {
		if fileLocation != smutil.GetCanonicalPath(DefaultConfigFile) || !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	cfg.ConfigFile = fileLocation

	cfg.HomeDir = smutil.GetCanonicalPath(cfg.HomeDir)
	cfg.LogDir = smutil.GetCanonicalPath(cfg.LogDir)
	cfg.DataDir = smutil.GetCanonicalPath(cfg.DataDir)
	if cfg.SchemaFile != "" {
		cfg.SchemaFile = smutil.GetCanonicalPath(cfg.SchemaFile)
	}

	// If the provided home directory is not the default, we'll modify the
	// path to all of the files and directories that will live within it.
	if cfg.HomeDir != smutil.GetCanonicalPath(DefaultHomeDir) {
		cfg.LogDir = cfg.HomeDir
		cfg.DataDir = filepath.Join(cfg.HomeDir, DefaultDataDirName)
	}

	return cfg, nil
}

func loadConfigFile(fileLocation string, vip *viper.Viper) error {
	if _, err := os.Stat(fileLocation); err != nil {
		return err
	}

	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	return nil
}

// LoadSchema reads a field schema from a TOML, YAML or JSON file, picked by
// the file extension.
func LoadSchema(fileLocation string) (binding.Schema, error) {
	var schema binding.Schema

	vip := viper.New()
	vip.SetConfigFile(smutil.GetCanonicalPath(fileLocation))
	if err := vip.ReadInConfig(); err != nil {
		return schema, fmt.Errorf("failed to read schema file: %v", err)
	}

	if err := vip.Unmarshal(&schema); err != nil {
		return schema, fmt.Errorf("failed to parse schema: %v", err)
	}

	if schema.Name == "" {
		base := filepath.Base(fileLocation)
		schema.Name = base[:len(base)-len(filepath.Ext(base))]
	}

	return schema, nil
}
