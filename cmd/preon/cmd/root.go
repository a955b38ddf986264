package cmd

import (
	"fmt"
	"github.com/jumpkick/preon/binding"
	"github.com/jumpkick/preon/codec"
	"github.com/jumpkick/preon/config"
	"github.com/jumpkick/preon/shared"
	"github.com/spacemeshos/smutil/log"
	"github.com/spf13/cobra"
	"os"
)

var (
	// Version is the version of the binary.
	Version string

	// Commit is the commit hash of the binary.
	Commit string
)

var cfg = config.DefaultConfig()

var logger shared.Logger = shared.DisabledLogger{}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "preon",
	Short: "Decode and encode bit-level binary records",
	Long: `Preon binds a declarative schema of fields to codecs, and uses them to
decode records from a bit stream or encode records back into one.
Fields are read most-significant bit first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		*cfg = *loaded

		log.DebugMode(cfg.LogDebug)
		log.InitSpacemeshLoggingSystem(cfg.LogDir, "preon.log")
		logger = log.AppLog

		logger.Debug("preon %v (%v), schema: %v, datadir: %v", Version, Commit, cfg.SchemaFile, cfg.DataDir)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfg.ConfigFile, "config",
		"", "Path to configuration file")

	flags.StringVar(&cfg.HomeDir, "homedir",
		cfg.HomeDir, "The directory that contains the data, logs, configuration file, etc.")

	flags.StringVar(&cfg.DataDir, "datadir",
		cfg.DataDir, "The directory to store record snapshots within")

	flags.StringVar(&cfg.LogDir, "logdir",
		cfg.LogDir, "Directory to log output")

	flags.BoolVar(&cfg.LogDebug, "logdebug",
		cfg.LogDebug, "Whether to enable debug logging")

	flags.StringVarP(&cfg.SchemaFile, "schema", "s",
		cfg.SchemaFile, "Path to the field schema (TOML, YAML or JSON)")

	flags.Uint64Var(&cfg.BitBudget, "bit-budget",
		cfg.BitBudget, "Maximum number of bits a decode may consume (0 for the input length)")
}

func newBinder() (*binding.Binder, error) {
	schema, err := config.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	return binding.NewBinder(schema, codec.DefaultRegistry(), logger)
}
