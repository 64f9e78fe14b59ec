// Package commands implements the enumtag command line.
package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/enumtag/config"
	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/logger"
)

// ErrStale is returned by check when generated files need regenerating.
// The report has already been printed.
var ErrStale = errors.New("generated files are out of date")

var (
	verbosity  int
	jsonOutput bool
	typeNames  []string
	buildTags  []string
	withTests  bool
	fileSuffix string

	// Set by setup for the running command
	cfg      *config.Config
	reporter Reporter
)

// RootCmd generates tags for the packages named on the command line.
var RootCmd = &cobra.Command{
	Use:   "enumtag [flags] [packages]",
	Short: "Generate payload-free tags for Go sum types",
	Long: `enumtag derives a tag enumeration for Go sum types.

A sum type is an interface with an unexported marker method; every type of
the same package declaring the marker methods is one of its variants. For each
sum type marked //enumtag:derive, enumtag writes:
  - ShapeTag, an integer type with one constant per variant
  - a Tag method on every variant
  - ShapeTagOf, which classifies any Shape without looking at its payload

Directives:
  //enumtag:derive          on a sum type: generate its tag
  //enumtag:repr uint8      on a sum type: integer type of the tag
  //enumtag:value 4         on a variant: explicit tag value

Examples:
  enumtag                         # Current package (also under go generate)
  enumtag ./...                   # Every package of the module
  enumtag -t Shape --stdout       # Print the tag of one type
  enumtag check ./...             # Fail if generated files are stale
  enumtag config show             # Show effective configuration`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runGenerate,
}

func init() {
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	RootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit JSON events and JSON logs")
	RootCmd.PersistentFlags().StringSliceVarP(&typeNames, "type", "t", nil, "Sum types to derive, even without //enumtag:derive (repeatable)")
	RootCmd.PersistentFlags().StringSliceVar(&buildTags, "tags", nil, "Build tags used to select files")
	RootCmd.PersistentFlags().BoolVar(&withTests, "tests", false, "Also derive sum types declared in _test.go files")
	RootCmd.PersistentFlags().StringVar(&fileSuffix, "suffix", "", "Generated file suffix (default "+config.DefaultFileSuffix+")")

	RootCmd.Flags().StringVarP(&outputName, "output", "o", "", "Output file name, relative to the package directory (single package only)")
	RootCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print generated code instead of writing files")

	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// flagKeys binds flags to configuration keys; a flag set on the command line
// overrides files and environment.
var flagKeys = map[string]string{
	"tags":   "load.build_tags",
	"tests":  "load.tests",
	"suffix": "output.file_suffix",
	"json":   "log.json",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", name)
		}
	}
	return nil
}

// setup loads configuration and initializes logging for every command.
func setup(cmd *cobra.Command, args []string) error {
	if cmd == VersionCmd {
		reporter = newReporter(jsonOutput, cmd.OutOrStdout(), cmd.ErrOrStderr(), verbosity)
		return nil
	}

	loaded, err := loadConfig(cmd)
	if err != nil {
		if cmd.Parent() != ConfigCmd {
			return err
		}
		// config subcommands report the problem themselves
		loaded = config.Default()
	}
	cfg = loaded

	logger.SetTheme(cfg.Log.Theme)
	if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	reporter = newReporter(cfg.Log.JSON, cmd.OutOrStdout(), cmd.ErrOrStderr(), verbosity)
	reporter.ConfigFiles(config.UsedFiles())
	logger.Debugw("verbosity",
		"level", logger.LevelName(verbosity),
		"shows", logger.VerbosityDescription(verbosity),
		"categories", logger.EnabledCategories(verbosity))
	logger.Debugw("configuration loaded",
		"files", config.UsedFiles(),
		"file_suffix", cfg.Output.FileSuffix,
		"build_tags", cfg.Load.BuildTags,
		"tests", cfg.Load.Tests)
	return nil
}

// loadConfig loads configuration with the persistent flags of cmd's root
// bound on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.GetViper()
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd.Root().PersistentFlags()); err != nil {
		return nil, err
	}
	return config.Load()
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.Cleanup()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, ErrStale) {
			return 1
		}
		rep := reporter
		if rep == nil {
			rep = newReporter(jsonOutput, RootCmd.OutOrStdout(), RootCmd.ErrOrStderr(), verbosity)
		}
		rep.Error(err)
		return 1
	}
	return 0
}
