package cirules

import (
	stderrors "errors"
	"strings"

	"github.com/arthur-debert/cirules/internal/version"
	"github.com/arthur-debert/cirules/pkg/config"
	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/evaluator"
	"github.com/arthur-debert/cirules/pkg/instrument"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/store"
	"github.com/arthur-debert/cirules/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// reportedError marks a failure whose details were already rendered to the
// command output. main exits non-zero without printing it again.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already rendered
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		verbosity  int
		configPath string
		format     string
	)

	rootCmd := &cobra.Command{
		Use:     "cirules",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.Formats(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVariablesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// loadConfig loads the configuration named by --config, applying overrides
func loadConfig(cmd *cobra.Command, overrides map[string]interface{}) (*config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.Load(path, overrides)
}

// newRenderer builds the renderer selected by --format on the command output
func newRenderer(cmd *cobra.Command) (ui.Renderer, error) {
	raw, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func newEvaluator(cfg *config.Config) *evaluator.Evaluator {
	return evaluator.New(evaluator.Options{
		CompareTo:             cfg.CompareToMode(),
		Workers:               cfg.Evaluation.Workers,
		MaxPatternComparisons: cfg.Evaluation.MaxPatternComparisons,
	})
}

// newInstrument returns nil when instrumentation is disabled
func newInstrument(cfg *config.Config) *instrument.Logger {
	if !cfg.Instrumentation.Enabled {
		return nil
	}
	l := instrument.New(true)
	if cfg.Instrumentation.LogThreshold > 0 {
		l.LogWhen(instrument.SlowerThan(cfg.Instrumentation.LogThreshold))
	}
	return l
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// parseVars turns KEY=VALUE pairs into a map
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrInvalidVar, pair).WithDetail("variable", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
