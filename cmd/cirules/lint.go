package cirules

import (
	"os"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/lint"
	"github.com/spf13/cobra"
)

func newLintCmd() *cobra.Command {
	var (
		flags       pipelineFlags
		file        string
		dryRun      bool
		maxWarnings int
	)

	cmd := &cobra.Command{
		Use:     "lint",
		Short:   MsgLintShort,
		Long:    MsgLintLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if maxWarnings > 0 {
				overrides["lint.max_warnings"] = maxWarnings
			}
			cfg, err := loadConfig(cmd, overrides)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrapf(err, errors.ErrNotFound, "cannot read pipeline definition %s", file).
					WithDetail("path", file)
			}

			opts := lint.Options{
				MaxWarnings: cfg.Lint.MaxWarnings,
				DryRun:      dryRun,
				Instrument:  newInstrument(cfg),
			}
			if dryRun {
				req, err := flags.request(cmd, cfg)
				if err != nil {
					return err
				}
				opts.Request = req
				opts.Evaluator = newEvaluator(cfg)
			}

			res := lint.Source(cmd.Context(), data, opts)
			if err := renderer.RenderResult(res); err != nil {
				return err
			}
			if !res.Valid {
				return &reportedError{err: errors.Newf(errors.ErrDefinitionInvalid, "%s is invalid", file)}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", ".gitlab-ci.yml", MsgFlagFile)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().IntVar(&maxWarnings, "max-warnings", 0, MsgFlagMaxWarnings)
	return cmd
}
