package cirules

import (
	"github.com/arthur-debert/cirules/internal/hashutil"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/pipeline"
	"github.com/arthur-debert/cirules/pkg/store"
	"github.com/spf13/cobra"
)

func newEvaluateCmd() *cobra.Command {
	var (
		flags      pipelineFlags
		file       string
		compareTo  string
		record     bool
		instrument bool
	)

	cmd := &cobra.Command{
		Use:     "evaluate",
		Short:   MsgEvaluateShort,
		Long:    MsgEvaluateLong,
		Example: MsgEvaluateExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.evaluate")

			overrides := map[string]interface{}{}
			if compareTo != "" {
				overrides["evaluation.compare_to"] = compareTo
			}
			if instrument {
				overrides["instrumentation.enabled"] = true
			}
			cfg, err := loadConfig(cmd, overrides)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			def, err := pipeline.Load(file)
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, cfg)
			if err != nil {
				return err
			}
			req.Definition = def

			logger.Info().
				Str("file", file).
				Str("ref", req.Pipeline.Ref).
				Str("definition", pipeline.Describe(def)).
				Msg("Evaluating pipeline rules")

			result, evalErr := newEvaluator(cfg).Evaluate(cmd.Context(), req)

			if record {
				s, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				rec := store.NewRecord(req.Pipeline.Ref, result, evalErr)
				if rec.DefinitionChecksum, err = hashutil.FileChecksum(file); err != nil {
					return err
				}
				if err := s.SaveEvaluation(cmd.Context(), rec); err != nil {
					return err
				}
				logger.Info().Msgf(MsgRecorded, rec.ID)
			}

			if evalErr != nil {
				if err := renderer.RenderError(evalErr); err != nil {
					return err
				}
				return &reportedError{err: evalErr}
			}
			return renderer.RenderResult(result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", ".gitlab-ci.yml", MsgFlagFile)
	cmd.Flags().StringVar(&compareTo, "compare-to-mode", "", MsgFlagCompareTo)
	cmd.Flags().BoolVar(&record, "record", false, MsgFlagRecord)
	cmd.Flags().BoolVar(&instrument, "instrument", false, MsgFlagInstrument)
	return cmd
}
