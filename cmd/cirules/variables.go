package cirules

import (
	"github.com/arthur-debert/cirules/pkg/variables"
	"github.com/spf13/cobra"
)

func newVariablesCmd() *cobra.Command {
	var (
		pf    pipelineFlags
		job   string
		stage string
	)

	cmd := &cobra.Command{
		Use:     "variables",
		Short:   MsgVariablesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			vars, err := parseVars(pf.vars)
			if err != nil {
				return err
			}

			collection := pf.pipelineInfo().Variables()
			catalogs := [][]variables.Definition{variables.Predefined}
			if job != "" {
				collection.Merge(variables.JobVariables(job, stage))
				catalogs = append(catalogs, variables.JobPredefined)
			}
			collection.Merge(vars)
			return renderer.RenderResult(variables.Describe(collection, catalogs...))
		},
	}

	pf.registerPipeline(cmd)
	cmd.Flags().StringVar(&job, "job", "", MsgFlagJob)
	cmd.Flags().StringVar(&stage, "stage", "", MsgFlagStage)
	return cmd
}
