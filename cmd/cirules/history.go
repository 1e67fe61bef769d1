package cirules

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history [id]",
		Short:   MsgHistoryShort,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if len(args) == 1 {
				rec, err := s.GetEvaluation(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return renderer.RenderResult(rec)
			}

			recs, err := s.ListEvaluations(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return renderer.RenderMessage(MsgNoHistory)
			}
			return renderer.RenderResult(recs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, MsgFlagLimit)
	return cmd
}
