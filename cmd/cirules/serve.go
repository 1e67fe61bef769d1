package cirules

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		address  string
		jsonLogs bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   MsgServeShort,
		Long:    MsgServeLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonLogs {
				verbosity, _ := cmd.Root().PersistentFlags().GetCount("verbose")
				logging.Setup(logging.Options{Verbosity: max(verbosity, 1), JSON: true})
			}

			overrides := map[string]interface{}{}
			if address != "" {
				overrides["server.address"] = address
			}
			cfg, err := loadConfig(cmd, overrides)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			opts := server.Options{
				Evaluator:           newEvaluator(cfg),
				MaxWarnings:         cfg.Lint.MaxWarnings,
				InstrumentEnabled:   cfg.Instrumentation.Enabled,
				InstrumentThreshold: cfg.Instrumentation.LogThreshold,
			}
			if cfg.Server.Record {
				s, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				opts.Store = s
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(opts).Run(ctx, cfg.Server.Address, cfg.Server.ReadTimeout)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", MsgFlagAddress)
	cmd.Flags().BoolVar(&jsonLogs, "log-json", false, MsgFlagLogJSON)
	return cmd
}
