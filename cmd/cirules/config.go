package cirules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/cirules/pkg/config"
	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var (
		defaults bool
		initFile bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case defaults:
				_, err := fmt.Fprintln(out, config.GenerateConfigContent())
				return err
			case initFile:
				xdg.Reload()
				path := config.DefaultConfigPath()
				if _, err := os.Stat(path); err == nil {
					return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExist, path).WithDetail("path", path)
				}
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return errors.Wrap(err, errors.ErrConfigLoad, "cannot create config directory")
				}
				if err := os.WriteFile(path, []byte(config.GenerateConfigContent()), 0644); err != nil {
					return errors.Wrap(err, errors.ErrConfigLoad, "cannot write config file")
				}
				_, err := fmt.Fprintf(out, MsgConfigWritten+"\n", path)
				return err
			}

			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			dump, err := cfg.Dump()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot render configuration")
			}
			_, err = fmt.Fprint(out, dump)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	cmd.Flags().BoolVar(&initFile, "init", false, MsgFlagInit)
	cmd.MarkFlagsMutuallyExclusive("defaults", "init")
	return cmd
}
