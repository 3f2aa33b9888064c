package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/copytree/cmd/copytree/opts"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file without copying anything",
		Long: `Validate loads the configuration, applies defaults and prints the
resolved run. Nothing on disk is touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			pterm.Success.Printfln("✅ %s is valid", ro.ConfigFile)
			pterm.Info.Printfln("   %s", cfg)
			pterm.Info.Printfln("   %d pattern(s), %d+1 attempts per filesystem call, %s between attempts",
				len(cfg.Patterns), cfg.RetryCount, cfg.RetryDelay())
			return nil
		},
	}

	return cmd
}
