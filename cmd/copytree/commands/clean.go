package commands

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/cmd/copytree/opts"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Empty the target directory",
		Long: `Clean removes everything inside the target directory without copying
anything. The directory itself is kept so watchers and working
directories stay valid. An absent target is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "clean").Logger().WithContext(ctx)

			cfg, err := ro.LoadConfig(ctx)
			if err != nil {
				return err
			}

			op, err := ro.NewOperator(cfg)
			if err != nil {
				return err
			}

			if err := op.Clean(ctx); err != nil {
				return errors.Errorf("cleaning target: %w", err)
			}

			pterm.Success.Printfln("🧹 cleaned %s", cfg.Target)
			return nil
		},
	}

	return cmd
}
