package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/cmd/copytree/opts"
	"github.com/walteh/copytree/pkg/config"
)

// copyFlags holds the per-run overrides for the copy command
type copyFlags struct {
	source            string
	target            string
	patterns          []string
	cleanTarget       bool
	overwrite         bool
	flattenFolders    bool
	preserveTimestamp bool
	followSymlinks    bool
	retryCount        int
	retryDelayMS      int
}

// apply overlays every flag the user explicitly set onto cfg
func (f *copyFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("source") {
		cfg.Source = f.source
	}
	if cmd.Flags().Changed("target") {
		cfg.Target = f.target
	}
	if cmd.Flags().Changed("pattern") {
		cfg.Patterns = f.patterns
	}
	if cmd.Flags().Changed("clean") {
		cfg.CleanTarget = f.cleanTarget
	}
	if cmd.Flags().Changed("overwrite") {
		cfg.Overwrite = f.overwrite
	}
	if cmd.Flags().Changed("flatten") {
		cfg.FlattenFolders = f.flattenFolders
	}
	if cmd.Flags().Changed("preserve-timestamp") {
		cfg.PreserveTimestamp = f.preserveTimestamp
	}
	if cmd.Flags().Changed("follow-symlinks") {
		cfg.FollowSymlinks = f.followSymlinks
	}
	if cmd.Flags().Changed("retry-count") {
		cfg.RetryCount = f.retryCount
	}
	if cmd.Flags().Changed("retry-delay-ms") {
		cfg.RetryDelayMS = f.retryDelayMS
	}
}

// NewCopyCmd creates a new copy command
func NewCopyCmd(ro *opts.RootOpts) *cobra.Command {
	flags := &copyFlags{}

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the selected files into the target",
		Long: `Copy discovers every file matching the configured patterns and
reconciles the target directory with the selection. It will:
1. Clean the target first when clean_target is set
2. Create target directories as needed
3. Copy each file, retrying transient failures
4. Report an outcome for every file

Flags override the config file. With --source and --target, no config
file is needed at all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "copy").Logger().WithContext(ctx)

			cfg, err := loadOrBuildConfig(ctx, cmd, ro, flags)
			if err != nil {
				return err
			}

			op, err := ro.NewOperator(cfg)
			if err != nil {
				return err
			}

			if _, err := op.Run(ctx); err != nil {
				return errors.Errorf("copying files: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "", "source root to copy from")
	cmd.Flags().StringVar(&flags.target, "target", "", "target root to copy into")
	cmd.Flags().StringArrayVar(&flags.patterns, "pattern", nil, "glob pattern, repeatable, prefix with ! to exclude")
	cmd.Flags().BoolVar(&flags.cleanTarget, "clean", false, "empty the target before copying")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "replace files that already exist")
	cmd.Flags().BoolVar(&flags.flattenFolders, "flatten", false, "copy every file into the target root")
	cmd.Flags().BoolVar(&flags.preserveTimestamp, "preserve-timestamp", false, "carry source modification times onto copies")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend through directory symlinks")
	cmd.Flags().IntVar(&flags.retryCount, "retry-count", 0, "extra attempts per failed filesystem call")
	cmd.Flags().IntVar(&flags.retryDelayMS, "retry-delay-ms", 0, "pause between attempts in milliseconds")

	return cmd
}

// loadOrBuildConfig loads the config file and overlays the copy flags. When
// the file is absent but --source and --target are both given, the run is
// configured from flags alone.
func loadOrBuildConfig(ctx context.Context, cmd *cobra.Command, ro *opts.RootOpts, flags *copyFlags) (*config.Config, error) {
	if _, statErr := os.Stat(ro.ConfigFile); os.IsNotExist(statErr) {
		if cmd.Flags().Changed("source") && cmd.Flags().Changed("target") {
			cfg := &config.Config{}
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return nil, errors.Errorf("validating flags: %w", err)
			}
			return cfg, nil
		}
	}

	cfg, err := ro.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config after flag overrides: %w", err)
	}

	return cfg, nil
}
