package opts

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/pkg/config"
	"github.com/walteh/copytree/pkg/fsops"
	"github.com/walteh/copytree/pkg/reconcile"
	"github.com/walteh/copytree/pkg/source"
	"github.com/walteh/copytree/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the path given by --config
	ConfigFile string
	// Debug mirrors --debug
	Debug bool
}

// LoadConfig loads and validates the configured file
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// NewOperator wires the real filesystem, the glob finder and the console
// reporter around cfg.
func (o *RootOpts) NewOperator(cfg *config.Config) (reconcile.Operator, error) {
	op, err := reconcile.New(reconcile.Options{
		Config: cfg,
		FS:     fsops.NewOS(),
		Finder: source.Finder{
			Root:           cfg.Source,
			Patterns:       cfg.Patterns,
			FollowSymlinks: cfg.FollowSymlinks,
		},
		Reporter: status.NewConsole(),
	})
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}

	return op, nil
}
