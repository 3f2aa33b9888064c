package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/cmd/copytree/opts"
)

const starterYAML = `# copytree configuration
source: ./src
target: ./dst

# Doublestar glob patterns, relative to source. Prefix with ! to exclude.
patterns:
  - "**"
  - "!**/*.tmp"

# clean_target: true       # empty the target before copying
# overwrite: true          # replace files that already exist
# flatten_folders: true    # drop directory structure, copy into the target root
# preserve_timestamp: true # carry source modification times onto copies
# follow_symlinks: true    # descend through directory symlinks during discovery

# retry_count: 3           # extra attempts per failed filesystem call
# retry_delay_ms: 100      # pause between attempts
`

const starterHCL = `# copytree configuration
source = "./src"
target = "./dst"

# Doublestar glob patterns, relative to source. Prefix with ! to exclude.
patterns = ["**", "!**/*.tmp"]

# clean_target       = true # empty the target before copying
# overwrite          = true # replace files that already exist
# flatten_folders    = true # drop directory structure, copy into the target root
# preserve_timestamp = true # carry source modification times onto copies
# follow_symlinks    = true # descend through directory symlinks during discovery

# retry_count    = 3   # extra attempts per failed filesystem call
# retry_delay_ms = 100 # pause between attempts
`

// NewInitCmd creates a new init command
func NewInitCmd(ro *opts.RootOpts) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Init writes a commented starter configuration to the path given by
--config. A .hcl path gets the HCL flavor, everything else YAML. The
write is atomic; an existing file is only replaced with --force.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ro.ConfigFile

			if !force {
				if _, err := os.Stat(path); err == nil {
					return errors.Errorf("%s already exists, use --force to replace it", path)
				}
			}

			starter := starterYAML
			if strings.ToLower(filepath.Ext(path)) == ".hcl" {
				starter = starterHCL
			}

			if err := atomic.WriteFile(path, strings.NewReader(starter)); err != nil {
				return errors.Errorf("writing %s: %w", path, err)
			}

			pterm.Success.Printfln("📝 wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing config file")

	return cmd
}
