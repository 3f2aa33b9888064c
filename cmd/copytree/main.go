// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/walteh/copytree/cmd/copytree/commands"
	"github.com/walteh/copytree/cmd/copytree/opts"
)

func main() {
	ro := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "copytree",
		Short: "Copy a filtered file tree into a target directory",
		Long: `copytree mirrors the files selected by glob patterns from a source tree
into a target directory. Every filesystem call is retried with a bounded
budget, so short-lived faults (busy files, slow mounts) don't kill a run.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			ro.ConfigFile = configFile
			ro.Debug = debug
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewCopyCmd(ro),
		commands.NewCleanCmd(ro),
		commands.NewValidateCmd(ro),
		commands.NewInitCmd(ro),
		newVersionCmd(),
	)

	ctx := log.Logger.WithContext(context.Background())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
