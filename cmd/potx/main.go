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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "potx",
		Short: "Extract translatable strings and reconcile PO catalogs",
		Long: `potx scans source trees for translatable string literals using a
configurable, ordered pattern set, and reconciles the result against
PO translation catalogs with exact and fuzzy (edit-distance) matching.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		newExtractCmd(),
		newUpdateCmd(),
		newVersionCmd(),
	)

	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log := zerolog.New(os.Stderr).With().Timestamp().Logger()
		if zerolog.DefaultContextLogger != nil {
			log = *zerolog.DefaultContextLogger
		}
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
