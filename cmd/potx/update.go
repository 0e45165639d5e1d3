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
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/potx/pkg/catalog"
	"github.com/walteh/potx/pkg/status"
)

// newUpdateCmd creates the update command: scan sources and reconcile
// an existing PO catalog in place.
func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <catalog.po> [paths...]",
		Short: "Scan sources and reconcile an existing PO catalog",
		Long: `update scans the given paths (default ".") and merges the found
keywords into catalog.po: exact matches refresh references, close
matches carry their translation over flagged fuzzy, vanished ids are
pruned as obsolete.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := zerolog.Ctx(ctx)
	reporter := status.NewReporter(os.Stdout, *log, verbose)

	cfg, err := buildConfig(ctx, cmd)
	if err != nil {
		return err
	}

	catalogPath := args[0]
	reporter.Header("updating " + catalogPath)

	cat, diags, err := readCatalog(catalogPath)
	if err != nil {
		return err
	}
	for _, d := range diags {
		switch d.Severity {
		case catalog.SeverityError:
			log.Error().Str("catalog", catalogPath).Msg(d.String())
		case catalog.SeverityWarning:
			log.Warn().Str("catalog", catalogPath).Msg(d.String())
		default:
			log.Info().Str("catalog", catalogPath).Msg(d.String())
		}
	}
	if diags.HasErrors() {
		// merging into a half-parsed catalog would silently drop data
		return errors.Errorf("catalog %s is malformed, refusing to merge", catalogPath)
	}

	set, err := runScan(ctx, cfg, args[1:], reporter)
	if err != nil {
		return err
	}

	stats := catalog.Merge(ctx, cat, set, catalog.MergeOptions{FuzzyPercent: cfg.FuzzyPercent})
	reporter.MergeSummary(stats)

	out := catalogPath
	if cmd.Flags().Changed("output") {
		out = cfg.Output
	}
	if err := writeCatalog(out, cat); err != nil {
		return err
	}
	reporter.Successf("Wrote %s (%d entries)", out, cat.Len())
	return nil
}

// readCatalog parses an existing PO catalog from disk
func readCatalog(path string) (*catalog.File, catalog.Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()

	cat, diags, err := catalog.ParsePO(f)
	if err != nil {
		return nil, diags, errors.Errorf("parsing catalog %s: %w", path, err)
	}
	return cat, diags, nil
}
