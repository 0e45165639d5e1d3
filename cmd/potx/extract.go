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

var (
	jsonPath   string
	moPath     string
	bundlePath string
)

// newExtractCmd creates the extract command: scan sources and write a
// fresh POT-style template catalog.
func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Scan sources and write a template catalog",
		Long: `extract scans the given paths (default ".", "-" for stdin) for
translatable string literals and writes a POT-style template catalog
with one entry per distinct keyword and its source references.`,
		RunE: runExtract,
	}
	cmd.Flags().StringVar(&jsonPath, "json", "", "also export a flat JSON catalog to this path")
	cmd.Flags().StringVar(&moPath, "mo", "", "also write a binary MO catalog to this path")
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "also write a compressed translation bundle to this path")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reporter := status.NewReporter(os.Stdout, *zerolog.Ctx(ctx), verbose)

	cfg, err := buildConfig(ctx, cmd)
	if err != nil {
		return err
	}
	reporter.Header("extracting translatable strings")

	set, err := runScan(ctx, cfg, args, reporter)
	if err != nil {
		return err
	}

	// an empty catalog plus a merge gives the same entry shape update
	// produces, so both paths stay in sync
	cat := catalog.NewFile()
	cat.Header = catalog.NewTemplateHeader()
	catalog.Merge(ctx, cat, set, catalog.MergeOptions{})

	if err := writeCatalog(cfg.Output, cat); err != nil {
		return err
	}
	reporter.Successf("Wrote %s (%d entries)", cfg.Output, cat.Len())

	return writeExports(reporter, cat)
}

// writeCatalog serializes the catalog as PO text to path
func writeCatalog(path string, cat *catalog.File) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := catalog.WritePO(f, cat); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeExports writes the optional JSON / MO / bundle artifacts
func writeExports(reporter *status.Reporter, cat *catalog.File) error {
	type export struct {
		path  string
		write func(*os.File) error
	}
	exports := []export{
		{jsonPath, func(f *os.File) error { return catalog.WriteJSON(f, cat) }},
		{moPath, func(f *os.File) error { return catalog.WriteMO(f, cat) }},
		{bundlePath, func(f *os.File) error { return catalog.WriteBundle(f, cat) }},
	}
	for _, ex := range exports {
		if ex.path == "" {
			continue
		}
		f, err := os.Create(ex.path)
		if err != nil {
			return errors.Errorf("creating %s: %w", ex.path, err)
		}
		if err := ex.write(f); err != nil {
			f.Close()
			return errors.Errorf("writing %s: %w", ex.path, err)
		}
		if err := f.Close(); err != nil {
			return errors.Errorf("closing %s: %w", ex.path, err)
		}
		reporter.Successf("Wrote %s", ex.path)
	}
	return nil
}
