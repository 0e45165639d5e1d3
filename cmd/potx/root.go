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
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/potx/pkg/config"
	"github.com/walteh/potx/pkg/extract"
	"github.com/walteh/potx/pkg/keyword"
	"github.com/walteh/potx/pkg/pattern"
	"github.com/walteh/potx/pkg/scanner"
	"github.com/walteh/potx/pkg/status"
)

var (
	// Flags
	configFile   string
	debugMode    bool
	verbose      bool
	jobs         int
	failOnError  bool
	fuzzyPercent int
	extensions   []string
	excludes     []string
	recursive    bool
	encodingName string
	outputPath   string
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (.potx.yaml, .potx.json or .potx.hcl)")
	cmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print one line per scanned file (forces a single worker)")
	cmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "worker count (0 = 2x logical cores)")
	cmd.PersistentFlags().BoolVar(&failOnError, "fail-on-error", false, "abort the run on the first recoverable error")
	cmd.PersistentFlags().IntVar(&fuzzyPercent, "fuzzy", -1, "fuzzy match threshold percent in [0,100], 0 disables")
	cmd.PersistentFlags().StringSliceVar(&extensions, "ext", nil, "source file extensions to scan")
	cmd.PersistentFlags().StringSliceVarP(&excludes, "exclude", "x", nil, "exclusion globs (doublestar)")
	cmd.PersistentFlags().BoolVarP(&recursive, "recursive", "r", true, "recurse into subdirectories")
	cmd.PersistentFlags().StringVar(&encodingName, "encoding", "", "source text encoding (default utf-8)")
	cmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output catalog path")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

// buildConfig loads the config file (when given, or the first .potx.*
// found in the working directory) and applies flag overrides.
func buildConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	path := configFile
	if path == "" {
		for _, candidate := range []string{".potx.yaml", ".potx.yml", ".potx.json", ".potx.hcl"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		cfg.Workers = jobs
	}
	if flags.Changed("fail-on-error") {
		cfg.FailOnError = failOnError
	}
	if flags.Changed("fuzzy") {
		cfg.FuzzyPercent = fuzzyPercent
	}
	if flags.Changed("ext") {
		cfg.Extensions = extensions
	}
	if flags.Changed("exclude") {
		cfg.Exclude = excludes
	}
	if flags.Changed("recursive") {
		cfg.Recursive = recursive
	}
	if flags.Changed("encoding") {
		cfg.Encoding = encodingName
	}
	if flags.Changed("output") {
		cfg.Output = outputPath
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runScan enumerates the roots and drains them through the worker
// pool, returning the aggregated keyword set. A "-" root reads the
// anonymous stdin stream.
func runScan(ctx context.Context, cfg *config.Config, roots []string, reporter *status.Reporter) (*keyword.Set, error) {
	log := zerolog.Ctx(ctx)

	rules, err := cfg.CompilePatterns()
	if err != nil {
		return nil, err
	}
	extractor := extract.New(rules)
	set := keyword.NewSet()

	var stdinRequested bool
	var fileRoots []string
	for _, root := range roots {
		if root == "-" {
			stdinRequested = true
			continue
		}
		fileRoots = append(fileRoots, root)
	}
	if len(roots) == 0 {
		fileRoots = []string{"."}
	}

	var files []string
	if len(fileRoots) > 0 {
		files, err = scanner.Enumerate(fileRoots, scanner.EnumerateOptions{
			Extensions: cfg.Extensions,
			Exclude:    cfg.Exclude,
			Recursive:  cfg.Recursive,
		}, *log)
		if err != nil {
			return nil, errors.Errorf("enumerating sources: %w", err)
		}
	}

	pool := scanner.New(scanner.Options{
		Extractor: extractor,
		Set:       set,
		Workers:   cfg.EffectiveWorkers(),
		Encoding:  cfg.Encoding,
		FailFast:  cfg.FailOnError,
		Events:    reporter,
	})
	pool.Start(ctx)
	if err := pool.EnqueueMany(files); err != nil {
		// the pool aborted mid-dispatch; Drain returns the cause
		if derr := pool.Drain(); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	drainErr := pool.Drain()

	if stdinRequested {
		kws, skipped, serr := scanner.ScanStream(ctx, extractor, set, os.Stdin, cfg.Encoding)
		if serr != nil {
			if cfg.FailOnError {
				return nil, serr
			}
			reporter.FileFailed("-", serr)
		} else {
			reporter.FileScanned("-", kws, skipped)
		}
	}

	if drainErr != nil {
		var cerr *pattern.ConvergenceError
		if cfg.FailOnError || errors.As(drainErr, &cerr) {
			// a diverging replace-rule set is a configuration error,
			// fatal regardless of --fail-on-error
			return nil, drainErr
		}
		reporter.Warningf("%d file(s) skipped, first error: %v", pool.Failures(), drainErr)
	}

	reporter.ScanSummary(pool.Files(), set.Len(), pool.Failures())
	return set, nil
}
