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

package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ EnumerateOptions filters the candidate file walk
type EnumerateOptions struct {
	Extensions []string // with leading dot; empty accepts everything
	Exclude    []string // doublestar globs matched against slash paths
	Recursive  bool
}

// 🚶 Enumerate collects candidate file paths under the given roots. A
// root that is itself a file is taken as-is (extension filter still
// applies, exclusion globs too). Results are sorted for reproducible
// runs.
func Enumerate(roots []string, opts EnumerateOptions, log zerolog.Logger) ([]string, error) {
	extSet := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		extSet[e] = true
	}
	accepts := func(path string) bool {
		if len(extSet) > 0 && !extSet[filepath.Ext(path)] {
			return false
		}
		return !excluded(path, opts.Exclude, log)
	}

	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if accepts(root) {
				files = append(files, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && !opts.Recursive {
					return filepath.SkipDir
				}
				if excluded(path, opts.Exclude, log) {
					return filepath.SkipDir
				}
				return nil
			}
			if accepts(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// 🔍 excluded checks a path against the exclusion globs
func excluded(path string, patterns []string, log zerolog.Logger) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, slashed)
		if err != nil {
			log.Debug().Str("pattern", pattern).Str("path", path).Err(err).Msg("error matching exclude pattern")
			continue
		}
		if !matched {
			// also try the basename so simple globs like *.gen.go work
			matched, _ = doublestar.Match(pattern, filepath.Base(path))
		}
		if matched {
			log.Debug().Str("path", path).Str("pattern", pattern).Msg("path excluded by pattern")
			return true
		}
	}
	return false
}
