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

package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/rs/zerolog"

	"github.com/walteh/potx/pkg/keyword"
)

// 🔧 MergeOptions controls catalog reconciliation
type MergeOptions struct {
	// FuzzyPercent is the edit-distance threshold in [0,100]. The
	// maximum accepted distance for a keyword is
	// floor(len(keyword) * FuzzyPercent / 100); 0 disables fuzzy
	// matching entirely.
	FuzzyPercent int
}

// 📊 Stats summarizes one merge
type Stats struct {
	New      int `json:"new"`
	Existing int `json:"existing"`
	Fuzzy    int `json:"fuzzy"`
	Obsolete int `json:"obsolete"`
}

// 🔄 Merge reconciles the scanned keyword set into the catalog.
//
// Per keyword: an exact id match refreshes the reference comment and
// keeps the translation untouched; otherwise a fuzzy candidate within
// the edit-distance budget adopts the old translation under the new id
// (flagged fuzzy, previous id recorded, old entry removed); otherwise a
// fresh empty entry is created. Afterwards every entry whose id is not
// in the keyword set is pruned. Keywords are processed in sorted order
// so the resulting catalog does not depend on scan scheduling.
func Merge(ctx context.Context, f *File, kws *keyword.Set, opts MergeOptions) Stats {
	log := zerolog.Ctx(ctx)
	var st Stats

	for _, kw := range kws.Sorted() {
		positions := kw.Positions()

		if e, ok := f.Get(kw.Keyword); ok {
			e.References = positions
			st.Existing++
			continue
		}

		if old := findFuzzy(f, kws, kw.Keyword, opts.FuzzyPercent); old != nil {
			repl := &Entry{
				ID:                 kw.Keyword,
				Str:                old.Str,
				TranslatorComments: old.TranslatorComments,
				ExtractedComments:  old.ExtractedComments,
				References:         positions,
				Flags:              append([]string(nil), old.Flags...),
				PrevID:             old.ID, // replaces any prior previous-id
			}
			repl.SetFlag(FlagFuzzy)
			f.Remove(old.ID)
			if err := f.Add(repl); err != nil {
				// cannot happen: the exact-match branch already ruled
				// out kw.Keyword being present
				log.Error().Err(err).Str("keyword", kw.Keyword).Msg("inserting fuzzy entry")
				continue
			}
			log.Debug().Str("keyword", kw.Keyword).Str("previous", old.ID).Msg("fuzzy match")
			st.Fuzzy++
			continue
		}

		_ = f.Add(&Entry{ID: kw.Keyword, References: positions})
		st.New++
	}

	for _, e := range f.Entries() {
		if !kws.Contains(e.ID) {
			f.Remove(e.ID)
			log.Debug().Str("id", e.ID).Msg("pruning obsolete entry")
			st.Obsolete++
		}
	}

	return st
}

// findFuzzy returns the catalog entry closest to kw under case-folded
// Levenshtein distance, or nil when fuzzy matching is disabled or no
// candidate fits the budget. Candidates are pre-filtered by length and
// ties go to the first entry in catalog order. Entries whose id is
// itself in the keyword set are never consumed: they belong to (or
// will be claimed by) an exact match.
func findFuzzy(f *File, kws *keyword.Set, kw string, fuzzyPercent int) *Entry {
	if fuzzyPercent <= 0 {
		return nil
	}
	kwLen := utf8.RuneCountInString(kw)
	maxDistance := kwLen * fuzzyPercent / 100
	if maxDistance < 1 {
		return nil
	}

	folded := strings.ToLower(kw)
	var best *Entry
	bestDist := maxDistance + 1

	for _, e := range f.Entries() {
		idLen := utf8.RuneCountInString(e.ID)
		if diff := idLen - kwLen; diff > maxDistance || -diff > maxDistance {
			continue
		}
		if kws.Contains(e.ID) {
			continue
		}
		d := levenshtein.Distance(folded, strings.ToLower(e.ID), nil)
		if d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}
