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

package extract

import (
	"fmt"
	"strings"

	"github.com/walteh/potx/pkg/keyword"
	"github.com/walteh/potx/pkg/pattern"
)

// 🎯 Occurrence is one decoded keyword found at a source position
type Occurrence struct {
	Keyword string
	Pos     keyword.Position
}

// ⚠️ DecodeError reports a matched region whose literal content could
// not be decoded. It is recoverable: the occurrence is dropped and the
// rest of the line is still processed.
type DecodeError struct {
	Pos   keyword.Position
	Token string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding literal %q: %v", e.Pos, e.Token, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// 🔬 Extractor turns raw source lines into keyword occurrences using a
// compiled pattern set. It is stateless and safe for concurrent use.
type Extractor struct {
	rules *pattern.Set
}

// 🏭 New creates an extractor over a compiled pattern set
func New(rules *pattern.Set) *Extractor {
	return &Extractor{rules: rules}
}

// 🔍 Line extracts every keyword occurrence from one line of text.
//
// The loop: find the first match-only rule on the remaining line, run
// the captured region through the replace-rule fixpoint, decode the
// result as an escaped literal, then cut the matched region out of the
// remaining line and go again. Decode failures are collected in errs
// and skipped; a non-nil err means the replace rules never converged,
// which is a configuration problem and aborts the run.
func (x *Extractor) Line(file string, line int, text string) (occs []Occurrence, errs []error, err error) {
	pos := keyword.Position{File: file, Line: line}
	remaining := text

	for {
		if strings.TrimSpace(remaining) == "" {
			return occs, errs, nil
		}

		m, ok := x.rules.FirstMatch(remaining)
		if !ok {
			return occs, errs, nil
		}
		if m.End == m.Start {
			// a zero-width match can never be cut out and would loop
			return occs, errs, nil
		}

		candidate, rerr := x.rules.Reduce(m.Captured)
		if rerr != nil {
			return occs, errs, rerr
		}

		// Cut exactly the matched region, by offset, before anything
		// else: a decode failure still makes progress, and text that
		// merely repeats the matched characters elsewhere on the line
		// is left alone.
		remaining = remaining[:m.Start] + remaining[m.End:]

		decoded, derr := DecodeLiteral(candidate)
		if derr != nil {
			errs = append(errs, &DecodeError{Pos: pos, Token: candidate, Err: derr})
			continue
		}

		occs = append(occs, Occurrence{Keyword: decoded, Pos: pos})
	}
}
