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

package pattern

import (
	"fmt"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// maxRewritePasses bounds the replace fixpoint loop. A rule set where
// replacements re-trigger each other would otherwise never terminate;
// exceeding the cap is a configuration error, not a data error.
const maxRewritePasses = 100

// ⚠️ ConvergenceError reports a replace-rule set that never reached a
// fixpoint. It is a configuration error: the same rules would mangle
// every file the same way, so callers must abort the run rather than
// skip the file.
type ConvergenceError struct {
	Candidate string
	Passes    int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("replace patterns did not converge on %q after %d passes (rules rewrite into each other)", e.Candidate, e.Passes)
}

// 📐 Spec is one raw pattern tuple from configuration. A nil Replacement
// makes it a match-only rule; otherwise it is a replace rule whose
// template may use $1-style back references.
type Spec struct {
	Expression  string
	IgnoreCase  bool
	Replacement *string
}

// 🧩 Rule is one compiled pattern
type Rule struct {
	index       int // declared position, lower = higher priority
	expr        *regexp.Regexp
	replacement string
}

// 📝 String returns the rule's source expression
func (r *Rule) String() string {
	return r.expr.String()
}

// 📦 Set holds the compiled rules split into match-only and replace
// sub-lists, each preserving declared order. Immutable after Compile.
type Set struct {
	matchers  []*Rule
	replacers []*Rule
}

// 🏭 Compile builds a Set from raw specs. Any invalid expression is a
// fatal configuration error.
func Compile(specs []Spec) (*Set, error) {
	if len(specs) == 0 {
		return nil, errors.New("no patterns configured")
	}

	s := &Set{}
	for i, spec := range specs {
		src := spec.Expression
		if spec.IgnoreCase {
			src = "(?i)" + src
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, errors.Errorf("compiling pattern %d (%q): %w", i, spec.Expression, err)
		}
		rule := &Rule{index: i, expr: re}
		if spec.Replacement == nil {
			s.matchers = append(s.matchers, rule)
		} else {
			rule.replacement = *spec.Replacement
			s.replacers = append(s.replacers, rule)
		}
	}
	if len(s.matchers) == 0 {
		return nil, errors.New("no match patterns configured (every rule has a replacement)")
	}
	return s, nil
}

// 🔢 Matchers returns the number of match-only rules
func (s *Set) Matchers() int {
	return len(s.matchers)
}

// 🔢 Replacers returns the number of replace rules
func (s *Set) Replacers() int {
	return len(s.replacers)
}

// 🎯 Match locates one rule hit inside a line. Start and End bound the
// full matched region, so callers can cut exactly the text the rule
// matched instead of searching for it by value.
type Match struct {
	Start    int    // full match start, byte offset into the line
	End      int    // full match end (exclusive)
	Text     string // the full matched substring
	Captured string // group 1 when it captured something, else Text
}

// 🔍 FirstMatch finds the first match-only rule (by declared priority)
// whose expression matches line.
func (s *Set) FirstMatch(line string) (Match, bool) {
	for _, r := range s.matchers {
		loc := r.expr.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		m := Match{
			Start: loc[0],
			End:   loc[1],
			Text:  line[loc[0]:loc[1]],
		}
		m.Captured = m.Text
		if len(loc) >= 4 && loc[2] >= 0 && loc[3] > loc[2] {
			m.Captured = line[loc[2]:loc[3]]
		}
		return m, true
	}
	return Match{}, false
}

// 🔄 Reduce applies every replace rule that currently matches the
// candidate, in declared order, and repeats the pass until no rule
// matches anymore. The pass count is capped; a rule set that never
// reaches the fixpoint is reported as an error.
func (s *Set) Reduce(candidate string) (string, error) {
	for pass := 0; ; pass++ {
		if pass >= maxRewritePasses {
			return "", &ConvergenceError{Candidate: candidate, Passes: maxRewritePasses}
		}
		changed := false
		for _, r := range s.replacers {
			if !r.expr.MatchString(candidate) {
				continue
			}
			next := r.expr.ReplaceAllString(candidate, r.replacement)
			if next != candidate {
				candidate = next
				changed = true
			}
		}
		if !changed {
			return candidate, nil
		}
	}
}
