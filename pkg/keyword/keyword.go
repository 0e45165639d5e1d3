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

package keyword

import (
	"fmt"
	"sort"
	"sync"
)

// 📍 Position identifies one source location where a keyword occurred.
// An empty File means the keyword came from an anonymous stream (stdin).
type Position struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line"`
}

// 📝 String renders the position in the conventional file:line form
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("-:%d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// 🔑 Entry is one decoded keyword together with every position it was seen at.
// Positions have set semantics: the same file and line is recorded once.
type Entry struct {
	Keyword   string
	positions map[Position]struct{}
}

// 📍 Positions returns the recorded positions sorted by file then line
func (e *Entry) Positions() []Position {
	out := make([]Position, 0, len(e.positions))
	for p := range e.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File == out[j].File {
			return out[i].Line < out[j].Line
		}
		return out[i].File < out[j].File
	})
	return out
}

// 🔢 Count returns the number of distinct positions
func (e *Entry) Count() int {
	return len(e.positions)
}

// 📦 Set aggregates keyword occurrences from concurrent scanners.
// All mutation goes through Merge, which holds the lock for the whole
// read-check-create-or-update sequence so two workers discovering the
// same new keyword cannot lose an update.
type Set struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// 🏭 NewSet creates an empty keyword set
func NewSet() *Set {
	return &Set{
		entries: make(map[string]*Entry),
	}
}

// 🔄 Merge records one occurrence of keyword at pos. Safe for concurrent use.
func (s *Set) Merge(kw string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[kw]
	if !ok {
		e = &Entry{
			Keyword:   kw,
			positions: make(map[Position]struct{}, 1),
		}
		s.entries[kw] = e
	}
	e.positions[pos] = struct{}{}
}

// 🔢 Len returns the number of distinct keywords
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// 🔍 Get looks up the entry for a keyword
func (s *Set) Get(kw string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[kw]
	return e, ok
}

// 🔍 Contains reports whether the keyword was seen during the scan
func (s *Set) Contains(kw string) bool {
	_, ok := s.Get(kw)
	return ok
}

// 📋 Sorted returns a snapshot of all entries ordered by keyword text.
// Downstream consumers iterate this so results do not depend on worker
// scheduling.
func (s *Set) Sorted() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Keyword < out[j].Keyword
	})
	return out
}
