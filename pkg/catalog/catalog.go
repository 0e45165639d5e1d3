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
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/potx/pkg/keyword"
)

// FlagFuzzy marks an entry whose translation was carried over from an
// approximate match and needs review.
const FlagFuzzy = "fuzzy"

// 📖 Entry is one catalog message: an id, its translation, and the
// comment metadata PO files attach to it.
type Entry struct {
	ID                 string             `json:"id"`
	Str                string             `json:"str"`
	TranslatorComments []string           `json:"translator_comments,omitempty"` // "# "
	ExtractedComments  []string           `json:"extracted_comments,omitempty"`  // "#. "
	References         []keyword.Position `json:"references,omitempty"`          // "#: "
	Flags              []string           `json:"flags,omitempty"`               // "#, "
	PrevID             string             `json:"prev_id,omitempty"`             // "#| msgid "
}

// 🔍 HasFlag reports whether the entry carries the named flag
func (e *Entry) HasFlag(name string) bool {
	for _, f := range e.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// 🚩 SetFlag adds the named flag if not already present
func (e *Entry) SetFlag(name string) {
	if !e.HasFlag(name) {
		e.Flags = append(e.Flags, name)
	}
}

// 📦 File is an ordered collection of catalog entries. Order matters:
// it is preserved across parse and serialize, and it is the tie-break
// order for fuzzy matching. The header (the entry with an empty id in
// PO files) is kept separately and never merged or pruned.
type File struct {
	Header  *Entry
	entries []*Entry
	index   map[string]*Entry
}

// 🏭 NewFile creates an empty catalog
func NewFile() *File {
	return &File{index: make(map[string]*Entry)}
}

// ➕ Add appends an entry, rejecting duplicate ids
func (f *File) Add(e *Entry) error {
	if e.ID == "" {
		return errors.New("entry id is empty (header entries go in File.Header)")
	}
	if _, ok := f.index[e.ID]; ok {
		return errors.Errorf("duplicate catalog entry %q", e.ID)
	}
	f.entries = append(f.entries, e)
	f.index[e.ID] = e
	return nil
}

// 🔍 Get looks up an entry by id
func (f *File) Get(id string) (*Entry, bool) {
	e, ok := f.index[id]
	return e, ok
}

// ➖ Remove deletes the entry with the given id, preserving the order
// of the remaining entries. Returns false when the id is absent.
func (f *File) Remove(id string) bool {
	if _, ok := f.index[id]; !ok {
		return false
	}
	delete(f.index, id)
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			break
		}
	}
	return true
}

// 📋 Entries returns the entries in declaration order. The slice is a
// snapshot; the entries themselves are shared.
func (f *File) Entries() []*Entry {
	out := make([]*Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// 🔢 Len returns the number of entries, excluding the header
func (f *File) Len() int {
	return len(f.entries)
}

// 🏭 NewTemplateHeader builds the boilerplate header entry for a fresh
// POT-style catalog.
func NewTemplateHeader() *Entry {
	return &Entry{
		TranslatorComments: []string{
			"SOME DESCRIPTIVE TITLE.",
			"This file is distributed under the same license as the PACKAGE package.",
		},
		Flags: []string{FlagFuzzy},
		Str: "Project-Id-Version: PACKAGE VERSION\n" +
			"Report-Msgid-Bugs-To: \n" +
			"MIME-Version: 1.0\n" +
			"Content-Type: text/plain; charset=UTF-8\n" +
			"Content-Transfer-Encoding: 8bit\n",
	}
}
