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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/potx/pkg/extract"
	"github.com/walteh/potx/pkg/keyword"
)

// 📢 Severity classifies a parse diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// 🩺 Diagnostic is one message produced while parsing a PO file
type Diagnostic struct {
	Severity Severity
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Severity, d.Message)
}

// 🩺 Diagnostics is the full list for one parse
type Diagnostics []Diagnostic

// 🔍 HasErrors reports whether any diagnostic is error severity
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// poParser accumulates one entry at a time while walking the file
type poParser struct {
	file  *File
	diags Diagnostics

	cur     *Entry
	curID   strings.Builder
	curStr  strings.Builder
	sawID   bool
	sawStr  bool
	lastKey string // "msgid", "msgstr" or "" (for continuation lines)
}

// 📥 ParsePO reads a PO catalog into the entry model. Malformed pieces
// produce diagnostics; an error is returned only when the input cannot
// be read at all. Callers that merge into the result should treat
// error-severity diagnostics as fatal.
func ParsePO(r io.Reader) (*File, Diagnostics, error) {
	p := &poParser{file: NewFile()}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		p.line(lineNo, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, p.diags, errors.Errorf("reading catalog: %w", err)
	}
	p.flush(lineNo)

	return p.file, p.diags, nil
}

func (p *poParser) diag(sev Severity, line int, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{Severity: sev, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (p *poParser) ensure() *Entry {
	if p.cur == nil {
		p.cur = &Entry{}
	}
	return p.cur
}

func (p *poParser) line(n int, raw string) {
	line := strings.TrimSpace(raw)
	switch {
	case line == "":
		p.flush(n)

	case strings.HasPrefix(line, "#:"):
		p.flushIfComplete(n)
		e := p.ensure()
		for _, ref := range strings.Fields(strings.TrimPrefix(line, "#:")) {
			pos, err := parseReference(ref)
			if err != nil {
				p.diag(SeverityWarning, n, "ignoring reference %q: %v", ref, err)
				continue
			}
			e.References = append(e.References, pos)
		}

	case strings.HasPrefix(line, "#,"):
		p.flushIfComplete(n)
		e := p.ensure()
		for _, f := range strings.Split(strings.TrimPrefix(line, "#,"), ",") {
			if f = strings.TrimSpace(f); f != "" {
				e.SetFlag(f)
			}
		}

	case strings.HasPrefix(line, "#|"):
		p.flushIfComplete(n)
		rest := strings.TrimSpace(strings.TrimPrefix(line, "#|"))
		if !strings.HasPrefix(rest, "msgid ") {
			p.diag(SeverityInfo, n, "ignoring previous-entry comment %q", line)
			return
		}
		prev, err := poUnquote(strings.TrimPrefix(rest, "msgid "))
		if err != nil {
			p.diag(SeverityWarning, n, "ignoring previous msgid: %v", err)
			return
		}
		p.ensure().PrevID = prev

	case strings.HasPrefix(line, "#."):
		p.flushIfComplete(n)
		p.ensure().ExtractedComments = append(p.ensure().ExtractedComments, strings.TrimSpace(strings.TrimPrefix(line, "#.")))

	case strings.HasPrefix(line, "#"):
		p.flushIfComplete(n)
		p.ensure().TranslatorComments = append(p.ensure().TranslatorComments, strings.TrimSpace(strings.TrimPrefix(line, "#")))

	case strings.HasPrefix(line, "msgid "):
		p.flushIfComplete(n)
		s, err := poUnquote(strings.TrimPrefix(line, "msgid "))
		if err != nil {
			p.diag(SeverityError, n, "bad msgid: %v", err)
			return
		}
		p.ensure()
		p.sawID = true
		p.curID.WriteString(s)
		p.lastKey = "msgid"

	case strings.HasPrefix(line, "msgstr "):
		if !p.sawID {
			p.diag(SeverityError, n, "msgstr without msgid")
			return
		}
		s, err := poUnquote(strings.TrimPrefix(line, "msgstr "))
		if err != nil {
			p.diag(SeverityError, n, "bad msgstr: %v", err)
			return
		}
		p.sawStr = true
		p.curStr.WriteString(s)
		p.lastKey = "msgstr"

	case strings.HasPrefix(line, "\""):
		s, err := poUnquote(line)
		if err != nil {
			p.diag(SeverityError, n, "bad continuation: %v", err)
			return
		}
		switch p.lastKey {
		case "msgid":
			p.curID.WriteString(s)
		case "msgstr":
			p.curStr.WriteString(s)
		default:
			p.diag(SeverityWarning, n, "continuation string outside msgid/msgstr")
		}

	default:
		// msgctxt, msgid_plural and friends are out of model
		p.diag(SeverityWarning, n, "ignoring unsupported line %q", line)
	}
}

// flushIfComplete starts a new entry when comment lines follow a
// finished msgid/msgstr pair without a separating blank line.
func (p *poParser) flushIfComplete(n int) {
	if p.sawID && p.sawStr {
		p.flush(n)
	}
}

func (p *poParser) flush(n int) {
	defer func() {
		p.cur = nil
		p.curID.Reset()
		p.curStr.Reset()
		p.sawID = false
		p.sawStr = false
		p.lastKey = ""
	}()

	if p.cur == nil {
		return
	}
	if !p.sawID {
		if len(p.cur.TranslatorComments) > 0 || len(p.cur.ExtractedComments) > 0 {
			// trailing comment block with no entry, keep quiet
			return
		}
		p.diag(SeverityWarning, n, "dropping incomplete entry (no msgid)")
		return
	}

	p.cur.ID = p.curID.String()
	p.cur.Str = p.curStr.String()

	if p.cur.ID == "" {
		if p.file.Header != nil {
			p.diag(SeverityWarning, n, "duplicate header entry, keeping the first")
			return
		}
		p.file.Header = p.cur
		return
	}
	if err := p.file.Add(p.cur); err != nil {
		p.diag(SeverityError, n, "%v", err)
	}
}

// parseReference splits a "path:line" token
func parseReference(s string) (keyword.Position, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return keyword.Position{}, errors.New("missing line number")
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil || n <= 0 {
		return keyword.Position{}, errors.Errorf("bad line number %q", s[i+1:])
	}
	file := s[:i]
	if file == "-" {
		file = ""
	}
	return keyword.Position{File: file, Line: n}, nil
}

// poUnquote decodes one quoted PO string chunk. PO strings use the same
// C-style escapes the extractor decodes.
func poUnquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "\"") || !strings.HasSuffix(s, "\"") || len(s) < 2 {
		return "", errors.Errorf("%q is not a quoted string", s)
	}
	return extract.DecodeLiteral(s)
}

// poEscape renders a string for embedding between PO quotes
func poEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeString renders a possibly multi-line PO string after a keyword
func writeString(w io.Writer, key, s string) error {
	if !strings.Contains(s, "\n") {
		_, err := fmt.Fprintf(w, "%s \"%s\"\n", key, poEscape(s))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s \"\"\n", key); err != nil {
		return err
	}
	parts := strings.SplitAfter(s, "\n")
	for _, part := range parts {
		if part == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "\"%s\"\n", poEscape(part)); err != nil {
			return err
		}
	}
	return nil
}

// 📤 WritePO serializes the catalog in PO format, header first, then
// the entries in declaration order.
func WritePO(w io.Writer, f *File) error {
	entries := f.Entries()
	all := make([]*Entry, 0, len(entries)+1)
	if f.Header != nil {
		all = append(all, f.Header)
	}
	all = append(all, entries...)

	for i, e := range all {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return errors.Errorf("writing catalog: %w", err)
			}
		}
		if err := writeEntry(w, e); err != nil {
			return errors.Errorf("writing entry %q: %w", e.ID, err)
		}
	}
	return nil
}

func writeEntry(w io.Writer, e *Entry) error {
	for _, c := range e.TranslatorComments {
		if _, err := fmt.Fprintf(w, "# %s\n", c); err != nil {
			return err
		}
	}
	for _, c := range e.ExtractedComments {
		if _, err := fmt.Fprintf(w, "#. %s\n", c); err != nil {
			return err
		}
	}
	if len(e.References) > 0 {
		refs := make([]string, len(e.References))
		for i, p := range e.References {
			refs[i] = p.String()
		}
		if _, err := fmt.Fprintf(w, "#: %s\n", strings.Join(refs, " ")); err != nil {
			return err
		}
	}
	if len(e.Flags) > 0 {
		if _, err := fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", ")); err != nil {
			return err
		}
	}
	if e.PrevID != "" {
		if _, err := fmt.Fprintf(w, "#| msgid \"%s\"\n", poEscape(e.PrevID)); err != nil {
			return err
		}
	}
	if err := writeString(w, "msgid", e.ID); err != nil {
		return err
	}
	return writeString(w, "msgstr", e.Str)
}
