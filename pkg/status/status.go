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

package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/potx/pkg/catalog"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 45 // base width for file paths
)

// 🎯 Reporter renders scan and merge progress on the console and
// mirrors every event into zerolog. Safe for concurrent use by pool
// workers.
type Reporter struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	verbose bool
}

// 🏭 NewReporter creates a reporter writing human output to console
func NewReporter(console io.Writer, zlog zerolog.Logger, verbose bool) *Reporter {
	return &Reporter{
		zlog:    zlog,
		console: console,
		verbose: verbose,
	}
}

// 📝 Header prints the run banner
func (r *Reporter) Header(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("potx")
	fmt.Fprintf(r.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	r.zlog.Info().Msg(msg)
}

// 📄 FileScanned reports one cleanly scanned file. Only verbose runs
// print a line per file; the event is always logged.
func (r *Reporter) FileScanned(path string, keywords, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zlog.Debug().
		Str("file", path).
		Int("keywords", keywords).
		Int("skipped", skipped).
		Msg("file scanned")

	if !r.verbose {
		return
	}
	symbol := color.New(color.FgGreen).Sprint("✓")
	line := fmt.Sprintf("%*s%s %-*s %s", fileIndent, "", symbol, nameWidth, path,
		color.New(color.FgCyan).Sprintf("%d keyword(s)", keywords))
	if skipped > 0 {
		line += color.New(color.FgYellow).Sprintf("  %d skipped", skipped)
	}
	fmt.Fprintln(r.console, line)
}

// ⚠️ FileFailed reports a file that could not be processed
func (r *Reporter) FileFailed(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zlog.Warn().Str("file", path).Err(err).Msg("file skipped")
	symbol := color.New(color.FgRed).Sprint("✗")
	fmt.Fprintf(r.console, "%*s%s %-*s %s\n", fileIndent, "", symbol, nameWidth, path,
		color.New(color.FgRed).Sprint(err.Error()))
}

// 📊 ScanSummary prints the post-drain totals
func (r *Reporter) ScanSummary(files, keywords, failures int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zlog.Info().
		Int("files", files).
		Int("keywords", keywords).
		Int("failures", failures).
		Msg("scan complete")

	msg := fmt.Sprintf("Scanned %d file(s), found %d keyword(s)", files, keywords)
	if failures > 0 {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Printfln("%s, %d file(s) skipped", msg, failures)
		return
	}
	pterm.Success.WithPrefix(pterm.Prefix{Text: "🔍"}).Println(msg)
}

// 📊 MergeSummary prints the catalog reconciliation counts
func (r *Reporter) MergeSummary(st catalog.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zlog.Info().
		Int("new", st.New).
		Int("existing", st.Existing).
		Int("fuzzy", st.Fuzzy).
		Int("obsolete", st.Obsolete).
		Msg("merge complete")

	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Printfln(
		"Catalog merged: %s new, %s existing, %s fuzzy, %s obsolete",
		color.New(color.FgGreen).Sprintf("%d", st.New),
		color.New(color.FgCyan).Sprintf("%d", st.Existing),
		color.New(color.FgYellow).Sprintf("%d", st.Fuzzy),
		color.New(color.FgRed).Sprintf("%d", st.Obsolete))
}

// ✅ Success logs a success message
func (r *Reporter) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pterm.Success.Println(msg)
	r.zlog.Info().Msg(msg)
}

// ⚠️ Warning logs a warning message
func (r *Reporter) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pterm.Warning.Println(msg)
	r.zlog.Warn().Msg(msg)
}

// ❌ Error logs an error message
func (r *Reporter) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pterm.Error.Println(msg)
	r.zlog.Error().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (r *Reporter) Warningf(format string, args ...interface{}) {
	r.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (r *Reporter) Successf(format string, args ...interface{}) {
	r.Success(fmt.Sprintf(format, args...))
}
