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
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/potx/pkg/extract"
	"github.com/walteh/potx/pkg/keyword"
	"github.com/walteh/potx/pkg/pattern"
)

// 📢 Events receives per-file notifications from the pool. All methods
// may be called from multiple workers concurrently.
type Events interface {
	FileScanned(path string, keywords, skipped int)
	FileFailed(path string, err error)
}

// noopEvents keeps the pool callback-free when the caller passes none
type noopEvents struct{}

func (noopEvents) FileScanned(string, int, int) {}
func (noopEvents) FileFailed(string, error)     {}

// 🔧 Options configures a scan pool
type Options struct {
	Extractor *extract.Extractor
	Set       *keyword.Set
	Workers   int    // bounded worker count, min 1
	Encoding  string // source text encoding, empty means utf-8
	FailFast  bool   // escalate the first recoverable error to a run abort
	Events    Events // optional
}

// 👷 Pool feeds files through the extractor into the keyword set with
// bounded concurrency. The job queue capacity is tied to the worker
// count, so Enqueue exerts backpressure proportional to consumers.
type Pool struct {
	extractor *extract.Extractor
	set       *keyword.Set
	workers   int
	encoding  string
	failFast  bool
	events    Events

	jobs chan string
	g    *errgroup.Group
	gctx context.Context

	mu       sync.Mutex
	firstErr error
	files    int
	failures int
}

// 🏭 New creates a pool; call Start before Enqueue
func New(opts Options) *Pool {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Events == nil {
		opts.Events = noopEvents{}
	}
	return &Pool{
		extractor: opts.Extractor,
		set:       opts.Set,
		workers:   opts.Workers,
		encoding:  opts.Encoding,
		failFast:  opts.FailFast,
		events:    opts.Events,
		jobs:      make(chan string, 2*opts.Workers),
	}
}

// 🏃 Start launches the workers
func (p *Pool) Start(ctx context.Context) {
	p.g, p.gctx = errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		p.g.Go(p.worker)
	}
}

func (p *Pool) worker() error {
	for {
		select {
		case <-p.gctx.Done():
			return nil
		case path, ok := <-p.jobs:
			if !ok {
				return nil
			}
			select {
			case <-p.gctx.Done():
				// another worker aborted the run while this path sat
				// in the queue; do not start new work
				return nil
			default:
			}

			kws, skipped, err := p.scanFile(p.gctx, path)
			if err != nil {
				p.events.FileFailed(path, err)
				var cerr *pattern.ConvergenceError
				if p.failFast || errors.As(err, &cerr) {
					// aborts the run: the group context cancels, which
					// stops Enqueue and idles the other workers
					return err
				}
				p.record(err)
				continue
			}
			p.events.FileScanned(path, kws, skipped)
			p.mu.Lock()
			p.files++
			p.mu.Unlock()
		}
	}
}

// 📄 scanFile streams one file line by line through the extractor and
// merges every occurrence. Literal decode failures are recoverable:
// they are counted, logged, and the rest of the file still scans,
// unless the pool is in fail-fast mode.
func (p *Pool) scanFile(ctx context.Context, path string) (kws, skipped int, err error) {
	log := zerolog.Ctx(ctx)

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r, err := DecodeReader(f, p.encoding)
	if err != nil {
		return 0, 0, err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		occs, decodeErrs, lineErr := p.extractor.Line(path, lineNo, sc.Text())
		if lineErr != nil {
			// replace rules never converged: a configuration problem,
			// fatal regardless of fail-fast
			return kws, skipped, lineErr
		}
		for _, derr := range decodeErrs {
			if p.failFast {
				return kws, skipped, derr
			}
			log.Warn().Err(derr).Msg("skipping undecodable literal")
			skipped++
		}
		for _, occ := range occs {
			p.set.Merge(occ.Keyword, occ.Pos)
			kws++
		}
	}
	if serr := sc.Err(); serr != nil {
		return kws, skipped, errors.Errorf("reading %s: %w", path, serr)
	}

	return kws, skipped, nil
}

// record stores the first recoverable error for Drain to surface
func (p *Pool) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures++
	if p.firstErr == nil {
		p.firstErr = err
	}
}

// ➕ Enqueue submits one file path, blocking while the queue is full.
// It fails once the pool has aborted (fail-fast error observed).
func (p *Pool) Enqueue(path string) error {
	select {
	case p.jobs <- path:
		return nil
	case <-p.gctx.Done():
		return errors.Errorf("scan aborted: %w", context.Cause(p.gctx))
	}
}

// ➕ EnqueueMany submits a batch of paths in order
func (p *Pool) EnqueueMany(paths []string) error {
	for _, path := range paths {
		if err := p.Enqueue(path); err != nil {
			return err
		}
	}
	return nil
}

// 🏁 Drain closes the queue, waits for all queued and in-flight work,
// and surfaces the first error any worker recorded. In fail-fast mode
// that error aborted the run; otherwise the caller decides whether it
// is only worth a warning.
func (p *Pool) Drain() error {
	close(p.jobs)
	if err := p.g.Wait(); err != nil {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.firstErr == nil {
			p.firstErr = err
		}
		return p.firstErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}

// 🔢 Files returns how many files scanned cleanly
func (p *Pool) Files() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.files
}

// 🔢 Failures returns how many files failed and were skipped
func (p *Pool) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}
