package scanner

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/potx/pkg/extract"
	"github.com/walteh/potx/pkg/keyword"
	"github.com/walteh/potx/pkg/pattern"
)

func strp(s string) *string { return &s }

func buildExtractor(t *testing.T, specs []pattern.Spec) *extract.Extractor {
	t.Helper()
	set, err := pattern.Compile(specs)
	require.NoError(t, err)
	return extract.New(set)
}

func testExtractor(t *testing.T) *extract.Extractor {
	t.Helper()
	return buildExtractor(t, []pattern.Spec{
		{Expression: `_\(("(?:[^"\\]|\\.)*")\)`},
	})
}

// collectEvents records pool callbacks for assertions
type collectEvents struct {
	mu      sync.Mutex
	scanned []string
	failed  []string
}

func (c *collectEvents) FileScanned(path string, _, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanned = append(c.scanned, path)
}

func (c *collectEvents) FileFailed(path string, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, path)
}

func runPool(t *testing.T, files []string, workers int, failFast bool, events Events) (*keyword.Set, *Pool, error) {
	t.Helper()
	set := keyword.NewSet()
	pool := New(Options{
		Extractor: testExtractor(t),
		Set:       set,
		Workers:   workers,
		FailFast:  failFast,
		Events:    events,
	})
	pool.Start(context.Background())
	if err := pool.EnqueueMany(files); err != nil {
		pool.Drain() //nolint:errcheck // the dispatch error is the interesting one
		return set, pool, err
	}
	return set, pool, pool.Drain()
}

func TestPool_Scan(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go": "x := _(\"Hello\")\ny := _(\"World\")\n",
		"b.go": "z := _(\"Hello\")\n",
	})
	files := []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go")}

	events := &collectEvents{}
	set, pool, err := runPool(t, files, 2, false, events)
	require.NoError(t, err)

	assert.Equal(t, 2, pool.Files())
	assert.Equal(t, 0, pool.Failures())
	assert.ElementsMatch(t, files, events.scanned)
	assert.Empty(t, events.failed)

	require.Equal(t, 2, set.Len())
	hello, ok := set.Get("Hello")
	require.True(t, ok)
	assert.Equal(t, []keyword.Position{
		{File: files[0], Line: 1},
		{File: files[1], Line: 1},
	}, hello.Positions())

	world, ok := set.Get("World")
	require.True(t, ok)
	assert.Equal(t, []keyword.Position{{File: files[0], Line: 2}}, world.Positions())
}

// The final keyword set must not depend on how files were spread over
// the workers.
func TestPool_WorkerCountInvariance(t *testing.T) {
	tree := map[string]string{}
	for i := 0; i < 20; i++ {
		name := string(rune('a'+i)) + ".go"
		tree[name] = "_(\"shared\")\n_(\"only " + name + "\")\n"
	}
	dir := writeTree(t, tree)

	var files []string
	for name := range tree {
		files = append(files, filepath.Join(dir, name))
	}

	single, _, err := runPool(t, files, 1, false, nil)
	require.NoError(t, err)
	many, _, err := runPool(t, files, 8, false, nil)
	require.NoError(t, err)

	require.Equal(t, single.Len(), many.Len())
	for _, want := range single.Sorted() {
		got, ok := many.Get(want.Keyword)
		require.True(t, ok, "missing keyword %q", want.Keyword)
		assert.Equal(t, want.Positions(), got.Positions())
	}
}

func TestPool_UnreadableFileIsRecorded(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"ok.go": "_(\"fine\")\n",
	})
	missing := filepath.Join(dir, "missing.go")
	files := []string{filepath.Join(dir, "ok.go"), missing}

	events := &collectEvents{}
	set, pool, err := runPool(t, files, 2, false, events)

	require.Error(t, err, "Drain surfaces the first recorded error")
	assert.Equal(t, 1, pool.Files())
	assert.Equal(t, 1, pool.Failures())
	assert.Equal(t, []string{missing}, events.failed)
	assert.True(t, set.Contains("fine"), "the healthy file still scanned")
}

func TestPool_FailFastOnDecodeError(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"bad.go": "_(\"oops \\q\")\n",
	})

	_, _, err := runPool(t, []string{filepath.Join(dir, "bad.go")}, 1, true, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown escape")
}

// A diverging replace-rule set is a configuration error: it must abort
// the run even when fail-fast is off.
func TestPool_NonConvergenceAbortsWithoutFailFast(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src.go": "a\n",
	})

	set := keyword.NewSet()
	pool := New(Options{
		Extractor: buildExtractor(t, []pattern.Spec{
			{Expression: `(a+)`},
			{Expression: `^a`, Replacement: strp(`aa`)},
		}),
		Set:     set,
		Workers: 2,
	})
	pool.Start(context.Background())
	_ = pool.Enqueue(filepath.Join(dir, "src.go"))
	err := pool.Drain()

	require.Error(t, err)
	var cerr *pattern.ConvergenceError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "did not converge")
}

// Once the run context is cancelled, no queued path may start scanning.
func TestPool_CancelledContextStopsWorkers(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"late.go": "_(\"never seen\")\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	set := keyword.NewSet()
	pool := New(Options{Extractor: testExtractor(t), Set: set, Workers: 2})
	pool.Start(ctx)
	cancel()

	// the buffered queue may still accept the path, but no worker
	// is allowed to pick it up anymore
	_ = pool.Enqueue(filepath.Join(dir, "late.go"))
	require.NoError(t, pool.Drain())

	assert.Equal(t, 0, pool.Files())
	assert.Equal(t, 0, set.Len())
}

func TestPool_DecodeErrorIsSkippedByDefault(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"mixed.go": "_(\"oops \\q\")\n_(\"good\")\n",
	})

	set, pool, err := runPool(t, []string{filepath.Join(dir, "mixed.go")}, 1, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Files())
	assert.True(t, set.Contains("good"))
	assert.False(t, set.Contains("oops \\q"))
}
