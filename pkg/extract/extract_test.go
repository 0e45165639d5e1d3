package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/potx/pkg/keyword"
	"github.com/walteh/potx/pkg/pattern"
)

func strp(s string) *string { return &s }

func compileRules(t *testing.T, specs []pattern.Spec) *pattern.Set {
	t.Helper()
	set, err := pattern.Compile(specs)
	require.NoError(t, err)
	return set
}

func TestExtractor_Line(t *testing.T) {
	gettext := []pattern.Spec{
		{Expression: `_\(\s*("(?:[^"\\]|\\.)*")\s*[,)]`},
	}

	tests := []struct {
		name      string
		specs     []pattern.Spec
		line      string
		wantKws   []string
		wantErrs  int
		wantError string
	}{
		{
			name:    "single_occurrence",
			specs:   gettext,
			line:    `printf(_("Hello world"));`,
			wantKws: []string{"Hello world"},
		},
		{
			name:    "two_occurrences_one_line",
			specs:   gettext,
			line:    `a := _("first") + _("second")`,
			wantKws: []string{"first", "second"},
		},
		{
			name:    "escapes_are_decoded",
			specs:   gettext,
			line:    `_("line one\nline two")`,
			wantKws: []string{"line one\nline two"},
		},
		{
			name:    "extra_call_arguments",
			specs:   gettext,
			line:    `_("with args", count)`,
			wantKws: []string{"with args"},
		},
		{
			name:  "blank_line",
			specs: gettext,
			line:  "   \t  ",
		},
		{
			name:  "no_match",
			specs: gettext,
			line:  `x := compute(42)`,
		},
		{
			name: "replace_rules_strip_wrappers",
			specs: []pattern.Spec{
				{Expression: `tr(\(\s*"(?:[^"\\]|\\.)*"\s*\))`},
				{Expression: `^\(\s*(".*")\s*\)$`, Replacement: strp(`$1`)},
			},
			line:    `tr( "wrapped" )`,
			wantKws: []string{"wrapped"},
		},
		{
			// the matched region is cut by offset: text earlier on the
			// line that merely repeats the captured characters must
			// survive untouched and must not seam into a fresh match
			name: "repeated_text_elsewhere_is_left_alone",
			specs: []pattern.Spec{
				{Expression: `_\(("(?:[^"\\]|\\.)*")\)`},
			},
			line:    `_("a""x") _("a")`,
			wantKws: []string{"a"},
		},
		{
			name:     "decode_failure_skips_occurrence",
			specs:    gettext,
			line:     `_("bad \q") and _("good")`,
			wantKws:  []string{"good"},
			wantErrs: 1,
		},
		{
			name: "diverging_replace_rules_abort",
			specs: []pattern.Spec{
				{Expression: `(a)`},
				{Expression: `^a`, Replacement: strp(`aa`)},
			},
			line:      "a",
			wantError: "did not converge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := New(compileRules(t, tt.specs))

			occs, errs, err := x.Line("main.c", 7, tt.line)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Len(t, errs, tt.wantErrs)

			var kws []string
			for _, occ := range occs {
				assert.Equal(t, keyword.Position{File: "main.c", Line: 7}, occ.Pos)
				kws = append(kws, occ.Keyword)
			}
			assert.Equal(t, tt.wantKws, kws)
		})
	}
}

func TestExtractor_Line_DecodeErrorDetail(t *testing.T) {
	x := New(compileRules(t, []pattern.Spec{
		{Expression: `_\(("(?:[^"\\]|\\.)*")\)`},
	}))

	occs, errs, err := x.Line("app.go", 12, `_("oops \q")`)
	require.NoError(t, err)
	assert.Empty(t, occs)
	require.Len(t, errs, 1)

	var decodeErr *DecodeError
	require.ErrorAs(t, errs[0], &decodeErr)
	assert.Equal(t, keyword.Position{File: "app.go", Line: 12}, decodeErr.Pos)
	assert.Equal(t, `"oops \q"`, decodeErr.Token)
	assert.Contains(t, decodeErr.Error(), "app.go:12")
}
