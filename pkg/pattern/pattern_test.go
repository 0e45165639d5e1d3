package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestCompile(t *testing.T) {
	tests := []struct {
		name      string
		specs     []Spec
		wantError string
	}{
		{
			name: "match_and_replace_rules",
			specs: []Spec{
				{Expression: `_\(("(?:[^"\\]|\\.)*")\)`},
				{Expression: `^\((.*)\)$`, Replacement: strp(`$1`)},
			},
		},
		{
			name:      "empty_set",
			specs:     nil,
			wantError: "no patterns configured",
		},
		{
			name: "invalid_expression",
			specs: []Spec{
				{Expression: `((`},
			},
			wantError: "compiling pattern 0",
		},
		{
			name: "only_replace_rules",
			specs: []Spec{
				{Expression: `a`, Replacement: strp(`b`)},
			},
			wantError: "no match patterns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Compile(tt.specs)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, set)
			assert.Equal(t, 1, set.Matchers())
			assert.Equal(t, 1, set.Replacers())
		})
	}
}

func TestSet_FirstMatch(t *testing.T) {
	set, err := Compile([]Spec{
		{Expression: `first_(\w+)`},
		{Expression: `second_(\w+)`},
		{Expression: `CASE_(\w+)`, IgnoreCase: true},
	})
	require.NoError(t, err)

	tests := []struct {
		name         string
		line         string
		wantText     string
		wantCaptured string
		wantStart    int
		wantOK       bool
	}{
		{
			name:         "declared_order_beats_position",
			line:         "second_b then first_a",
			wantText:     "first_a",
			wantCaptured: "a",
			wantStart:    14,
			wantOK:       true,
		},
		{
			name:         "falls_through_to_later_rule",
			line:         "only second_b here",
			wantText:     "second_b",
			wantCaptured: "b",
			wantStart:    5,
			wantOK:       true,
		},
		{
			name:         "ignore_case_option",
			line:         "case_x",
			wantText:     "case_x",
			wantCaptured: "x",
			wantStart:    0,
			wantOK:       true,
		},
		{
			name:   "no_match",
			line:   "nothing to see",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := set.FirstMatch(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantText, m.Text)
			assert.Equal(t, tt.wantCaptured, m.Captured)
			assert.Equal(t, tt.wantStart, m.Start)
			assert.Equal(t, tt.wantStart+len(tt.wantText), m.End)
			assert.Equal(t, m.Text, tt.line[m.Start:m.End], "offsets must bound the matched region")
		})
	}
}

func TestSet_Reduce(t *testing.T) {
	tests := []struct {
		name      string
		specs     []Spec
		candidate string
		want      string
		wantError string
	}{
		{
			name: "unwraps_nested_wrappers_to_fixpoint",
			specs: []Spec{
				{Expression: `dummy`},
				{Expression: `^\((.*)\)$`, Replacement: strp(`$1`)},
			},
			candidate: `((("x")))`,
			want:      `"x"`,
		},
		{
			name: "replace_rules_apply_in_declared_order",
			specs: []Spec{
				{Expression: `dummy`},
				{Expression: `^a`, Replacement: strp(`b`)},
				{Expression: `^b`, Replacement: strp(`c`)},
			},
			candidate: "a-tail",
			// the first pass applies both rules in order, a -> b -> c
			want: "c-tail",
		},
		{
			name: "no_matching_rule_is_identity",
			specs: []Spec{
				{Expression: `dummy`},
				{Expression: `zzz`, Replacement: strp(`yyy`)},
			},
			candidate: `"unchanged"`,
			want:      `"unchanged"`,
		},
		{
			name: "diverging_rules_hit_the_cap",
			specs: []Spec{
				{Expression: `dummy`},
				{Expression: `^a`, Replacement: strp(`aa`)},
			},
			candidate: "a",
			wantError: "did not converge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Compile(tt.specs)
			require.NoError(t, err)

			got, err := set.Reduce(tt.candidate)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				var cerr *ConvergenceError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, maxRewritePasses, cerr.Passes)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
