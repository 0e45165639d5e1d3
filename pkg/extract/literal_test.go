package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLiteral(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		want      string
		wantError string
	}{
		{
			name:  "plain_double_quoted",
			token: `"Hello world"`,
			want:  "Hello world",
		},
		{
			name:  "plain_single_quoted",
			token: `'Hello world'`,
			want:  "Hello world",
		},
		{
			name:  "empty_string",
			token: `""`,
			want:  "",
		},
		{
			name:  "simple_escapes",
			token: `"a\tb\nc\rd"`,
			want:  "a\tb\nc\rd",
		},
		{
			name:  "escaped_quote_and_backslash",
			token: `"say \"hi\" \\ bye"`,
			want:  `say "hi" \ bye`,
		},
		{
			name:  "hex_escape",
			token: `"\x41\x62"`,
			want:  "Ab",
		},
		{
			name:  "short_hex_escape",
			token: `"\x9!"`,
			want:  "\t!",
		},
		{
			name:  "short_unicode_escape",
			token: `"café"`,
			want:  "café",
		},
		{
			name:  "long_unicode_escape",
			token: `"\U0001F680"`,
			want:  "🚀",
		},
		{
			name:  "nul_escape",
			token: `"a\0b"`,
			want:  "a\x00b",
		},
		{
			name:      "unknown_escape",
			token:     `"bad \q escape"`,
			wantError: "unknown escape",
		},
		{
			name:      "dangling_backslash",
			token:     `"trailing \"`,
			wantError: "dangling backslash",
		},
		{
			name:      "unescaped_quote_inside",
			token:     `"a"b"`,
			wantError: "unescaped quote",
		},
		{
			name:      "mismatched_quotes",
			token:     `"mixed'`,
			wantError: "mismatched quotes",
		},
		{
			name:      "unquoted_token",
			token:     `bare`,
			wantError: "not quoted",
		},
		{
			name:      "truncated_unicode_escape",
			token:     `"\u12"`,
			wantError: `bad \u escape`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLiteral(tt.token)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
