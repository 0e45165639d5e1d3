package scanner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/potx/pkg/keyword"
)

func TestDecodeReader(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		input    []byte
		want     string
	}{
		{
			name:     "empty_name_passes_through",
			encoding: "",
			input:    []byte("héllo"),
			want:     "héllo",
		},
		{
			name:     "utf8_alias_passes_through",
			encoding: "UTF8",
			input:    []byte("héllo"),
			want:     "héllo",
		},
		{
			name:     "latin1_is_transcoded",
			encoding: "iso-8859-1",
			input:    []byte{'h', 0xe9, 'l', 'l', 'o'}, // "héllo" in latin-1
			want:     "héllo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeReader(bytes.NewReader(tt.input), tt.encoding)
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDecodeReader_UnknownEncoding(t *testing.T) {
	_, err := DecodeReader(strings.NewReader(""), "klingon-8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown text encoding")
}

func TestScanStream(t *testing.T) {
	set := keyword.NewSet()
	input := "_(\"from stdin\")\nplain line\n_(\"from stdin\")\n"

	kws, skipped, err := ScanStream(context.Background(), testExtractor(t), set, strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, 2, kws)
	assert.Equal(t, 0, skipped)

	entry, ok := set.Get("from stdin")
	require.True(t, ok)
	// stream occurrences carry no file name
	assert.Equal(t, []keyword.Position{{Line: 1}, {Line: 3}}, entry.Positions())
}

func TestScanStream_SkipsUndecodable(t *testing.T) {
	set := keyword.NewSet()
	input := "_(\"bad \\q\")\n_(\"good\")\n"

	kws, skipped, err := ScanStream(context.Background(), testExtractor(t), set, strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, 1, kws)
	assert.Equal(t, 1, skipped)
	assert.True(t, set.Contains("good"))
}
