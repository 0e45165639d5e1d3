package catalog

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/potx/pkg/keyword"
)

func exportFixture(t *testing.T) *File {
	t.Helper()
	f := NewFile()
	f.Header = NewTemplateHeader()
	require.NoError(t, f.Add(&Entry{ID: "Hello", Str: "Hallo"}))
	require.NoError(t, f.Add(&Entry{ID: "Bye", Str: "Tschüss"}))
	require.NoError(t, f.Add(&Entry{ID: "<b>bold</b>", Str: "<b>fett</b>"}))
	return f
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exportFixture(t)))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"Hello":       "Hallo",
		"Bye":         "Tschüss",
		"<b>bold</b>": "<b>fett</b>",
	}, got)

	// HTML escaping is off so markup survives verbatim
	assert.Contains(t, buf.String(), "<b>bold</b>")
}

func TestWriteMO(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMO(&buf, exportFixture(t)))
	data := buf.Bytes()

	le := binary.LittleEndian
	require.GreaterOrEqual(t, len(data), 28)
	assert.Equal(t, uint32(0x950412de), le.Uint32(data[0:4]), "magic")
	assert.Equal(t, uint32(0), le.Uint32(data[4:8]), "revision")

	n := le.Uint32(data[8:12])
	assert.Equal(t, uint32(4), n, "three entries plus the header")

	origTable := le.Uint32(data[12:16])
	transTable := le.Uint32(data[16:20])
	assert.Equal(t, uint32(28), origTable)
	assert.Equal(t, origTable+8*n, transTable)

	// walk the tables and rebuild the id -> translation mapping
	got := make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		oLen := le.Uint32(data[origTable+8*i:])
		oOff := le.Uint32(data[origTable+8*i+4:])
		tLen := le.Uint32(data[transTable+8*i:])
		tOff := le.Uint32(data[transTable+8*i+4:])
		id := string(data[oOff : oOff+oLen])
		got[id] = string(data[tOff : tOff+tLen])

		// strings are NUL terminated
		assert.Equal(t, byte(0), data[oOff+oLen])
		assert.Equal(t, byte(0), data[tOff+tLen])
	}
	assert.Equal(t, "Hallo", got["Hello"])
	assert.Equal(t, "Tschüss", got["Bye"])
	assert.Contains(t, got[""], "Content-Type: text/plain; charset=UTF-8")

	// ids must be sorted; the header's empty id comes first
	var prev string
	first := true
	for i := uint32(0); i < n; i++ {
		oLen := le.Uint32(data[origTable+8*i:])
		oOff := le.Uint32(data[origTable+8*i+4:])
		id := string(data[oOff : oOff+oLen])
		if first {
			assert.Equal(t, "", id)
			first = false
		} else {
			assert.Less(t, prev, id)
		}
		prev = id
	}
}

func TestBundleRoundTrip(t *testing.T) {
	f := NewFile()
	f.Header = NewTemplateHeader()
	require.NoError(t, f.Add(&Entry{
		ID:         "Hello World",
		Str:        "Hallo Welt",
		References: []keyword.Position{{File: "src/main.c", Line: 10}},
		Flags:      []string{FlagFuzzy},
		PrevID:     "Helo World",
	}))

	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, f))
	assert.Equal(t, []byte("POTXB1"), buf.Bytes()[:6])

	got, err := ReadBundle(&buf)
	require.NoError(t, err)

	require.NotNil(t, got.Header)
	assert.Equal(t, f.Header.Str, got.Header.Str)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, f.Entries()[0], got.Entries()[0])
}

func TestReadBundle_BadMagic(t *testing.T) {
	_, err := ReadBundle(bytes.NewReader([]byte("NOTMAGIC-and-more")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a translation bundle")
}
