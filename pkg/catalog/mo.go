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
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"gitlab.com/tozd/go/errors"
)

const moMagic uint32 = 0x950412de

// 📤 WriteMO serializes the catalog in the GNU MO binary format
// (little endian, revision 0, no hash table). Entries are emitted in
// byte order of their ids as the format requires; the header entry
// sorts first with its empty id.
func WriteMO(w io.Writer, f *File) error {
	entries := f.Entries()
	all := make([]*Entry, 0, len(entries)+1)
	if f.Header != nil {
		all = append(all, f.Header)
	}
	all = append(all, entries...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	n := uint32(len(all))
	const headerSize = 28
	origTable := uint32(headerSize)
	transTable := origTable + 8*n
	stringsStart := transTable + 8*n

	// length/offset pairs for ids then translations, offsets relative
	// to the start of the string blob
	var blob bytes.Buffer
	offsets := make([]uint32, 0, 4*n)
	for _, e := range all {
		offsets = append(offsets, uint32(len(e.ID)), uint32(blob.Len()))
		blob.WriteString(e.ID)
		blob.WriteByte(0)
	}
	for _, e := range all {
		offsets = append(offsets, uint32(len(e.Str)), uint32(blob.Len()))
		blob.WriteString(e.Str)
		blob.WriteByte(0)
	}

	var out bytes.Buffer
	for _, v := range []uint32{moMagic, 0, n, origTable, transTable, 0, 0} {
		binary.Write(&out, binary.LittleEndian, v) //nolint:errcheck // bytes.Buffer cannot fail
	}
	for i := 0; i < len(offsets); i += 2 {
		binary.Write(&out, binary.LittleEndian, offsets[i])                 //nolint:errcheck
		binary.Write(&out, binary.LittleEndian, stringsStart+offsets[i+1]) //nolint:errcheck
	}
	out.Write(blob.Bytes())

	if _, err := w.Write(out.Bytes()); err != nil {
		return errors.Errorf("writing MO data: %w", err)
	}
	return nil
}
