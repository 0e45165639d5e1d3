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
	"compress/gzip"
	"encoding/json"
	"io"

	"gitlab.com/tozd/go/errors"
)

// bundleMagic identifies the compressed bundle envelope
var bundleMagic = []byte("POTXB1")

// bundlePayload is the JSON body inside the envelope
type bundlePayload struct {
	Header  *Entry   `json:"header,omitempty"`
	Entries []*Entry `json:"entries"`
}

// 📤 WriteBundle writes the auxiliary translation-bundle format: a
// magic header followed by a gzip-compressed JSON dump of the full
// entry model (translations, flags, references, previous ids).
func WriteBundle(w io.Writer, f *File) error {
	if _, err := w.Write(bundleMagic); err != nil {
		return errors.Errorf("writing bundle magic: %w", err)
	}

	zw := gzip.NewWriter(w)
	enc := json.NewEncoder(zw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(bundlePayload{Header: f.Header, Entries: f.Entries()}); err != nil {
		return errors.Errorf("encoding bundle payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return errors.Errorf("flushing bundle: %w", err)
	}
	return nil
}

// 📥 ReadBundle parses a bundle written by WriteBundle
func ReadBundle(r io.Reader) (*File, error) {
	magic := make([]byte, len(bundleMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, errors.Errorf("reading bundle magic: %w", err)
	}
	if !bytes.Equal(magic, bundleMagic) {
		return nil, errors.Errorf("not a translation bundle (magic %q)", magic)
	}

	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Errorf("opening bundle stream: %w", err)
	}
	defer zr.Close()

	var payload bundlePayload
	if err := json.NewDecoder(zr).Decode(&payload); err != nil {
		return nil, errors.Errorf("decoding bundle payload: %w", err)
	}

	f := NewFile()
	f.Header = payload.Header
	for _, e := range payload.Entries {
		if err := f.Add(e); err != nil {
			return nil, errors.Errorf("loading bundle entry: %w", err)
		}
	}
	return f, nil
}
