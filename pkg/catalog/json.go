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
	"encoding/json"
	"io"

	"gitlab.com/tozd/go/errors"
)

// 📤 WriteJSON exports the catalog as a flat id-to-translation object.
// encoding/json sorts map keys, so output is deterministic.
func WriteJSON(w io.Writer, f *File) error {
	out := make(map[string]string, f.Len())
	for _, e := range f.Entries() {
		out[e.ID] = e.Str
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return errors.Errorf("encoding catalog JSON: %w", err)
	}
	return nil
}
