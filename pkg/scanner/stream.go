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
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/potx/pkg/extract"
	"github.com/walteh/potx/pkg/keyword"
)

// 🌊 ScanStream runs an anonymous input stream (stdin) through the
// extractor. Occurrences carry an empty file name. Decode failures are
// logged and counted like the pool does for files.
func ScanStream(ctx context.Context, x *extract.Extractor, set *keyword.Set, r io.Reader, encoding string) (kws, skipped int, err error) {
	log := zerolog.Ctx(ctx)

	dr, err := DecodeReader(r, encoding)
	if err != nil {
		return 0, 0, err
	}

	sc := bufio.NewScanner(dr)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		occs, decodeErrs, lineErr := x.Line("", lineNo, sc.Text())
		if lineErr != nil {
			return kws, skipped, lineErr
		}
		for _, derr := range decodeErrs {
			log.Warn().Err(derr).Msg("skipping undecodable literal")
			skipped++
		}
		for _, occ := range occs {
			set.Merge(occ.Keyword, occ.Pos)
			kws++
		}
	}
	if serr := sc.Err(); serr != nil {
		return kws, skipped, errors.Errorf("reading input stream: %w", serr)
	}
	return kws, skipped, nil
}
