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

package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// DecodeLiteral interprets a quoted, C-style escaped string token and
// returns its decoded content. The token must be wrapped in matching
// double or single quotes after trimming surrounding whitespace.
//
// Supported escapes: \n \t \r \v \f \a \b \0 \\ \" \' \xHH \uHHHH
// \UHHHHHHHH. Anything else fails, which callers treat as a recoverable
// skip-this-occurrence condition.
func DecodeLiteral(token string) (string, error) {
	token = strings.TrimSpace(token)
	if len(token) < 2 {
		return "", errors.Errorf("token %q is too short to be a quoted literal", token)
	}
	quote := token[0]
	if quote != '"' && quote != '\'' {
		return "", errors.Errorf("token %q is not quoted", token)
	}
	if token[len(token)-1] != quote {
		return "", errors.Errorf("token %q has mismatched quotes", token)
	}

	body := token[1 : len(token)-1]
	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); {
		c := body[i]
		if c == quote {
			// unescaped quote inside the body means the token was cut short
			return "", errors.Errorf("unescaped quote inside literal %q", token)
		}
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", errors.Errorf("literal %q ends with a dangling backslash", token)
		}
		esc := body[i+1]
		i += 2
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'v':
			b.WriteByte('\v')
		case 'f':
			b.WriteByte('\f')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case 'x':
			n, r, err := decodeHex(body[i:], 2)
			if err != nil {
				return "", errors.Errorf("bad \\x escape in %q: %w", token, err)
			}
			b.WriteByte(byte(r))
			i += n
		case 'u':
			n, r, err := decodeHex(body[i:], 4)
			if err != nil {
				return "", errors.Errorf("bad \\u escape in %q: %w", token, err)
			}
			b.WriteRune(r)
			i += n
		case 'U':
			n, r, err := decodeHex(body[i:], 8)
			if err != nil {
				return "", errors.Errorf("bad \\U escape in %q: %w", token, err)
			}
			b.WriteRune(r)
			i += n
		default:
			return "", errors.Errorf("unknown escape \\%c in literal %q", esc, token)
		}
	}

	return b.String(), nil
}

// decodeHex consumes up to want hex digits (at least one) and returns
// the byte count consumed and the decoded code point.
func decodeHex(s string, want int) (int, rune, error) {
	n := 0
	for n < want && n < len(s) && isHexDigit(s[n]) {
		n++
	}
	if n == 0 {
		return 0, 0, errors.New("no hex digits")
	}
	if want > 2 && n != want {
		// \u and \U are fixed width in C-style literals
		return 0, 0, errors.Errorf("expected %d hex digits, got %d", want, n)
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return 0, 0, errors.Errorf("parsing hex digits: %w", err)
	}
	if v > utf8.MaxRune {
		return 0, 0, errors.Errorf("code point %#x out of range", v)
	}
	return n, rune(v), nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
