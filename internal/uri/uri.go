// Copyright 2025 Florian Zenker (flo@znkr.io)
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

// Package uri escapes text for the delta and patch text formats.
//
// The escaping is compatible with other diff-match-patch implementations: It matches
// JavaScript's encodeURI, except that spaces are never escaped.
package uri

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned if unescaped text is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in escaped text")

const upperhex = "0123456789ABCDEF"

// unreserved reports whether c is passed through unescaped.
func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(" -_.!~*'();/?:@&=+$,#", c) >= 0
}

// Encode escapes every byte of s that's not unreserved as %XX.
func Encode(s string) string {
	n := 0
	for i := range len(s) {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := range len(s) {
		c := s[i]
		if unreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

// Decode reverses Encode. Any %XX escape is decoded, not just the ones produced by Encode. It's
// an error if s contains a malformed escape or if the result is not valid UTF-8.
func Decode(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		if !utf8.ValidString(s) {
			return "", ErrInvalidUTF8
		}
		return s, nil
	}
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(out) {
		return "", ErrInvalidUTF8
	}
	return out, nil
}
