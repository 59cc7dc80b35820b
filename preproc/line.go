// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import "bytes"

type lineKind int

const (
	lineText lineKind = iota
	lineInclude
	linePragmaOnce
)

// line is the classification of a single source line.
type line struct {
	kind   lineKind
	target string // include target, without delimiters
	quoted bool   // true for #include "...", false for #include <...>
}

// parseLine classifies the line starting at buf[0] and returns the number
// of bytes consumed, including the line terminator. The last line of a
// file may be unterminated; it is classified all the same.
//
// The grammar is total: a line that is not a well-formed directive is
// text, so a malformed #include (unclosed target, missing delimiter)
// passes through verbatim rather than failing.
func parseLine(buf []byte) (line, int) {
	n := len(buf)
	content := buf
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		n = i + 1
		content = buf[:i]
	}
	content = bytes.TrimSuffix(content, []byte{'\r'})
	if ln, ok := classify(content); ok {
		return ln, n
	}
	return line{kind: lineText}, n
}

// classify matches content (one line, terminator stripped) against the
// directive grammar. Directives must start at the beginning of the line.
func classify(content []byte) (line, bool) {
	switch {
	case bytes.HasPrefix(content, []byte("#pragma")):
		rest, ok := skipSpace(content[len("#pragma"):])
		if !ok || !bytes.HasPrefix(rest, []byte("once")) {
			return line{}, false
		}
		if !trailingOK(rest[len("once"):]) {
			return line{}, false
		}
		return line{kind: linePragmaOnce}, true
	case bytes.HasPrefix(content, []byte("#include")):
		rest, ok := skipSpace(content[len("#include"):])
		if !ok || len(rest) == 0 {
			return line{}, false
		}
		var closing byte
		var quoted bool
		switch rest[0] {
		case '<':
			closing = '>'
		case '"':
			closing = '"'
			quoted = true
		default:
			return line{}, false
		}
		i := bytes.IndexByte(rest[1:], closing)
		if i <= 0 {
			// Unclosed or empty target.
			return line{}, false
		}
		target := rest[1 : 1+i]
		if bytes.IndexByte(target, '\r') >= 0 {
			return line{}, false
		}
		if !trailingOK(rest[2+i:]) {
			return line{}, false
		}
		return line{kind: lineInclude, target: string(target), quoted: quoted}, true
	}
	return line{}, false
}

// skipSpace skips one or more spaces or tabs.
func skipSpace(b []byte) ([]byte, bool) {
	t := bytes.TrimLeft(b, " \t")
	if len(t) == len(b) {
		return b, false
	}
	return t, true
}

// trailingOK reports whether b holds only trailing whitespace.
func trailingOK(b []byte) bool {
	return len(bytes.TrimLeft(b, " \t")) == 0
}
