// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeutil handles Makefile-style dependency files (*.d), the
// format emitted by `gcc -MF` and consumed by make and ninja.
package makeutil

import (
	"bytes"
	"os"
	"strings"
)

// FormatDeps formats a dependency rule for output and its inputs.
// Spaces in paths are '\'-escaped; inputs are placed one per line with
// '\'-newline continuations.
func FormatDeps(output string, inputs []string) []byte {
	var b bytes.Buffer
	b.WriteString(escape(output))
	b.WriteByte(':')
	for _, in := range inputs {
		b.WriteString(" \\\n ")
		b.WriteString(escape(in))
	}
	b.WriteByte('\n')
	return b.Bytes()
}

// WriteDepsFile writes the dependency rule for output to fname.
func WriteDepsFile(fname, output string, inputs []string) error {
	return os.WriteFile(fname, FormatDeps(output, inputs), 0644)
}

func escape(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}

// ParseDeps parses deps contents and returns a list of inputs.
func ParseDeps(b []byte) []string {
	// deps contents
	// <output>: <input> ...
	// <input> is space separated
	// '\'+newline is space
	// '\'+space is escaped space (not separator)
	var token string
	// skip until ':'
	i := bytes.IndexByte(b, ':')
	if i < 0 {
		return nil
	}
	// collect inputs
	var inputs []string
	for s := b[i+1:]; len(s) > 0; {
		token, s = nextToken(s)
		if token != "" {
			inputs = append(inputs, token)
		}
	}
	return inputs
}

func nextToken(s []byte) (string, []byte) {
	var sb strings.Builder
	// skip spaces
skipSpaces:
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n' {
			i++
			continue
		}
		if s[i] == '\\' && i+2 < len(s) && s[i+1] == '\r' && s[i+2] == '\n' {
			i += 2
			continue
		}
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			s = s[i:]
			break skipSpaces
		}
	}
	// extract next space not escaped
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case ' ':
				sb.WriteByte(s[i])
			case '\r', '\n':
				// '\'+newline is space
				return sb.String(), s[i+1:]
			default:
				sb.WriteByte('\\')
				sb.WriteByte(s[i])
			}
			continue
		}
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			return sb.String(), s[i+1:]
		}
		sb.WriteByte(s[i])
	}
	return sb.String(), nil
}
