// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import (
	"fmt"
	"strings"
)

// NotFoundError reports an include target that could not be resolved
// against the including file's directory or the search paths.
type NotFoundError struct {
	Target   string // target as written, without delimiters
	Quoted   bool   // true for #include "...", false for #include <...>
	Includer string // canonical path of the including file
	Line     int    // 0-based line number of the directive
	Source   []byte // full source text of the including file
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s:%d: include not found: %s", e.Includer, e.Line, e.delimited())
}

func (e *NotFoundError) delimited() string {
	if e.Quoted {
		return `"` + e.Target + `"`
	}
	return "<" + e.Target + ">"
}

// DirectiveError reports a directive grammar violation.
//
// The current grammar is total: unrecognized or unclosed directive lines
// pass through as text, so parsing never produces this error. It remains
// in the taxonomy for grammar tightening behind it.
type DirectiveError struct {
	Path   string // canonical path of the offending file
	Line   int    // 0-based line number
	Source []byte // full source text of the offending file
	Reason string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// CycleError reports an include cycle with no once-guarded file on it.
// Replaying such a cycle would re-enter the same file without bound, so
// the run is rejected before any output is produced. Cycles that pass
// through a once-guarded file are legal; the guard suppresses re-entry.
type CycleError struct {
	// Cycle holds the canonical paths forming the cycle, in include
	// order; the first entry is repeated at the end.
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle: %s", strings.Join(e.Cycle, " -> "))
}
