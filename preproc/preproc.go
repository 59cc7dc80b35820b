// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import (
	"context"
	"io"
)

// Preprocessor preprocesses entry files with a fixed set of search
// paths. The zero value resolves quoted includes relative to the
// including file only.
type Preprocessor struct {
	// Paths are the search directories for include resolution. They
	// must not be modified while a run is in progress.
	Paths *SearchPaths

	// Parallelism bounds concurrent file parses; <= 0 means the number
	// of CPUs. The flattened output does not depend on this value.
	Parallelism int
}

// Preprocess resolves every #include reachable from entry and writes the
// flattened document to w.
//
// If w implements MappedWriter, text is delivered source-mapped. If
// track is non-nil it is called once per distinct loaded file after the
// document is written.
//
// On an unreadable file, an unresolved include, or an include cycle
// with no once-guard, the error is returned before anything is written
// to w; a failing write on w itself surfaces as-is and may leave
// partial output behind.
func (p *Preprocessor) Preprocess(ctx context.Context, entry string, w io.Writer, track TrackFunc) error {
	g, err := load(ctx, entry, p.Paths, p.Parallelism)
	if err != nil {
		return err
	}
	if err := g.checkCycles(); err != nil {
		return err
	}
	return g.flatten(w, track)
}

// Preprocess runs a one-shot preprocessing of entry with paths.
// See Preprocessor.Preprocess.
func Preprocess(ctx context.Context, entry string, paths *SearchPaths, w io.Writer, track TrackFunc) error {
	p := &Preprocessor{Paths: paths}
	return p.Preprocess(ctx, entry, w, track)
}
