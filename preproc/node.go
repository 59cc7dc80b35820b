// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/golang/glog"
)

// chunk is a contiguous unit of a parsed file: either a byte range of
// the owning node's source buffer, or the canonical path of an include
// target when include is non-empty.
type chunk struct {
	start, end int
	include    string
}

// node is one parsed file. It is immutable after parseNode returns and
// owned by the graph table for the lifetime of a run. Text chunks are
// ranges into source; source never escapes the node's own accessors.
type node struct {
	path   string // canonical path; node identity
	once   bool   // file contained #pragma once
	source []byte
	chunks []chunk // in file order
}

func (n *node) text(c chunk) []byte {
	return n.source[c.start:c.end]
}

// parseNode reads the file at the canonical path and splits it into
// chunks. Consecutive text lines merge into a single chunk; an include
// or once-guard directive ends the current text run. Include targets are
// resolved eagerly, so a loaded node only carries canonical paths.
//
// parseNode mutates nothing but the returned node, so it is safe to run
// concurrently for many files.
func parseNode(path string, paths *SearchPaths) (*node, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	n := &node{path: path, source: buf}
	dir := filepath.Dir(path)
	textStart := 0
	flush := func(end int) {
		if end > textStart {
			n.chunks = append(n.chunks, chunk{start: textStart, end: end})
		}
	}
	off := 0
	for lno := 0; off < len(buf); lno++ {
		ln, sz := parseLine(buf[off:])
		switch ln.kind {
		case lineInclude:
			flush(off)
			resolved, ok := paths.resolve(ln.target, ln.quoted, dir)
			if !ok {
				return nil, &NotFoundError{
					Target:   ln.target,
					Quoted:   ln.quoted,
					Includer: path,
					Line:     lno,
					Source:   buf,
				}
			}
			n.chunks = append(n.chunks, chunk{include: resolved})
			textStart = off + sz
		case linePragmaOnce:
			flush(off)
			n.once = true
			textStart = off + sz
		}
		off += sz
	}
	flush(len(buf))
	if log.V(2) {
		log.Infof("parsed %s chunks:%d once:%t", path, len(n.chunks), n.once)
	}
	return n, nil
}
