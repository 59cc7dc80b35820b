// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import (
	"io"
	"slices"
	"sort"
)

// Span identifies the origin of a source-mapped output fragment.
type Span struct {
	Path       string // canonical path of the originating file
	Start, End int    // byte range into that file's source
}

// MappedWriter is an optional extension of the output sink. When the
// sink implements it, text chunks are delivered through WriteSpan with
// their origin for diagnostics; fragments synthesized by the writer (the
// newline emitted on return from an include) still go to Write.
type MappedWriter interface {
	WriteSpan(p []byte, span Span) (n int, err error)
}

// TrackFunc receives every file loaded during a run exactly once, with
// its canonical path and full source text, regardless of how many times
// (or whether) the file's text was emitted. It drives build-dependency
// tracking: a once-guarded file whose later inclusions were all
// suppressed is still a real dependency.
type TrackFunc func(path string, source []byte)

var newline = []byte{'\n'}

// checkCycles rejects include cycles that contain no once-guarded node.
// The replay suppresses re-entry only into once-guarded files, so such a
// cycle would replay forever. It is sufficient to look for cycles in the
// subgraph of non-once nodes: a guard anywhere on a cycle breaks it.
func (g *graph) checkCycles() error {
	const (
		white = iota // unvisited
		grey         // on the walk stack
		black        // finished
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string
	var visit func(n *node) error
	visit = func(n *node) error {
		state[n.path] = grey
		stack = append(stack, n.path)
		for _, c := range n.chunks {
			if c.include == "" {
				continue
			}
			next := g.nodes[c.include]
			if next.once {
				continue
			}
			switch state[next.path] {
			case grey:
				i := slices.Index(stack, next.path)
				cycle := append(slices.Clone(stack[i:]), next.path)
				return &CycleError{Cycle: cycle}
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[n.path] = black
		return nil
	}
	paths := make([]string, 0, len(g.nodes))
	for path := range g.nodes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		n := g.nodes[path]
		if n.once || state[path] != white {
			continue
		}
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

// flatten replays g depth-first in document order, writing the
// flattened text to w and finally reporting every loaded file to track.
//
// An explicit stack of (node, chunk index) frames stands in for the
// call stack of a recursive descent. The traversal follows chunk order
// recorded at parse time, so the output is independent of how the graph
// was scheduled during loading.
func (g *graph) flatten(w io.Writer, track TrackFunc) error {
	type frame struct {
		node *node
		next int
	}
	mw, _ := w.(MappedWriter)
	writeText := func(n *node, c chunk) error {
		if mw != nil {
			_, err := mw.WriteSpan(n.text(c), Span{Path: n.path, Start: c.start, End: c.end})
			return err
		}
		_, err := w.Write(n.text(c))
		return err
	}

	var stack []frame
	entered := make(map[string]bool)
	cur := g.nodes[g.entry]
	idx := 0
	if cur.once {
		entered[cur.path] = true
	}
	for {
		if idx >= len(cur.chunks) {
			if len(stack) == 0 {
				break
			}
			// Terminate the includer's directive line; the included
			// content may not end in a newline.
			if _, err := w.Write(newline); err != nil {
				return err
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cur, idx = top.node, top.next+1
			continue
		}
		c := cur.chunks[idx]
		if c.include == "" {
			if err := writeText(cur, c); err != nil {
				return err
			}
			idx++
			continue
		}
		next := g.nodes[c.include]
		if next.once && entered[next.path] {
			// Re-inclusion of an already emitted once-guarded file
			// is silently dropped.
			idx++
			continue
		}
		if next.once {
			entered[next.path] = true
		}
		stack = append(stack, frame{node: cur, next: idx})
		cur, idx = next, 0
	}

	if track != nil {
		paths := make([]string, 0, len(g.nodes))
		for path := range g.nodes {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			track(path, g.nodes[path].source)
		}
	}
	return nil
}
