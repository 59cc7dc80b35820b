// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import (
	"context"
	"fmt"
	"runtime"

	log "github.com/golang/glog"
	"golang.org/x/sync/semaphore"
)

// graph is the loaded include graph of one preprocessing run: every file
// reachable from the entry, keyed by canonical path. A key maps to nil
// while its parse is in flight; load never returns a graph with a nil
// value. Nodes do not outlive the graph.
type graph struct {
	nodes map[string]*node
	entry string
}

type parseResult struct {
	node *node
	err  error
}

// load concurrently parses the transitive include closure of entry.
//
// Only this goroutine mutates the table; workers are pure functions of
// (path, search paths) and report over the results channel, so no
// locking is involved. A key is inserted (pending) at most once, which
// deduplicates files referenced from several places. Worker parallelism
// affects completion order only, never the loaded contents, so degree 1
// and degree N produce identical graphs.
//
// The first worker error ends the run. Cancelling the derived context
// lets in-flight workers bail out instead of running to completion.
func load(ctx context.Context, entry string, paths *SearchPaths, parallelism int) (*graph, error) {
	if paths == nil {
		paths = &SearchPaths{}
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	entryPath, err := canonicalPath(entry)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entry, err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(parallelism))
	results := make(chan parseResult)
	dispatch := func(path string) {
		go func() {
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			n, err := parseNode(path, paths)
			select {
			case results <- parseResult{node: n, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	g := &graph{
		nodes: map[string]*node{entryPath: nil},
		entry: entryPath,
	}
	dispatch(entryPath)
	outstanding := 1
	for outstanding > 0 {
		var res parseResult
		select {
		case res = <-results:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if res.err != nil {
			return nil, res.err
		}
		outstanding--
		for _, c := range res.node.chunks {
			if c.include == "" {
				continue
			}
			if _, ok := g.nodes[c.include]; ok {
				// Loaded or being loaded.
				continue
			}
			g.nodes[c.include] = nil
			outstanding++
			dispatch(c.include)
		}
		g.nodes[res.node.path] = res.node
		if log.V(1) {
			log.Infof("loaded %s outstanding:%d", res.node.path, outstanding)
		}
	}
	return g, nil
}
