// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import (
	"os"
	"path/filepath"
)

// SearchPaths holds the ordered directory lists used to resolve include
// targets. Base paths serve angle includes and act as the fallback for
// quoted includes; quoted paths are tried for quoted includes before the
// base paths. First match wins.
//
// SearchPaths must not be modified once a run has started; it is shared
// read-only by all parser workers.
type SearchPaths struct {
	base   []string
	quoted []string
}

// AddBase appends a directory to the base search paths.
func (s *SearchPaths) AddBase(dir string) {
	s.base = append(s.base, dir)
}

// AddQuoted appends a directory to the quoted search paths.
func (s *SearchPaths) AddQuoted(dir string) {
	s.quoted = append(s.quoted, dir)
}

// resolve resolves target to a canonical path. An angle target scans the
// base paths in order. A quoted target tries the including file's
// directory first, then the quoted paths, then the base paths.
func (s *SearchPaths) resolve(target string, quoted bool, includerDir string) (string, bool) {
	name := filepath.FromSlash(target)
	if quoted {
		if p, ok := tryFile(filepath.Join(includerDir, name)); ok {
			return p, true
		}
		for _, dir := range s.quoted {
			if p, ok := tryFile(filepath.Join(dir, name)); ok {
				return p, true
			}
		}
	}
	for _, dir := range s.base {
		if p, ok := tryFile(filepath.Join(dir, name)); ok {
			return p, true
		}
	}
	return "", false
}

// tryFile reports whether name is an existing regular file and returns
// its canonical path.
func tryFile(name string) (string, bool) {
	fi, err := os.Stat(name)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false
	}
	p, err := canonicalPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// canonicalPath returns the absolute, symlink-free form of name. The
// canonical form is the node identity used for deduplication and
// once-guard matching, so two relative routes to the same physical file
// map to one node.
func canonicalPath(name string) (string, error) {
	p, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(p)
}
