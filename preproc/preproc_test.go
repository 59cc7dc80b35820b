// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package preproc

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPreprocess(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/main.txt": "start\n" +
			"#include <base/base.txt>\n" +
			"#include \"local.txt\"\n" +
			"end\n",
		"src/local.txt":          "local\n#include <base/base.txt>\n",
		"include/base/base.txt":  "#pragma once\nbase\n#include <base/extra.txt>\n",
		"include/base/extra.txt": "extra\n",
	})
	var sp SearchPaths
	sp.AddBase(filepath.Join(dir, "include"))

	var buf bytes.Buffer
	var tracked []string
	track := func(path string, source []byte) {
		tracked = append(tracked, filepath.Base(path))
	}
	err := Preprocess(ctx, filepath.Join(dir, "src/main.txt"), &sp, &buf, track)
	if err != nil {
		t.Fatalf("Preprocess()=%v; want nil err", err)
	}
	want := "start\n" +
		"base\n" + // base/base.txt text
		"extra\n" + // base/extra.txt text
		"\n" + // pop from extra.txt
		"\n" + // pop from base.txt
		"local\n" + // local.txt text; its base.txt include is suppressed
		"\n" + // pop from local.txt
		"end\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output: diff -want +got:\n%s", diff)
	}
	sort.Strings(tracked)
	wantTracked := []string{"base.txt", "extra.txt", "local.txt", "main.txt"}
	if diff := cmp.Diff(wantTracked, tracked); diff != "" {
		t.Errorf("tracked: diff -want +got:\n%s", diff)
	}
}

func TestPreprocessVerbatimWithoutIncludes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	content := "line one\n\nline three\n#not a directive\nlast line no newline"
	writeTree(t, dir, map[string]string{"plain.txt": content})

	var buf bytes.Buffer
	err := Preprocess(ctx, filepath.Join(dir, "plain.txt"), &SearchPaths{}, &buf, nil)
	if err != nil {
		t.Fatalf("Preprocess()=%v; want nil err", err)
	}
	if buf.String() != content {
		t.Errorf("Preprocess()=%q; want input verbatim %q", buf.String(), content)
	}
}

func TestPreprocessScheduleIndependence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files := map[string]string{
		"a.txt": "A\n#include \"b.txt\"\n#include \"c.txt\"\n#include \"d.txt\"\n",
		"b.txt": "B\n#include \"e.txt\"\n",
		"c.txt": "C\n#include \"e.txt\"\n#include \"f.txt\"\n",
		"d.txt": "D\n#include \"f.txt\"\n",
		"e.txt": "#pragma once\nE\n",
		"f.txt": "#pragma once\nF\n#include \"e.txt\"\n",
	}
	writeTree(t, dir, files)
	entry := filepath.Join(dir, "a.txt")

	run := func(parallelism int) string {
		var buf bytes.Buffer
		p := &Preprocessor{Parallelism: parallelism}
		if err := p.Preprocess(ctx, entry, &buf, nil); err != nil {
			t.Fatalf("Preprocess(parallelism=%d)=%v; want nil err", parallelism, err)
		}
		return buf.String()
	}
	serial := run(1)
	for _, parallelism := range []int{2, 8} {
		if got := run(parallelism); got != serial {
			t.Errorf("Preprocess(parallelism=%d) output differs from serial:\n%s",
				parallelism, cmp.Diff(serial, got))
		}
	}
}

func TestPreprocessUnresolvedIncludeLocation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt": "one\ntwo\n#include \"missing.txt\"\n",
	})

	var buf bytes.Buffer
	err := Preprocess(ctx, filepath.Join(dir, "a.txt"), &SearchPaths{}, &buf, nil)
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("Preprocess()=%v; want *NotFoundError", err)
	}
	if nfe.Target != "missing.txt" {
		t.Errorf("Target=%q; want %q", nfe.Target, "missing.txt")
	}
	if want := mustCanonical(t, filepath.Join(dir, "a.txt")); nfe.Includer != want {
		t.Errorf("Includer=%q; want %q", nfe.Includer, want)
	}
	if nfe.Line != 2 {
		t.Errorf("Line=%d; want 2", nfe.Line)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes despite error; want none", buf.Len())
	}
}

func TestPreprocessRejectsUnguardedCycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"x.txt": "X\n#include \"y.txt\"\n",
		"y.txt": "Y\n#include \"x.txt\"\n",
	})

	var buf bytes.Buffer
	err := Preprocess(ctx, filepath.Join(dir, "x.txt"), &SearchPaths{}, &buf, nil)
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Preprocess()=%v; want *CycleError", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes despite cycle; want none", buf.Len())
	}
}

func TestPreprocessDedupAliasedRoutes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":       "#include \"sub/../common.txt\"\n#include \"common.txt\"\n",
		"common.txt":  "#pragma once\nCOMMON\n",
		"sub/keep.md": "",
	})

	var buf bytes.Buffer
	var tracked []string
	track := func(path string, source []byte) {
		tracked = append(tracked, path)
	}
	err := Preprocess(ctx, filepath.Join(dir, "a.txt"), &SearchPaths{}, &buf, track)
	if err != nil {
		t.Fatalf("Preprocess()=%v; want nil err", err)
	}
	// Two relative routes to one physical file map to one node: the
	// once-guard holds across them and the file is tracked once.
	if got, want := buf.String(), "COMMON\n\n"; got != want {
		t.Errorf("Preprocess()=%q; want %q", got, want)
	}
	if len(tracked) != 2 {
		t.Errorf("tracked %d paths (%q); want 2", len(tracked), tracked)
	}
}
