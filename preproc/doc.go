// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package preproc implements a textual #include preprocessor.
//
// It recognizes the following line directives, which must start at the
// beginning of a line:
//
//	#include "target"
//	#include <target>
//	#pragma once
//
// Any other line, including a directive-looking line that fails to close
// its target, passes through as plain text.
//
// Given an entry file and search paths, Preprocess loads the transitive
// include closure concurrently (each physical file is read and parsed
// exactly once), then replays the graph depth-first in document order,
// writing a single flattened document. A file containing `#pragma once`
// is emitted at its first inclusion only; later inclusions are dropped,
// matching conventional include-guard semantics.
//
// The output does not depend on load scheduling: parsing records byte
// ranges and resolved targets per file, and the single-threaded replay
// orders them by document position.
package preproc
