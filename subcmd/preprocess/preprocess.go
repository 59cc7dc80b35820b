// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package preprocess is the preprocess subcommand: it flattens an entry
// file's include closure into a single document.
package preprocess

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/ipp/preproc"
	"go.chromium.org/infra/build/ipp/toolsupport/makeutil"
)

const usage = `flatten #include directives into a single document

 $ ipp preprocess [-I <dir>]... [-iquote <dir>]... [-o <file>] [-MF <file>] <entry>

Writes the flattened document to -o, or to stdout. With -MF, a
Makefile-style depfile listing every file the document was built from
is written for the host build system.
`

// Cmd returns the Command for the `preprocess` subcommand provided by
// this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "preprocess <args>... <entry>",
		ShortDesc: "flatten #include directives",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	includeDirs dirList
	quotedDirs  dirList
	output      string
	depsFile    string
	jobs        int
}

func (c *run) init() {
	c.Flags.Var(&c.includeDirs, "I", "directory for <...> includes (and fallback for \"...\"); repeatable, searched in order")
	c.Flags.Var(&c.quotedDirs, "iquote", "directory for \"...\" includes not found next to the including file; repeatable, searched before -I dirs")
	c.Flags.StringVar(&c.output, "o", "", "write the flattened document to this file instead of stdout")
	c.Flags.StringVar(&c.depsFile, "MF", "", "write a depfile for the flattened document to this file")
	c.Flags.IntVar(&c.jobs, "j", 0, "parse parallelism. 0 to use all CPUs")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("need exactly one entry file: %w", flag.ErrHelp)
	}
	entry := args[0]

	var sp preproc.SearchPaths
	for _, dir := range c.includeDirs {
		sp.AddBase(dir)
	}
	for _, dir := range c.quotedDirs {
		sp.AddQuoted(dir)
	}

	var deps []string
	track := func(path string, source []byte) {
		deps = append(deps, path)
	}
	p := &preproc.Preprocessor{
		Paths:       &sp,
		Parallelism: c.jobs,
	}
	var buf bytes.Buffer
	if err := p.Preprocess(ctx, entry, &buf, track); err != nil {
		return err
	}
	log.Debugf("flattened %s: %d files, %d bytes", entry, len(deps), buf.Len())

	if c.output == "" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	} else if err := os.WriteFile(c.output, buf.Bytes(), 0644); err != nil {
		return err
	}
	if c.depsFile != "" {
		target := c.output
		if target == "" {
			target = entry
		}
		if err := makeutil.WriteDepsFile(c.depsFile, target, deps); err != nil {
			return err
		}
	}
	return nil
}

// dirList is a repeatable directory flag.
type dirList []string

func (d *dirList) String() string {
	return strings.Join(*d, " ")
}

func (d *dirList) Set(s string) error {
	*d = append(*d, s)
	return nil
}
