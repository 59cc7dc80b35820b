// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	log "github.com/golang/glog"
	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/ipp/subcmd/preprocess"
	"go.chromium.org/infra/build/ipp/subcmd/version"
)

// Ipp is a textual include-directive preprocessor.

const ippVersion = "0.9"

func getApplication() *subcommands.DefaultApplication {
	return &subcommands.DefaultApplication{
		Name:  "ipp",
		Title: "ipp is a textual include-directive preprocessor.",
		Commands: []*subcommands.Command{
			preprocess.Cmd(),
			version.Cmd(ippVersion),
			subcommands.CmdHelp,
		},
	}
}

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(out, "global flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	os.Exit(ippMain(flag.Args()))
}

func ippMain(args []string) int {
	// Flush the log on exit to not lose any messages.
	defer log.Flush()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	// Print build information to the log.
	if log.V(1) {
		if buildinfo, ok := debug.ReadBuildInfo(); ok {
			log.Infof("main module: %s %s", buildinfo.Main.Path, buildinfo.Main.Version)
		}
	}

	return subcommands.Run(getApplication(), args)
}
