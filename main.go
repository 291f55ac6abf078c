// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/run"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".toml", true)
	verbose := io.ArgToBool(1, true)

	// logger
	initLogger("burnman")

	// message
	if verbose {
		io.PfWhite("\nBurnman -- equilibrium assemblages of minerals\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"job filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// job data
	analysis, err := run.NewMain(fnamepath, verbose)
	if err != nil {
		chk.Panic("cannot read job file:\n%v", err)
	}

	// run tasks
	err = analysis.Run()
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
}

// initLogger sets the global logger to write to the console
func initLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
