// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore
// +build ignore

package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/goccy/go-json"
	"github.com/jdannberg/burnman/inp"
	"github.com/jdannberg/burnman/mdl/gibbs"
)

type Input struct {
	Dir      string    // directory with phase database
	PhasesFn string    // phase database filename
	Phase    string    // name of phase
	X        []float64 // composition
	Pini     float64   // initial pressure
	Pfin     float64   // final pressure
	Tini     float64   // initial temperature
	Tfin     float64   // final temperature
	Np       int       // number of points

	// derived
	inpfn string
}

func (o *Input) PostProcess() {
	if o.Np < 2 {
		o.Np = 11
	}
	if o.Tini <= 0 {
		o.Tini = 1000
	}
	if o.Tfin <= 0 {
		o.Tfin = o.Tini
	}
}

func (o Input) String() (l string) {
	l = io.ArgsTable("INPUT ARGUMENTS",
		"input filename", "inpfn", o.inpfn,
		"directory with phase database", "Dir", o.Dir,
		"phase database filename", "PhasesFn", o.PhasesFn,
		"phase name", "Phase", o.Phase,
		"composition", "X", io.Sf("%v", o.X),
		"initial pressure", "Pini", o.Pini,
		"final pressure", "Pfin", o.Pfin,
		"initial temperature", "Tini", o.Tini,
		"final temperature", "Tfin", o.Tfin,
		"number of points", "Np", o.Np,
	)
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data file
	var in Input
	in.inpfn, _ = io.ArgToFilename(0, "data/phasedrv1", ".inp", true)

	// read and parse input data
	b, err := os.ReadFile(in.inpfn)
	if err != nil {
		io.PfRed("cannot read %s\n", in.inpfn)
		return
	}
	err = json.Unmarshal(b, &in)
	if err != nil {
		io.PfRed("cannot parse %s\n", in.inpfn)
		return
	}
	in.PostProcess()

	// print input table
	io.Pf("%v\n", in)

	// load phase
	if in.Dir == "" {
		in.Dir = filepath.Dir(in.inpfn)
	}
	db, err := inp.ReadPhases(in.Dir, in.PhasesFn)
	if err != nil {
		io.PfRed("cannot load phase database: %v\n", err)
		return
	}
	ph, err := db.Get(in.Phase)
	if err != nil {
		io.PfRed("%v\n", err)
		return
	}

	// driver
	var drv gibbs.Driver
	err = drv.Init(ph, in.X)
	if err != nil {
		io.PfRed("%v\n", err)
		return
	}

	// run
	P := utl.LinSpace(in.Pini, in.Pfin, in.Np)
	T := utl.LinSpace(in.Tini, in.Tfin, in.Np)
	err = drv.Run(P, T)
	if err != nil {
		io.Pfred("driver: Run failed: %v\n", err)
		return
	}

	// results
	io.Pf("%12s%10s%18s%14s%12s", "P[GPa]", "T[K]", "G[J/mol]", "V[m³/mol]", "S[J/K/mol]")
	for e := range ph.Endmembers() {
		io.Pf("%16s", io.Sf("μ%d[J/mol]", e))
	}
	io.Pf("\n")
	for i, res := range drv.Res {
		io.Pf("%12.6f%10.3f%18.6f%14.6e%12.6f", P[i]/1e9, T[i], res.G, res.GP, -res.GT)
		for _, mu := range res.Mu {
			io.Pf("%16.4f", mu)
		}
		io.Pf("\n")
	}
}
