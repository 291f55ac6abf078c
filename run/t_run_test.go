// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/ana"
	"github.com/jdannberg/burnman/mdl/mineral"
	"github.com/jdannberg/burnman/out"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_run01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("run01. aluminosilicates job")

	main, err := NewMain("../examples/aluminosilicates/job.toml", chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	main.Job.Dirout = tst.TempDir()
	err = main.Run()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "nresults", []int{len(main.Results)}, []int{3})

	// invariant point
	and := ana.LinearPhase{Name: "and", H: -2588.67e3, S: 92.7, V: 5.153e-5}
	sill := ana.LinearPhase{Name: "sill", H: -2585.68e3, S: 95.4, V: 4.986e-5}
	ky := ana.LinearPhase{Name: "ky", H: -2592.97e3, S: 83.5, V: 4.414e-5}
	P, T, err := ana.Invariant(and, sill, ky, mineral.Pref)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	sol := main.Results[0].Solutions[0]
	chk.Float64(tst, "P", 1, sol.P, P)
	chk.Float64(tst, "T", 1e-6, sol.T, T)

	// Clapeyron curves
	for k, b := range []ana.LinearPhase{ky, sill} {
		var rea ana.Reaction
		if err = rea.Init(and, b, mineral.Pref); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		res := main.Results[1+k]
		chk.Ints(tst, "nsols", []int{len(res.Solutions)}, []int{len(res.Values)})
		for i, s := range res.Solutions {
			chk.Float64(tst, io.Sf("P%d", i), 1e-6, s.P, res.Values[i])
			chk.Float64(tst, io.Sf("T%d", i), 1e-6, s.T, rea.T(s.P))
		}
	}

	// results files
	saved, err := out.ReadResults(filepath.Join(main.Job.Dirout, "and-sill.json"))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.String(tst, saved.Task, "and-sill")
	chk.String(tst, saved.Kind, "sweep")
	chk.Array(tst, "values", 1e-15, saved.Values, main.Results[2].Values)
	chk.Float64(tst, "T", 1e-12, saved.Solutions[4].T, main.Results[2].Solutions[4].T)
}

func Test_run02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("run02. olivine job")

	main, err := NewMain("../examples/olivine/job.toml", chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	main.Job.Dirout = tst.TempDir()
	err = main.Run()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// loop: olivine holds the bulk composition and P increases with Fe
	loop := main.Results[0]
	for i, s := range loop.Solutions {
		if !s.Bulk {
			tst.Errorf("test failed: fraction sweep must flag solutions as bulk\n")
			return
		}
		chk.Float64(tst, "f", 1e-15, s.Fraction, loop.Values[i])
		chk.Float64(tst, "x(ol)", 1e-5, s.X[0][0], 1-loop.Values[i])
		if i > 1 && (s.P-loop.Solutions[i-1].P)*(loop.Solutions[1].P-loop.Solutions[0].P) <= 0 {
			tst.Errorf("test failed: P is not strictly monotonic\n")
		}
	}

	// triple point
	sol := main.Results[1].Solutions[0]
	chk.Float64(tst, "f*", 1e-5, sol.Fraction, 0.93210449)
	chk.Float64(tst, "P", 1e6, sol.P, 13.58003804e9)
	chk.Float64(tst, "x(wad)", 1e-4, sol.X[1][0], 0.1212)

	// the loop lies on the olivine side of the triple point
	for _, f := range loop.Values {
		if 1-f >= sol.X[0][0] {
			tst.Errorf("test failed: loop point f = %g is beyond the triple point\n", f)
		}
	}
}

func Test_run03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("run03. single task and failures")

	main, err := NewMain("../examples/mantle/job.toml", chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	res, err := main.RunTask(main.Job.Tasks[0])
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	sol := res.Solutions[0]
	io.Pforan("%v", out.Table(res.Solutions))
	chk.Float64(tst, "P", 1e-15, sol.P, 22e9)
	chk.Float64(tst, "x(fper)", 1.5e-3, sol.X[1][0], 0.148)

	// failed sweep
	t := main.Job.Tasks[1]
	t.Sweep.Constraint = 1
	t.Points = []float64{2000, -1}
	_, err = main.RunTask(t)
	io.Pforan("err = %v\n", err)
	if err == nil {
		tst.Errorf("test failed: negative temperature should have been detected\n")
	}

	// missing job file
	if _, err = NewMain("/tmp/burnman/none.toml", false); err == nil {
		tst.Errorf("test failed: missing job file should have been detected\n")
	}
}
