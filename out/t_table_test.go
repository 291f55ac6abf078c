// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/eqm"
)

func Test_table01(tst *testing.T) {

	//io.Verbose = true
	chk.PrintTitle("table01")

	sols := []*eqm.Solution{
		{P: 13e9, T: 1400, Names: []string{"ol", "wad"}, Amounts: []float64{1, 1e-15}, X: [][]float64{{0.1}, {0.2}},
			Present: []bool{true, false}, Iterations: 3, Residual: 1e-12},
		{P: 14e9, T: 1400, Names: []string{"ol", "wad"}, Amounts: []float64{0.5, 0.5}, X: [][]float64{{0.1}, {0.2}},
			Present: []bool{true, true}, Iterations: 2, Residual: 1e-13, Bulk: true, Fraction: 0.25},
	}
	str := Table(sols)
	io.Pf("%v", str)
	lines := strings.Split(strings.TrimSpace(str), "\n")
	chk.Ints(tst, "nlines", []int{len(lines)}, []int{4})
	chk.Strings(tst, "header", strings.Fields(lines[0]), []string{"f", "P[GPa]", "T[K]", "n(ol)", "x0(ol)", "n(wad)", "x0(wad)", "it", "|R|"})
	chk.Strings(tst, "row0", strings.Fields(lines[2])[:6], []string{"0.00000000", "13.000000", "1400.000", "1.000000", "0.100000", "0.000000*"})
	chk.Strings(tst, "row1", strings.Fields(lines[3])[:1], []string{"0.25000000"})
	chk.String(tst, Table(nil), "")

	// potentials
	str = Potentials(&eqm.Solution{Mu: map[string]float64{"Si": -1000, "Mg": 2500}})
	chk.String(tst, strings.Join(strings.Fields(str), " "), "Mg 2.500000 kJ/mol Si -1.000000 kJ/mol")
}

func Test_results01(tst *testing.T) {

	//io.Verbose = true
	chk.PrintTitle("results01")

	res := &Results{Task: "loop", Kind: "sweep", Values: []float64{0.9, 0.8}, Solutions: []*eqm.Solution{
		{P: 13e9, T: 1400, Names: []string{"ol"}, Amounts: []float64{1}, X: [][]float64{{0.1}}, Present: []bool{true},
			Mu: map[string]float64{"Mg": -1e5}, Bulk: true, Fraction: 0.9},
	}}
	dir := tst.TempDir()
	if err := res.Save(dir, "loop.json"); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	got, err := ReadResults(filepath.Join(dir, "loop.json"))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.String(tst, got.Task, "loop")
	chk.Array(tst, "values", 1e-15, got.Values, res.Values)
	chk.Float64(tst, "μ(Mg)", 1e-15, got.Solutions[0].Mu["Mg"], -1e5)
	chk.Bools(tst, "present", got.Solutions[0].Present, []bool{true})

	if _, err = ReadResults(filepath.Join(dir, "none.json")); err == nil {
		tst.Errorf("test failed: missing file should have been detected\n")
	}
}
