// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solution

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/mdl/gibbs"
	"github.com/jdannberg/burnman/mdl/mineral"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// linear allocates a pure phase with the linear model
func linear(tst *testing.T, name, formula string, H, S, V float64) *mineral.Mineral {
	m, err := mineral.NewMineral(name, chem.MustParse(formula), "linear", dbf.Params{
		&dbf.P{N: "H", V: H},
		&dbf.P{N: "S", V: S},
		&dbf.P{N: "V", V: V},
	})
	if err != nil {
		tst.Fatalf("cannot allocate mineral: %v\n", err)
	}
	return m
}

func olivine(tst *testing.T, prms dbf.Params) *Solution {
	fo := linear(tst, "fo", "Mg2SiO4", -2172.6e3, 95.1, 4.366e-5)
	fa := linear(tst, "fa", "Fe2SiO4", -1477.7e3, 151.0, 4.631e-5)
	ol, err := NewSolution("ol", []*mineral.Mineral{fo, fa}, "regular", prms)
	if err != nil {
		tst.Fatalf("cannot allocate solution: %v\n", err)
	}
	return ol
}

func Test_regular01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("regular01")

	ol := olivine(tst, dbf.Params{
		&dbf.P{N: "r", V: 2},
		&dbf.P{N: "wh01", V: 4000},
		&dbf.P{N: "ws01", V: 1.5},
		&dbf.P{N: "wv01", V: 2e-7},
	})
	if ol.Ndof() != 1 {
		tst.Errorf("test failed: ndof = %d is incorrect\n", ol.Ndof())
		return
	}

	// chemical potentials of a binary regular solution
	P, T, x := 10e9, 1400.0, 0.3
	res := gibbs.NewProps(ol)
	err := ol.Calc(res, P, T, []float64{x})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	W := 4000 - T*1.5 + P*2e-7
	g0, _, _, _ := ol.Members[0].Mdl.Calc(P, T)
	g1, _, _, _ := ol.Members[1].Mdl.Calc(P, T)
	rRT := 2 * Rgas * T
	io.Pforan("μ = %v\n", res.Mu)
	chk.Float64(tst, "μ_fo", 1e-8, res.Mu[0], g0+rRT*math.Log(1-x)+W*x*x)
	chk.Float64(tst, "μ_fa", 1e-8, res.Mu[1], g1+rRT*math.Log(x)+W*(1-x)*(1-x))

	// derivatives
	ver := chk.Verbose
	for _, x := range []float64{0.05, 0.3, 0.9} {
		for _, P := range []float64{1e5, 14e9} {
			io.Pfyel("\nx = %g  P = %g\n", x, P)
			gibbs.CheckDerivs(tst, ol, P, T, []float64{x}, 1e-7, ver)
		}
	}
}

func Test_ideal01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ideal01")

	mgpv := linear(tst, "mgpv", "MgSiO3", -1443.0e3, 57.2, 2.445e-5)
	fepv := linear(tst, "fepv", "FeSiO3", -1082.0e3, 87.0, 2.54e-5)
	alpv := linear(tst, "alpv", "Al2O3", -1646.0e3, 51.0, 2.58e-5)
	bdg, err := NewSolution("bdg", []*mineral.Mineral{mgpv, fepv, alpv}, "ideal", nil)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if bdg.Ndof() != 2 {
		tst.Errorf("test failed: ndof = %d is incorrect\n", bdg.Ndof())
		return
	}

	// formula at composition
	x := []float64{0.1, 0.05}
	f := gibbs.Formula(bdg, x)
	io.Pforan("formula = %v\n", f)
	chk.Float64(tst, "Mg", 1e-15, f["Mg"], 0.85)
	chk.Float64(tst, "Al", 1e-15, f["Al"], 0.1)
	chk.Float64(tst, "Si", 1e-15, f["Si"], 0.95)

	// derivatives
	ver := chk.Verbose
	for _, x := range [][]float64{{0.1, 0.05}, {0.4, 0.4}, {0.05, 0.08}} {
		io.Pfyel("\nx = %v\n", x)
		gibbs.CheckDerivs(tst, bdg, 50e9, 2000, x, 1e-7, ver)
	}
}

func Test_solution01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solution01")

	fo := linear(tst, "fo", "Mg2SiO4", -2172.6e3, 95.1, 4.366e-5)
	fa := linear(tst, "fa", "Fe2SiO4", -1477.7e3, 151.0, 4.631e-5)
	members := []*mineral.Mineral{fo, fa}

	for _, prms := range []dbf.Params{
		{&dbf.P{N: "wh05", V: 1}},
		{&dbf.P{N: "wh00", V: 1}},
		{&dbf.P{N: "K", V: 1}},
		{&dbf.P{N: "r", V: -1}},
	} {
		if _, err := NewSolution("ol", members, "regular", prms); err == nil {
			tst.Errorf("test failed: parameter %q should have been rejected\n", prms[0].N)
			return
		}
	}
	if _, err := NewSolution("ol", members[:1], "ideal", nil); err == nil {
		tst.Errorf("test failed: single end-member should have been rejected\n")
	}
	if _, err := NewSolution("ol", members, "asymmetric", nil); err == nil {
		tst.Errorf("test failed: unknown model should have been rejected\n")
	}

	ol := olivine(tst, Regular{}.GetPrms(true))
	prms := ol.Mdl.GetPrms(false)
	chk.Float64(tst, "wh01", 1e-15, prms.Find("wh01").V, 4000)
	chk.Float64(tst, "r", 1e-15, prms.Find("r").V, 2)
	if err := ol.Calc(gibbs.NewProps(ol), 1e9, 1000, []float64{0.1, 0.2}); err == nil {
		tst.Errorf("test failed: wrong length of composition should have been detected\n")
	}
}
