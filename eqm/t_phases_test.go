// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/mdl/gibbs"
	"github.com/jdannberg/burnman/mdl/mineral"
	"github.com/jdannberg/burnman/mdl/solution"
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

// mix allocates a solid solution
func mix(tst *testing.T, name, model string, prms dbf.Params, members ...*mineral.Mineral) *solution.Solution {
	s, err := solution.NewSolution(name, members, model, prms)
	if err != nil {
		tst.Fatalf("cannot allocate solution: %v\n", err)
	}
	return s
}

// aluminosilicates returns andalusite, sillimanite and kyanite
func aluminosilicates(tst *testing.T) (and, sill, ky *mineral.Mineral) {
	and = linear(tst, "and", "Al2SiO5", -2588.67e3, 92.7, 5.153e-5)
	sill = linear(tst, "sill", "Al2SiO5", -2585.68e3, 95.4, 4.986e-5)
	ky = linear(tst, "ky", "Al2SiO5", -2592.97e3, 83.5, 4.414e-5)
	return
}

// polymorphs returns olivine, wadsleyite and ringwoodite as binary (Mg,Fe)2SiO4 solutions
func polymorphs(tst *testing.T) (ol, wad, rw *solution.Solution) {
	H, S, V := -2172.6e3, 95.1, 4.366e-5
	fo := linear(tst, "fo", "Mg2SiO4", H, S, V)
	mwd := linear(tst, "mwd", "Mg2SiO4", H+33600, S-7, V-3.1e-6)
	mrw := linear(tst, "mrw", "Mg2SiO4", H+47000, S-11, V-4.1e-6)
	H, S, V = -1477.7e3, 151.0, 4.631e-5
	fa := linear(tst, "fa", "Fe2SiO4", H, S, V)
	fwd := linear(tst, "fwd", "Fe2SiO4", H+19000, S-7, V-3.2e-6)
	frw := linear(tst, "frw", "Fe2SiO4", H+11800, S-10, V-4.3e-6)
	prms := func(w float64) dbf.Params {
		return dbf.Params{&dbf.P{N: "r", V: 2}, &dbf.P{N: "w01", V: w}}
	}
	ol = mix(tst, "ol", "regular", prms(4000), fo, fa)
	wad = mix(tst, "wad", "regular", prms(6000), mwd, fwd)
	rw = mix(tst, "rw", "regular", prms(2000), mrw, frw)
	return
}

// lowerMantle returns bridgmanite (MgSiO3-FeSiO3-Al2O3) and ferropericlase (MgO-FeO)
func lowerMantle(tst *testing.T) (bdg, fper *solution.Solution) {
	mgpv := linear(tst, "mgpv", "MgSiO3", -1443.0e3, 57.2, 2.445e-5)
	fepv := linear(tst, "fepv", "FeSiO3", -1082.0e3, 87.0, 2.54e-5)
	alpv := linear(tst, "alpv", "Al2O3", -1646.0e3, 51.0, 2.58e-5)
	pe := linear(tst, "pe", "MgO", -601.5e3, 26.9, 1.125e-5)
	wu := linear(tst, "wu", "FeO", -265.0e3, 59.0, 1.225e-5)
	bdg = mix(tst, "bdg", "ideal", dbf.Params{&dbf.P{N: "r", V: 1}}, mgpv, fepv, alpv)
	fper = mix(tst, "fper", "regular", dbf.Params{&dbf.P{N: "r", V: 1}, &dbf.P{N: "w01", V: 13000}}, pe, wu)
	return
}

// pyrolite is the bulk composition of the lower mantle examples
var pyrolite = chem.Formula{"Mg": 1.775, "Fe": 0.2, "Al": 0.05, "Si": 0.975, "O": 4}

// checkEquilibrium checks potential equality and mass balance at a solution
func checkEquilibrium(tst *testing.T, sol *Solution, asm *Assemblage, bulk chem.Formula, tolMu, tolN float64) {

	// chemical potentials of end-members of present phases are combinations of component potentials
	for i, s := range asm.Phases {
		if !sol.Present[i] {
			continue
		}
		res := gibbs.NewProps(s.Phase)
		err := s.Phase.Calc(res, sol.P, sol.T, sol.X[i])
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		for e, f := range s.Phase.Endmembers() {
			var mu float64
			for c, v := range f {
				mu += v * sol.Mu[c]
			}
			chk.Float64(tst, io.Sf("μ %s[%d]", s.Phase.Name(), e), tolMu*math.Max(1, math.Abs(mu)), res.Mu[e], mu)
		}
	}

	// mass balance
	got := asm.Bulk()
	for _, c := range chem.Components(bulk, got) {
		chk.Float64(tst, "bulk "+c, tolN, got[c], bulk[c])
	}
}
