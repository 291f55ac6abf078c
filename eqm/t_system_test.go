// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/chem"
	"gonum.org/v1/gonum/diff/fd"
)

func Test_system01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("system01. analytic Jacobian")

	ol, wad, _ := polymorphs(tst)
	asm := NewAssemblage(ol, wad)
	bulk := chem.Formula{"Mg": 1.8, "Fe": 0.2, "Si": 1, "O": 4}
	specs := []Spec{
		FixT(1400),
		FixEndmemberRatio([]float64{0, 1, 0, 0}, []float64{1, 1, 0, 0}, 0.1),
	}
	sys, err := NewSystem(bulk, asm, specs, nil)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "R", []int{sys.lay.R}, []int{2})
	chk.Strings(tst, "components", sys.Comps, []string{"Fe", "Mg", "O", "Si"})
	chk.Float64(tst, "Σβ²", 1e-12, dot(sys.Beta, sys.Beta), 1.8*1.8+0.2*0.2+1+16)

	u, err := sys.Guess()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	u[0] = 12e9
	u[4], u[6] = 0.6, 0.4
	io.Pforan("u = %v\n", u)

	J, err := sys.Jacobian(u)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	steps := []float64{1e4, 1e-3, 1, 1, 1e-6, 1e-6, 1e-6, 1e-6}
	n := sys.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			tmp := u[j]
			dnum := fd.Derivative(func(s float64) float64 {
				u[j] = s
				r, _ := sys.Residual(u)
				u[j] = tmp
				return r[i]
			}, tmp, &fd.Settings{Formula: fd.Central, Step: steps[j]})
			ana := J.At(i, j)
			chk.AnaNum(tst, io.Sf("J[%d][%d]", i, j), 1e-5*math.Max(1, math.Abs(ana)), ana, dnum, chk.Verbose)
		}
	}

	// absent phases
	sys.Present[1] = false
	rows, cols := sys.active()
	chk.Ints(tst, "rows", rows, []int{0, 1, 2, 3, 4, 5})
	chk.Ints(tst, "cols", cols, []int{0, 1, 2, 3, 4, 5})
}

func Test_system02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("system02. ill-posed and infeasible systems")

	ol, _, _ := polymorphs(tst)
	fo := linear(tst, "fo", "Mg2SiO4", -2172.6e3, 95.1, 4.366e-5)
	per := linear(tst, "per", "MgO", -601.5e3, 26.9, 1.125e-5)
	PT := []Spec{FixP(1e9), FixT(1400)}

	check := func(msg string, bulk chem.Formula, asm *Assemblage, specs []Spec, kind error) {
		_, err := NewSystem(bulk, asm, specs, nil)
		io.Pforan("%-26s: %v\n", msg, err)
		if !errors.Is(err, kind) {
			tst.Errorf("test failed: %s: %v expected. got %v\n", msg, kind, err)
		}
	}

	olivine := chem.Formula{"Mg": 1.8, "Fe": 0.2, "Si": 1, "O": 4}
	check("missing constraint", olivine, NewAssemblage(ol), []Spec{FixT(1400)}, ErrIllPosed)
	check("too many constraints", olivine, NewAssemblage(ol), []Spec{FixP(1e9), FixT(1400), FixX([]float64{1, 0}, 1)}, ErrIllPosed)
	check("malformed before ill-posed", olivine, NewAssemblage(ol), []Spec{FixT(-1)}, ErrMalformedConstraint)
	check("ill-posed before infeasible", chem.Formula{"Ca": 1, "O": 1}, NewAssemblage(ol), []Spec{FixT(1400)}, ErrIllPosed)
	check("absent component", chem.Formula{"Mg": 1.8, "Ca": 0.2, "Si": 1, "O": 4}, NewAssemblage(ol), PT, ErrInfeasible)
	check("outside span", chem.MustParse("Mg2SiO3"), NewAssemblage(fo, per), PT, ErrInfeasible)
	check("negative combination", chem.MustParse("MgSiO3"), NewAssemblage(fo, per), PT, ErrInfeasible)
	check("empty bulk", chem.Formula{}, NewAssemblage(fo, per), PT, ErrInfeasible)
	check("no phases", olivine, NewAssemblage(), PT, ErrIllPosed)

	// feasible
	sys, err := NewSystem(chem.MustParse("Mg3SiO5"), NewAssemblage(fo, per), PT, nil)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "R", []int{sys.lay.R}, []int{2})
	chk.Ints(tst, "nu", []int{sys.Size()}, []int{6})

	// more phases than components: positivity is decided by linear programming
	en := linear(tst, "en", "MgSiO3", -1545.0e3, 66.3, 3.133e-5)
	mgs := linear(tst, "mgs", "Mg3Si2O7", -3720.0e3, 161.0, 7.5e-5)
	check("negative combination (LP)", chem.MustParse("MgO"), NewAssemblage(fo, en, mgs), PT, ErrInfeasible)
	sys, err = NewSystem(chem.MustParse("Mg5Si3O11"), NewAssemblage(fo, en, mgs), PT, nil)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "R", []int{sys.lay.R}, []int{2})
}

// dot returns a・b
func dot(a, b []float64) (res float64) {
	for i := range a {
		res += a[i] * b[i]
	}
	return
}
