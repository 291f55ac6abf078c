// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/jdannberg/burnman/chem"
)

// phase fractions over [n_ol, x_ol, n_wad, x_wad, n_rw, x_rw]
var (
	sumN    = []float64{1, 0, 1, 0, 1, 0}
	wadFrac = []float64{0, 0, 1, 0, 0, 0}
	rwFrac  = []float64{0, 0, 0, 0, 1, 0}
)

func Test_loop01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("loop01. olivine-wadsleyite loop at 1400 K")

	ol, wad, _ := polymorphs(tst)
	asm := NewAssemblage(ol, wad)
	specs := []Spec{
		FixT(1400),
		FixRatio([]float64{1, 0, 0, 0}, []float64{1, 0, 1, 0}, 0.999999),
	}
	opts := NewOptions()
	opts.P0 = 12e9
	fo, fa := chem.MustParse("Mg2SiO4"), chem.MustParse("Fe2SiO4")
	var pres []float64
	io.Pforan("%8s%14s%12s%12s%6s\n", "xFe", "P", "x(ol)", "x(wad)", "it")
	for _, xFe := range utl.LinSpace(0.06, 0.01, 6) { // from just below the triple point x(ol) = 0.0679 (see bulk01)
		bulk := chem.Mix(1-xFe, fo, fa)
		sol, err := Solve(bulk, asm, specs, opts)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		io.Pforan("%8.3f%14.6e%12.6f%12.6f%6d\n", xFe, sol.P, sol.X[0][0], sol.X[1][0], sol.Iterations)
		checkEquilibrium(tst, sol, asm, bulk, 1e-8, 1e-9)
		chk.Float64(tst, "x(ol)", 1e-5, sol.X[0][0], xFe)
		if sol.X[1][0] <= sol.X[0][0] {
			tst.Errorf("test failed: wadsleyite must be richer in Fe than olivine\n")
		}
		pres = append(pres, sol.P)
		opts.Warm = true
	}

	// P is strictly monotonic along the loop
	for k := 2; k < len(pres); k++ {
		if (pres[k]-pres[k-1])*(pres[1]-pres[0]) <= 0 {
			tst.Errorf("test failed: P is not strictly monotonic: %v\n", pres)
			return
		}
	}
}

func Test_bulk01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bulk01. olivine-wadsleyite-ringwoodite triple point")

	ol, wad, rw := polymorphs(tst)
	asm := NewAssemblage(ol, wad, rw)
	c1, c2 := chem.MustParse("Mg2SiO4"), chem.MustParse("Fe2SiO4")
	specs := []Spec{
		FixT(1400),
		FixRatio(wadFrac, sumN, 0),
		FixRatio(rwFrac, sumN, 0),
	}
	opts := NewOptions()
	opts.P0 = 13e9
	sol, err := SolveBulk(c1, c2, 0.25, asm, specs, opts)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	io.Pforan("f* = %v  P = %v  x = %v  n = %v\n", sol.Fraction, sol.P, sol.X, sol.Amounts)
	if !sol.Bulk || sol.Fraction <= 0 || sol.Fraction >= 1 {
		tst.Errorf("test failed: fraction must be inside (0,1). f* = %v\n", sol.Fraction)
		return
	}
	chk.Float64(tst, "f*", 1e-5, sol.Fraction, 0.93210449)
	chk.Float64(tst, "P", 1e6, sol.P, 13.58003804e9)
	chk.Float64(tst, "T", 1e-10, sol.T, 1400)
	chk.Float64(tst, "x(ol)", 1e-4, sol.X[0][0], 0.0679)
	chk.Float64(tst, "x(wad)", 1e-4, sol.X[1][0], 0.1212)
	chk.Float64(tst, "x(rw)", 1e-4, sol.X[2][0], 0.3067)
	chk.Array(tst, "n", 1e-6, sol.Amounts, []float64{1, 0, 0})
	checkEquilibrium(tst, sol, asm, chem.Mix(sol.Fraction, c1, c2), 1e-8, 1e-6)
}

func Test_bulk02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bulk02. failures of bulk solve")

	ol, wad, rw := polymorphs(tst)
	asm := NewAssemblage(ol, wad, rw)
	asm.P, asm.T = 3, 4
	before := asm.GetCopy()
	c1, c2 := chem.MustParse("Mg2SiO4"), chem.MustParse("Fe2SiO4")
	opts := NewOptions()
	opts.P0 = 13e9

	// the amount of ringwoodite never reaches -100
	specs := []Spec{
		FixT(1400),
		FixRatio(wadFrac, sumN, 0),
		FixX(rwFrac, -100),
	}
	_, err := SolveBulk(c1, c2, 0.5, asm, specs, opts)
	io.Pforan("err = %v\n", err)
	if !errors.Is(err, ErrNoSignChange) {
		tst.Errorf("test failed: ErrNoSignChange expected. got %v\n", err)
	}
	chk.Float64(tst, "P", 1e-15, asm.P, before.P)
	chk.Float64(tst, "T", 1e-15, asm.T, before.T)

	// observable must be compositional
	_, err = SolveBulk(c1, c2, 0.5, asm, []Spec{FixRatio(wadFrac, sumN, 0), FixT(1400)}, opts)
	if !errors.Is(err, ErrMalformedConstraint) {
		tst.Errorf("test failed: ErrMalformedConstraint expected. got %v\n", err)
	}

	// initial fraction
	_, err = SolveBulk(c1, c2, 1.5, asm, specs, opts)
	if !errors.Is(err, ErrMalformedConstraint) {
		tst.Errorf("test failed: ErrMalformedConstraint expected. got %v\n", err)
	}
}
