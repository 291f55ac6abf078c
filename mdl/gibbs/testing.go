// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
)

// DerivSteps holds finite difference steps used by CheckDerivs
var DerivSteps = struct{ P, T, X float64 }{P: 1e4, T: 1e-2, X: 1e-5}

// CheckDerivs compares the analytical derivatives computed by Calc with central differences
//  tol is relative to max(1, |analytical value|)
func CheckDerivs(tst *testing.T, ph Phase, P, T float64, x []float64, tol float64, verbose bool) {

	// analytical values
	res := NewProps(ph)
	if err := ph.Calc(res, P, T, x); err != nil {
		tst.Errorf("Calc failed: %v\n", err)
		return
	}
	tmp := NewProps(ph)
	calc := func(p, t float64, xx []float64) *Props {
		if err := ph.Calc(tmp, p, t, xx); err != nil {
			tst.Errorf("Calc failed: %v\n", err)
		}
		return tmp
	}
	stepP := &fd.Settings{Formula: fd.Central, Step: DerivSteps.P}
	stepT := &fd.Settings{Formula: fd.Central, Step: DerivSteps.T}
	stepX := &fd.Settings{Formula: fd.Central, Step: DerivSteps.X}

	// G derivatives
	num := fd.Derivative(func(p float64) float64 { return calc(p, T, x).G }, P, stepP)
	checkValue(tst, "∂G/∂P", tol, res.GP, num, verbose)
	num = fd.Derivative(func(t float64) float64 { return calc(P, t, x).G }, T, stepT)
	checkValue(tst, "∂G/∂T", tol, res.GT, num, verbose)

	// composition derivatives
	xx := make([]float64, len(x))
	for j := range x {
		copy(xx, x)
		gx := func(v float64) float64 { xx[j] = v; return calc(P, T, xx).G }
		checkValue(tst, io.Sf("∂G/∂x%d", j), tol, res.Gx[j], fd.Derivative(gx, x[j], stepX), verbose)
		num = fd.Derivative(func(p float64) float64 { return calc(p, T, x).Gx[j] }, P, stepP)
		checkValue(tst, io.Sf("∂²G/∂x%d∂P", j), tol, res.GxP[j], num, verbose)
		num = fd.Derivative(func(t float64) float64 { return calc(P, t, x).Gx[j] }, T, stepT)
		checkValue(tst, io.Sf("∂²G/∂x%d∂T", j), tol, res.GxT[j], num, verbose)
		for l := range x {
			copy(xx, x)
			gxx := func(v float64) float64 { xx[l] = v; return calc(P, T, xx).Gx[j] }
			checkValue(tst, io.Sf("∂²G/∂x%d∂x%d", j, l), tol, res.Gxx[j][l], fd.Derivative(gxx, x[l], stepX), verbose)
		}
	}

	// G = Σ p_e μ_e
	p := make([]float64, len(ph.Endmembers()))
	Proportions(p, ph, x)
	var sum float64
	for e, pe := range p {
		sum += pe * res.Mu[e]
	}
	checkValue(tst, "Σ p μ", tol, res.G, sum, verbose)
}

// checkValue checks analytical against numerical value
func checkValue(tst *testing.T, msg string, tol, ana, num float64, verbose bool) {
	diff := math.Abs(ana - num)
	if verbose {
		io.Pf("%-14s : ana = %23.15e  num = %23.15e  diff = %g\n", msg, ana, num, diff)
	}
	chk.Float64(tst, msg, tol*math.Max(1, math.Abs(ana)), ana, num)
}
