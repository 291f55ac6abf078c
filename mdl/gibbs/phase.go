// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gibbs defines the energetics interface shared by all phase models
package gibbs

import (
	"github.com/jdannberg/burnman/chem"
)

// Phase is implemented by pure minerals (Ndof == 0) and solid solutions (Ndof > 0)
//
//  The end-member proportions are affine in the internal composition x:
//
//    p = p0 + B・x
//
//  thus site-balance relations are satisfied by construction and x is valid iff all p ≥ 0
type Phase interface {
	Name() string                                           // name of phase
	Endmembers() []chem.Formula                             // formulas of end-members
	Ndof() int                                              // number of internal compositional degrees of freedom
	Basis() (p0 []float64, B [][]float64)                   // p0[nend] and B[nend][ndof]
	Calc(res *Props, P, T float64, x []float64) (err error) // computes G and derivatives at (P,T,x)
}

// Props holds the Gibbs energy of a phase and its derivatives
type Props struct {
	G   float64     // molar Gibbs energy
	GP  float64     // ∂G/∂P = V
	GT  float64     // ∂G/∂T = -S
	Gx  []float64   // ∂G/∂x
	Gxx [][]float64 // ∂²G/∂x²
	GxP []float64   // ∂²G/(∂x ∂P)
	GxT []float64   // ∂²G/(∂x ∂T)
	Mu  []float64   // chemical potentials of end-members
}

// NewProps allocates Props for a phase
func NewProps(ph Phase) *Props {
	ndof, nend := ph.Ndof(), len(ph.Endmembers())
	o := &Props{
		Gx:  make([]float64, ndof),
		Gxx: make([][]float64, ndof),
		GxP: make([]float64, ndof),
		GxT: make([]float64, ndof),
		Mu:  make([]float64, nend),
	}
	for i := 0; i < ndof; i++ {
		o.Gxx[i] = make([]float64, ndof)
	}
	return o
}

// Proportions computes the end-member proportions p = p0 + B・x
func Proportions(p []float64, ph Phase, x []float64) {
	p0, B := ph.Basis()
	for e := range p0 {
		p[e] = p0[e]
		for j, v := range x {
			p[e] += B[e][j] * v
		}
	}
}

// Formula returns the formula of a phase at composition x
func Formula(ph Phase, x []float64) chem.Formula {
	ems := ph.Endmembers()
	p := make([]float64, len(ems))
	Proportions(p, ph, x)
	f := make(chem.Formula)
	for e, em := range ems {
		f.Add(p[e], em)
	}
	return f
}

// StandardBasis returns the basis p = [1 - Σx, x_1, ..., x_{n-1}] for n end-members
func StandardBasis(nend int) (p0 []float64, B [][]float64) {
	p0 = make([]float64, nend)
	p0[0] = 1
	B = make([][]float64, nend)
	for e := 0; e < nend; e++ {
		B[e] = make([]float64, nend-1)
		for j := 0; j < nend-1; j++ {
			if e == 0 {
				B[e][j] = -1
			} else if e == j+1 {
				B[e][j] = 1
			}
		}
	}
	return
}
