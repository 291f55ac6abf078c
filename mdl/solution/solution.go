// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solution

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/mdl/gibbs"
	"github.com/jdannberg/burnman/mdl/mineral"
)

// Solution is a phase whose end-members are pure minerals
//
//   G = Σ p_e・G_e(P,T) + Gmix(P,T,p)     with   p = p0 + B・x
//
//   μ_e = G + ∂G/∂p_e - Σ_f p_f・∂G/∂p_f
//
//  Calc does not modify the receiver; thus one Solution may be shared by concurrent solves
type Solution struct {
	Mdl     Model              // mixing model
	Members []*mineral.Mineral // end-members
	name    string             // name of phase
	ems     []chem.Formula     // formulas of end-members
	p0      []float64          // p = p0 + B・x
	B       [][]float64        // p = p0 + B・x
}

// NewSolution allocates and initialises a solid solution with the standard basis
//  p = [1 - Σx, x_1, ..., x_{n-1}]
func NewSolution(name string, members []*mineral.Mineral, model string, prms dbf.Params) (o *Solution, err error) {
	mdl, err := New(model)
	if err != nil {
		return
	}
	err = mdl.Init(len(members), prms)
	if err != nil {
		return nil, chk.Err("solution %q: %v", name, err)
	}
	o = &Solution{Mdl: mdl, Members: members, name: name}
	for _, m := range members {
		o.ems = append(o.ems, m.Formula())
	}
	o.p0, o.B = gibbs.StandardBasis(len(members))
	return
}

// Name returns the name of this phase
func (o *Solution) Name() string { return o.name }

// Endmembers returns the formulas of end-members
func (o *Solution) Endmembers() []chem.Formula { return o.ems }

// Ndof returns the number of independent proportions
func (o *Solution) Ndof() int { return len(o.Members) - 1 }

// Basis returns p0 and B
func (o *Solution) Basis() (p0 []float64, B [][]float64) { return o.p0, o.B }

// Calc computes G and derivatives at (P,T,x)
func (o *Solution) Calc(res *gibbs.Props, P, T float64, x []float64) (err error) {

	// proportions
	nend, ndof := len(o.Members), o.Ndof()
	if len(x) != ndof {
		return chk.Err("solution %q: length of composition %d is incorrect; %d expected", o.name, len(x), ndof)
	}
	p := make([]float64, nend)
	gibbs.Proportions(p, o, x)
	for _, pe := range p {
		if math.IsNaN(pe) {
			return chk.Err("solution %q: proportions are NaN", o.name)
		}
	}

	// end-members
	g := make([]float64, nend)
	gP := make([]float64, nend)
	gT := make([]float64, nend)
	for e, m := range o.Members {
		g[e], gP[e], gT[e], err = m.Mdl.Calc(P, T)
		if err != nil {
			return chk.Err("solution %q: end-member %q: %v", o.name, m.Name(), err)
		}
	}

	// mixing
	mix := NewMixing(nend)
	err = o.Mdl.Calc(mix, P, T, p)
	if err != nil {
		return
	}

	// G and derivatives with respect to p
	res.G, res.GP, res.GT = mix.G, mix.GP, mix.GT
	dGdp := make([]float64, nend)
	dGPdp := make([]float64, nend)
	dGTdp := make([]float64, nend)
	var sp float64
	for e := range p {
		res.G += p[e] * g[e]
		res.GP += p[e] * gP[e]
		res.GT += p[e] * gT[e]
		dGdp[e] = g[e] + mix.Gp[e]
		dGPdp[e] = gP[e] + mix.GpP[e]
		dGTdp[e] = gT[e] + mix.GpT[e]
		sp += p[e] * dGdp[e]
	}

	// derivatives with respect to x
	for j := 0; j < ndof; j++ {
		res.Gx[j], res.GxP[j], res.GxT[j] = 0, 0, 0
		for e := range p {
			res.Gx[j] += o.B[e][j] * dGdp[e]
			res.GxP[j] += o.B[e][j] * dGPdp[e]
			res.GxT[j] += o.B[e][j] * dGTdp[e]
		}
		for l := 0; l < ndof; l++ {
			res.Gxx[j][l] = 0
			for e := range p {
				if o.B[e][j] == 0 {
					continue
				}
				for f := range p {
					res.Gxx[j][l] += o.B[e][j] * mix.Gpp[e][f] * o.B[f][l]
				}
			}
		}
	}

	// chemical potentials
	for e := range p {
		res.Mu[e] = res.G + dGdp[e] - sp
	}
	return
}
