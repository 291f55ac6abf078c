// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/mdl/gibbs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// constants of the initial guess
const (
	relaxMaxIt = 50    // max number of iterations of composition relaxation
	relaxTol   = 1e-9  // tolerance of composition relaxation, relative to Escale
	pfloor     = 1e-12 // min end-member proportion of a warm start
)

// Solve finds the equilibrium state of an assemblage with a given bulk composition subject to
// constraints. The assemblage is updated in place; it is restored if an error occurs
func Solve(bulk chem.Formula, asm *Assemblage, specs []Spec, opts *Options) (sol *Solution, err error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err = opts.PostProcess(); err != nil {
		return
	}
	o, err := NewSystem(bulk, asm, specs, opts)
	if err != nil {
		return
	}
	snap := asm.GetCopy()
	sol, err = o.Run()
	if err != nil {
		asm.Set(snap)
		return nil, err
	}
	return
}

// Run computes the initial guess and solves the system
func (o *System) Run() (sol *Solution, err error) {
	u, err := o.Guess()
	if err != nil {
		return
	}
	return o.RunFrom(u)
}

// RunFrom solves the system starting from u, which is modified
func (o *System) RunFrom(u []float64) (sol *Solution, err error) {
	if ok, rnorm := o.direct(u); ok {
		o.unpack(u)
		return o.solution(u, 0, rnorm), nil
	}
	it, rnorm, err := o.newton(u)
	if err != nil {
		return
	}
	o.unpack(u)
	return o.solution(u, it, rnorm), nil
}

// Guess returns the initial vector of unknowns
func (o *System) Guess() (u []float64, err error) {
	u = make([]float64, o.lay.nu())
	if o.opts.Warm {
		err = o.warm(u)
		return
	}

	// P, T and compositions
	u[0], u[1] = o.opts.P0, o.opts.T0
	o.fixPT(u)
	var atoms float64
	for i, ph := range o.lay.phases {
		k, iN := ph.Ndof(), o.lay.iN(i)
		for j := 0; j < k; j++ {
			u[iN+1+j] = 1.0 / float64(k+1)
		}
		atoms += gibbs.Formula(ph, u[iN+1:iN+1+k]).Atoms()
	}

	// amounts
	if atoms == 0 {
		return nil, chk.Err("formulas of phases are empty")
	}
	n0 := o.bulk.Atoms() / atoms
	for i := range o.lay.phases {
		u[o.lay.iN(i)] = n0
	}

	// potentials and relaxation
	if err = o.fitLambda(u, nil); err != nil {
		return
	}
	for sweep := 0; sweep < o.opts.Nrelax; sweep++ {
		for i := range o.lay.phases {
			if err = o.relax(i, u); err != nil {
				return
			}
		}
		if err = o.fitLambda(u, nil); err != nil {
			return
		}
	}
	return
}

// warm sets u from the current state of the assemblage
func (o *System) warm(u []float64) (err error) {
	u[0], u[1] = o.asm.P, o.asm.T
	if o.asm.T <= 0 {
		u[0], u[1] = o.opts.P0, o.opts.T0
	}
	o.fixPT(u)
	use := make([]bool, len(o.lay.phases))
	for i, s := range o.asm.Phases {
		iN := o.lay.iN(i)
		u[iN] = s.N
		x := u[iN+1 : iN+1+len(s.X)]
		copy(x, s.X)
		interior(s.Phase, x)
		use[i] = s.N != 0 || o.Pinned[i]
	}
	if o.fitLambda(u, use) != nil {
		return o.fitLambda(u, nil)
	}
	return
}

// fixPT sets P and T given by constraints
func (o *System) fixPT(u []float64) {
	for _, e := range o.eqs {
		switch e.Kind {
		case Pressure:
			u[0] = e.Value
		case Temperature:
			u[1] = e.Value
		}
	}
}

// fitLambda computes λ from the least-squares fit of μ_e = a_e・λ over the end-members of the
// selected phases; use == nil selects all phases
func (o *System) fitLambda(u []float64, use []bool) (err error) {
	R := o.lay.R
	var rows [][]float64
	var rhs []float64
	for i, ph := range o.lay.phases {
		if use != nil && !use[i] {
			continue
		}
		iN := o.lay.iN(i)
		res := o.props[i]
		if err = ph.Calc(res, u[0], u[1], u[iN+1:iN+1+ph.Ndof()]); err != nil {
			return
		}
		for e, a := range o.A[i] {
			rows = append(rows, a)
			rhs = append(rhs, res.Mu[e])
		}
	}
	if len(rows) < R {
		return chk.Err("cannot fit %d potentials with %d end-members", R, len(rows))
	}
	M := mat.NewDense(len(rows), R, nil)
	for a, row := range rows {
		M.SetRow(a, row)
	}
	var λ mat.VecDense
	if err = λ.SolveVec(M, mat.NewVecDense(len(rhs), rhs)); err != nil {
		return chk.Err("cannot fit potentials: %v", err)
	}
	copy(u[2:2+R], λ.RawVector().Data)
	return
}

// relax runs a local Newton method on the tangent conditions ∂G/∂x - ∂ã/∂x・λ = 0 of phase i
// with P, T and λ fixed. Failures of the local method are ignored
func (o *System) relax(i int, u []float64) (err error) {
	ph := o.lay.phases[i]
	k := ph.Ndof()
	if k == 0 {
		return
	}
	iN := o.lay.iN(i)
	x := u[iN+1 : iN+1+k]
	λ := u[2 : 2+o.lay.R]
	at, dat := o.alloc(i)
	o.reduced(at, dat, i, x)
	res := o.props[i]
	g := make([]float64, k)
	H := mat.NewDense(k, k, nil)
	tol := relaxTol * o.opts.Escale
	for it := 0; it < relaxMaxIt; it++ {
		if err = ph.Calc(res, u[0], u[1], x); err != nil {
			return
		}
		for j := 0; j < k; j++ {
			g[j] = -(res.Gx[j] - floats.Dot(dat[j], λ))
			H.SetRow(j, res.Gxx[j])
		}
		if floats.Norm(g, math.Inf(1)) < tol {
			return
		}
		var dx mat.VecDense
		if dx.SolveVec(H, mat.NewVecDense(k, g)) != nil {
			return
		}
		α := boundary(ph, x, dx.RawVector().Data, o.opts.Tau)
		for j := 0; j < k; j++ {
			x[j] += α * dx.AtVec(j)
		}
	}
	return
}

// direct solves a single-phase assemblage at fixed P and T without iterations.
//  The mass balance [ã(0) | ∂ã/∂x]・[n; n・x] = β is linear; then λ follows from the potentials
func (o *System) direct(u []float64) (ok bool, rnorm float64) {

	// applicable?
	if len(o.lay.phases) != 1 || len(o.eqs) != 2 || o.opts.signed {
		return
	}
	for _, e := range o.eqs {
		if e.Kind == LinearComposition {
			return
		}
	}
	ph := o.lay.phases[0]
	k, R := ph.Ndof(), o.lay.R
	if k+1 != R {
		return
	}

	// linear mass balance
	zero := make([]float64, k)
	at, dat := o.alloc(0)
	o.reduced(at, dat, 0, zero)
	M := mat.NewDense(R, R, nil)
	M.SetCol(0, at)
	for j := 0; j < k; j++ {
		M.SetCol(1+j, dat[j])
	}
	var y mat.VecDense
	if y.SolveVec(M, mat.NewVecDense(R, o.Beta)) != nil {
		return
	}
	n := y.AtVec(0)
	if n <= 0 {
		return
	}
	v := make([]float64, len(u))
	copy(v, u)
	o.fixPT(v)
	iN := o.lay.iN(0)
	v[iN] = n
	for j := 0; j < k; j++ {
		v[iN+1+j] = y.AtVec(1+j) / n
	}
	interior(ph, v[iN+1:iN+1+k])

	// potentials
	if o.fitLambda(v, nil) != nil {
		return
	}
	r := make([]float64, len(v))
	if o.eval(r, nil, v) != nil {
		return
	}
	rows, _ := o.active()
	rnorm = floats.Norm(gather(r, rows), math.Inf(1))
	if !(rnorm < o.opts.Tol) {
		return
	}
	copy(u, v)
	return true, rnorm
}

// interior moves x into the region where all proportions are ≥ pfloor. Proportions that are
// already valid are not changed (apart from renormalisation)
func interior(ph gibbs.Phase, x []float64) {
	k := len(x)
	if k == 0 {
		return
	}
	p0, B := ph.Basis()
	p := make([]float64, len(p0))
	gibbs.Proportions(p, ph, x)
	if floats.Min(p) >= pfloor {
		return
	}
	var sum float64
	for e := range p {
		p[e] = math.Max(p[e], pfloor)
		sum += p[e]
	}
	Bm := mat.NewDense(len(p0), k, nil)
	rhs := make([]float64, len(p0))
	for e := range p0 {
		Bm.SetRow(e, B[e])
		rhs[e] = p[e]/sum - p0[e]
	}
	var dx mat.VecDense
	if dx.SolveVec(Bm, mat.NewVecDense(len(rhs), rhs)) != nil {
		return
	}
	copy(x, dx.RawVector().Data)
}

// unpack copies u into the assemblage
func (o *System) unpack(u []float64) {
	o.asm.P, o.asm.T = u[0], u[1]
	for i, s := range o.asm.Phases {
		iN := o.lay.iN(i)
		s.N = u[iN]
		copy(s.X, u[iN+1:iN+1+len(s.X)])
	}
}

// solution returns a new Solution from u
func (o *System) solution(u []float64, it int, rnorm float64) *Solution {
	sol := &Solution{
		P:          u[0],
		T:          u[1],
		Mu:         o.Potentials(u),
		Iterations: it,
		Residual:   rnorm,
	}
	for i, ph := range o.lay.phases {
		k, iN := ph.Ndof(), o.lay.iN(i)
		x := append([]float64{}, u[iN+1:iN+1+k]...)
		p := make([]float64, len(ph.Endmembers()))
		gibbs.Proportions(p, ph, x)
		sol.Names = append(sol.Names, ph.Name())
		sol.Amounts = append(sol.Amounts, u[iN])
		sol.X = append(sol.X, x)
		sol.Proportions = append(sol.Proportions, p)
		sol.Present = append(sol.Present, o.Present[i])
	}
	return sol
}
