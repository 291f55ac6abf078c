// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/mdl/gibbs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// condMax is the max condition number of the scaled Jacobian
const condMax = 1e13

// newton runs the damped Newton iterations starting from u. u is updated in place and
// the assemblage receives every accepted iterate
func (o *System) newton(u []float64) (it int, rnorm float64, err error) {

	// auxiliary
	opts := o.opts
	nu := len(u)
	r := make([]float64, nu)
	rt := make([]float64, nu)
	ut := make([]float64, nu)
	du := make([]float64, nu)
	J := mat.NewDense(nu, nu, nil)
	scale := o.scales()
	inf := math.Inf(1)

	// message
	if opts.ShowR {
		io.PfYel("%6s%18s%18s%18s%10s\n", "it", "|R|∞", "P", "T", "α")
	}

	// iterations
	var zn, lastStep, α float64
	for it = 0; ; it++ {

		// residual and Jacobian
		if e := o.eval(r, J, u); e != nil {
			return it, math.NaN(), o.failure(ErrNotConverged, u, it, math.NaN(), "cannot compute properties of phases: %v", e)
		}
		rows, cols := o.active()
		m := len(rows)
		ra := gather(r, rows)
		rnorm = floats.Norm(ra, inf)
		if math.IsNaN(rnorm) || math.IsInf(rnorm, 0) {
			return it, rnorm, o.failure(ErrNotConverged, u, it, rnorm, "residual is not finite")
		}
		if opts.ShowR {
			io.Pfyel("%6d%18.10e%18.10e%18.10f%10.6f\n", it, rnorm, u[0], u[1], α)
		}

		// convergence
		if rnorm < opts.Tol || (it > 0 && rnorm < opts.Ftol && lastStep <= opts.Xtol*(1+zn)) {
			return
		}
		if it == opts.MaxIt {
			return it, rnorm, o.failure(ErrNotConverged, u, it, rnorm, "reached max number of iterations %d", opts.MaxIt)
		}

		// scaled Newton step
		Ja := mat.NewDense(m, m, nil)
		for a, ka := range rows {
			for b, kb := range cols {
				Ja.Set(a, b, J.At(ka, kb)*scale[kb])
			}
		}
		var lu mat.LU
		lu.Factorize(Ja)
		dz := mat.NewVecDense(m, nil)
		if c := lu.Cond(); c > condMax || math.IsNaN(c) {
			return it, rnorm, o.failure(ErrSingular, u, it, rnorm, "condition number %g is too large", c)
		}
		if e := lu.SolveVecTo(dz, false, mat.NewVecDense(m, neg(ra))); e != nil {
			return it, rnorm, o.failure(ErrSingular, u, it, rnorm, "cannot solve linear system: %v", e)
		}
		for k := range du {
			du[k] = 0
		}
		for b, kb := range cols {
			du[kb] = dz.AtVec(b) * scale[kb]
		}
		dzn := floats.Norm(dz.RawVector().Data, inf)

		// line search with natural monotonicity test
		α = o.maxStep(u, du)
		var extinct []int
		for {
			for k := range u {
				ut[k] = u[k] + α*du[k]
			}
			extinct = o.clamp(ut)
			if len(extinct) > 0 {
				break
			}
			ok := o.eval(rt, nil, ut) == nil
			if ok {
				rta := gather(rt, rows)
				if !finite(rta) {
					ok = false
				} else {
					db := mat.NewVecDense(m, nil)
					if e := lu.SolveVecTo(db, false, mat.NewVecDense(m, neg(rta))); e == nil {
						if floats.Norm(db.RawVector().Data, inf) <= (1-α/4)*dzn {
							break
						}
					}
				}
			}
			if α < opts.Amin {
				if ok {
					break
				}
				return it, rnorm, o.failure(ErrNotConverged, u, it, rnorm, "line search failed")
			}
			α /= 2
		}

		// update
		zn = 0
		for _, k := range cols {
			zn = math.Max(zn, math.Abs(u[k]/scale[k]))
		}
		lastStep = α * dzn
		copy(u, ut)
		for _, i := range extinct {
			o.Present[i] = false
			if opts.ShowR {
				io.Pfgrey("%6s phase %q is extinct\n", "", o.lay.phases[i].Name())
			}
		}
		o.unpack(u)
	}
}

// maxStep returns the largest step length ≤ 1 keeping T and the proportions of present solutions positive
func (o *System) maxStep(u, du []float64) (α float64) {
	α = 1
	τ := o.opts.Tau
	if du[1] < 0 {
		α = math.Min(α, τ*u[1]/(-du[1]))
	}
	for i, ph := range o.lay.phases {
		k := ph.Ndof()
		if !o.Present[i] || k == 0 {
			continue
		}
		iN := o.lay.iN(i)
		α = math.Min(α, boundary(ph, u[iN+1:iN+1+k], du[iN+1:iN+1+k], τ))
	}
	return
}

// boundary returns the largest α ≤ 1 such that p(x + α・dx) ≥ (1-τ)・p(x)
func boundary(ph gibbs.Phase, x, dx []float64, τ float64) (α float64) {
	α = 1
	p0, B := ph.Basis()
	for e := range p0 {
		pe, dpe := p0[e], 0.0
		for j := range x {
			pe += B[e][j] * x[j]
			dpe += B[e][j] * dx[j]
		}
		if dpe < 0 {
			α = math.Min(α, τ*math.Max(pe, 0)/(-dpe))
		}
	}
	return
}

// clamp sets negative amounts of present phases to zero and returns the phases that became
// extinct. Pinned phases are clamped but stay present. Nothing happens in signed mode
func (o *System) clamp(u []float64) (extinct []int) {
	if o.opts.signed {
		return
	}
	for i := range o.lay.phases {
		iN := o.lay.iN(i)
		if !o.Present[i] || u[iN] >= 0 {
			continue
		}
		u[iN] = 0
		if !o.Pinned[i] {
			extinct = append(extinct, i)
		}
	}
	return
}

// failure returns a SolveError with iteration data
func (o *System) failure(kind error, u []float64, it int, rnorm float64, msg string, prm ...interface{}) *SolveError {
	e := newError(kind, msg, prm...)
	e.Iterations = it
	e.Residual = rnorm
	e.Iterate = append([]float64{}, u...)
	return e
}

// gather returns v[idx]
func gather(v []float64, idx []int) []float64 {
	res := make([]float64, len(idx))
	for a, k := range idx {
		res[a] = v[k]
	}
	return res
}

// neg returns -v
func neg(v []float64) []float64 {
	res := make([]float64, len(v))
	for k, x := range v {
		res[k] = -x
	}
	return res
}

// finite returns true if all values are finite
func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
