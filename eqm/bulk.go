// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"math"

	"github.com/jdannberg/burnman/chem"
)

// bulkNegTol is the relative tolerance on negative amounts at the root of a bulk solve
const bulkNegTol = 1e-6

// SolveBulk finds the fraction f such that the last constraint holds for the bulk composition
//
//   bulk = f・c1 + (1 - f)・c2     with f ∈ [0,1]
//
//  The last constraint (the observable) must be compositional; the other constraints are
//  enforced at each trial fraction. The search starts at f0
func SolveBulk(c1, c2 chem.Formula, f0 float64, asm *Assemblage, specs []Spec, opts *Options) (sol *Solution, err error) {

	// check input
	if opts == nil {
		opts = NewOptions()
	}
	if err = opts.PostProcess(); err != nil {
		return
	}
	if len(specs) == 0 {
		return nil, newError(ErrMalformedConstraint, "bulk solve requires at least one constraint")
	}
	obs := specs[len(specs)-1]
	if obs.Kind != LinearComposition {
		return nil, newError(ErrMalformedConstraint, "last constraint of bulk solve must be compositional. %v is incorrect", obs.Kind)
	}
	if _, err = compile(specs, newLayout(asm), opts.Pscale); err != nil {
		return
	}
	if !(f0 >= 0 && f0 <= 1) {
		return nil, newError(ErrMalformedConstraint, "initial fraction must be in [0,1]. %v is incorrect", f0)
	}

	// solver
	o := &bulker{c1: c1, c2: c2, asm: asm, specs: specs[:len(specs)-1], obs: obs, opts: *opts}
	o.opts.signed = true
	o.opts.Warm = false
	snap := asm.GetCopy()
	defer func() {
		if err != nil {
			sol = nil
			asm.Set(snap)
		}
	}()

	// bracket and root
	a, b, ga, gb, err := o.bracket(f0)
	if err != nil {
		return
	}
	f := a
	if a != b {
		f, err = o.brent(a, b, ga, gb)
		if err != nil {
			return
		}
	}

	// final state
	if _, sol, err = o.eval(f); err != nil {
		return
	}
	var tot float64
	for _, n := range sol.Amounts {
		tot += math.Abs(n)
	}
	for i, n := range sol.Amounts {
		if n >= 0 {
			continue
		}
		if n < -bulkNegTol*tot {
			return nil, newError(ErrInfeasible, "amount of phase %q is negative (%g) at f = %g", sol.Names[i], n, f)
		}
		sol.Amounts[i] = 0
		asm.Phases[i].N = 0
	}
	sol.Bulk = true
	sol.Fraction = f
	return
}

// bulker holds the data of a bulk solve
type bulker struct {
	c1, c2 chem.Formula // end compositions
	asm    *Assemblage  // assemblage
	specs  []Spec       // constraints of inner solves
	obs    Spec         // observable
	opts   Options      // options of inner solves
	trials []bulkTrial  // evaluated trials
}

// bulkTrial holds one converged inner solve
type bulkTrial struct {
	f, g float64   // fraction and observable
	u    []float64 // unknowns
}

// eval solves the inner system at f and returns the residual of the observable
func (o *bulker) eval(f float64) (g float64, sol *Solution, err error) {
	sys, err := NewSystem(chem.Mix(f, o.c1, o.c2), o.asm, o.specs, &o.opts)
	if err != nil {
		return
	}
	eqs, err := compile([]Spec{o.obs}, sys.lay, o.opts.Pscale)
	if err != nil {
		return
	}
	var u []float64
	if t := o.nearest(f); t != nil {
		u = append([]float64{}, t.u...)
	} else if u, err = sys.Guess(); err != nil {
		return
	}
	if sol, err = sys.RunFrom(u); err != nil {
		return
	}
	g = eqs[0].residual(u, nil)
	o.trials = append(o.trials, bulkTrial{f, g, u})
	return
}

// nearest returns the trial closest to f or nil
func (o *bulker) nearest(f float64) (t *bulkTrial) {
	for k := range o.trials {
		if t == nil || math.Abs(o.trials[k].f-f) < math.Abs(t.f-f) {
			t = &o.trials[k]
		}
	}
	return
}

// bracket steps outwards from f0 on both sides until the observable changes sign
func (o *bulker) bracket(f0 float64) (a, b, ga, gb float64, err error) {
	g0, _, err := o.eval(f0)
	if err != nil {
		return
	}
	if g0 == 0 {
		return f0, f0, 0, 0, nil
	}
	type side struct {
		f, g, dir float64
		done      bool
	}
	sides := []*side{{f0, g0, +1, f0 == 1}, {f0, g0, -1, f0 == 0}}
	h := o.opts.BulkStep
	var inner error
	for !sides[0].done || !sides[1].done {
		for _, s := range sides {
			if s.done {
				continue
			}
			f := math.Min(1, math.Max(0, f0+s.dir*h))
			g, _, e := o.eval(f)
			if e != nil {
				s.done, inner = true, e
				continue
			}
			if g*s.g <= 0 {
				if f < s.f {
					return f, s.f, g, s.g, nil
				}
				return s.f, f, s.g, g, nil
			}
			s.f, s.g = f, g
			s.done = f == 0 || f == 1
		}
		h *= 2
	}
	if inner != nil {
		return 0, 0, 0, 0, inner
	}
	return 0, 0, 0, 0, newError(ErrNoSignChange, "observable %v has the same sign over [0,1] starting at f0 = %g", o.obs, f0)
}

// brent finds the root of the observable in [a,b] with Brent's method
func (o *bulker) brent(a, b, fa, fb float64) (float64, error) {
	const eps = 1e-15
	tol := o.opts.BulkTol
	c, fc := b, fb
	var d, e float64
	for it := 0; it < o.opts.BulkMaxIt; it++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*eps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {

			// inverse quadratic interpolation
			var p, q float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {

			// bisection
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		var err error
		if fb, _, err = o.eval(b); err != nil {
			return b, err
		}
	}
	return b, newError(ErrNotConverged, "root of observable not found after %d iterations", o.opts.BulkMaxIt)
}
