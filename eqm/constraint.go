// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/io"
)

// Kind defines the kind of constraint
type Kind int

// kinds of constraints
const (
	Pressure          Kind = iota // fix P
	Temperature                   // fix T
	LinearComposition             // fix (Coefs・v)/(Norm・v) or Coefs・v
)

// composition vectors
const (
	PhaseVector     = "phases"     // v = [n_1, x_1..., n_2, x_2..., ...]
	EndmemberVector = "endmembers" // v = [n_1・p_11, n_1・p_12, ..., n_2・p_21, ...]
)

// String returns the name of a kind
func (o Kind) String() string {
	switch o {
	case Pressure:
		return "P"
	case Temperature:
		return "T"
	case LinearComposition:
		return "X"
	}
	return io.Sf("Kind(%d)", int(o))
}

// ParseKind parses "P", "T" or "X"
func ParseKind(str string) (Kind, bool) {
	switch strings.ToUpper(str) {
	case "P", "PRESSURE":
		return Pressure, true
	case "T", "TEMPERATURE":
		return Temperature, true
	case "X", "COMPOSITION":
		return LinearComposition, true
	}
	return -1, false
}

// Spec holds the specification of one constraint
type Spec struct {
	Kind   Kind      // kind of constraint
	Value  float64   // target value
	Vector string    // composition vector; PhaseVector if empty
	Coefs  []float64 // coefficients of the numerator
	Norm   []float64 // coefficients of the denominator; nil means absolute constraint
}

// FixP returns a pressure constraint
func FixP(P float64) Spec { return Spec{Kind: Pressure, Value: P} }

// FixT returns a temperature constraint
func FixT(T float64) Spec { return Spec{Kind: Temperature, Value: T} }

// FixX returns an absolute constraint Coefs・v = value over the phase vector
func FixX(coefs []float64, value float64) Spec {
	return Spec{Kind: LinearComposition, Value: value, Vector: PhaseVector, Coefs: coefs}
}

// FixRatio returns a ratio constraint (Coefs・v)/(Norm・v) = value over the phase vector
func FixRatio(coefs, norm []float64, value float64) Spec {
	return Spec{Kind: LinearComposition, Value: value, Vector: PhaseVector, Coefs: coefs, Norm: norm}
}

// FixEndmemberRatio returns a ratio constraint over the end-member vector
func FixEndmemberRatio(coefs, norm []float64, value float64) Spec {
	return Spec{Kind: LinearComposition, Value: value, Vector: EndmemberVector, Coefs: coefs, Norm: norm}
}

// String returns a short representation of this constraint
func (o Spec) String() string {
	switch o.Kind {
	case Pressure, Temperature:
		return io.Sf("%v=%g", o.Kind, o.Value)
	}
	if len(o.Norm) == 0 {
		return io.Sf("X%v=%g", o.Coefs, o.Value)
	}
	return io.Sf("X%v/%v=%g", o.Coefs, o.Norm, o.Value)
}

// equation is a compiled constraint
type equation struct {
	Spec
	lay   *layout // unknowns layout
	ratio bool    // ratio constraint
	endm  bool    // over end-member vector
	scale float64 // residual scale for P constraints
}

// compile checks specifications and converts them into equations
func compile(specs []Spec, lay *layout, pscale float64) (eqs []*equation, err error) {
	var nP, nT int
	for k, s := range specs {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, newError(ErrMalformedConstraint, "constraint %d: target value %v is invalid", k, s.Value)
		}
		e := &equation{Spec: s, lay: lay, scale: 1}
		switch s.Kind {
		case Pressure:
			nP++
			e.scale = pscale
		case Temperature:
			nT++
			if s.Value <= 0 {
				return nil, newError(ErrMalformedConstraint, "constraint %d: temperature must be positive. T = %v is incorrect", k, s.Value)
			}
		case LinearComposition:
			if err = e.check(k); err != nil {
				return
			}
		default:
			return nil, newError(ErrMalformedConstraint, "constraint %d: kind %v is incorrect", k, s.Kind)
		}
		eqs = append(eqs, e)
	}
	if nP > 1 || nT > 1 {
		return nil, newError(ErrMalformedConstraint, "pressure and temperature can be fixed only once; nP = %d and nT = %d", nP, nT)
	}
	return
}

// check checks a composition constraint
func (o *equation) check(k int) error {
	n := o.lay.nw
	switch o.Vector {
	case "", PhaseVector:
		o.Vector = PhaseVector
	case EndmemberVector:
		o.endm, n = true, o.lay.ne
	default:
		return newError(ErrMalformedConstraint, "constraint %d: vector %q is incorrect; options are %q and %q", k, o.Vector, PhaseVector, EndmemberVector)
	}
	if len(o.Coefs) != n {
		return newError(ErrMalformedConstraint, "constraint %d: number of coefficients %d is incorrect; %d expected", k, len(o.Coefs), n)
	}
	if allZero(o.Coefs) {
		return newError(ErrMalformedConstraint, "constraint %d: all coefficients are zero", k)
	}
	if !finite(o.Coefs) || !finite(o.Norm) {
		return newError(ErrMalformedConstraint, "constraint %d: coefficients must be finite", k)
	}
	if len(o.Norm) == 0 {
		return nil
	}
	o.ratio = true
	if len(o.Norm) != n {
		return newError(ErrMalformedConstraint, "constraint %d: number of normalisation coefficients %d is incorrect; %d expected", k, len(o.Norm), n)
	}
	if allZero(o.Norm) {
		return newError(ErrMalformedConstraint, "constraint %d: all normalisation coefficients are zero", k)
	}
	if o.Value < 0 || o.Value > 1 {
		return newError(ErrMalformedConstraint, "constraint %d: target of ratio must be in [0,1]. %v is incorrect", k, o.Value)
	}
	return nil
}

// pins returns whether the constraint fixes the amount of phase i
func (o *equation) pins(i int) bool {
	if o.Kind != LinearComposition {
		return false
	}
	if o.endm {
		nend := len(o.lay.phases[i].Endmembers())
		for e := 0; e < nend; e++ {
			k := o.lay.oe[i] + e
			if o.Coefs[k] != 0 || (o.ratio && o.Norm[k] != 0) {
				return true
			}
		}
		return false
	}
	k := o.lay.ow[i]
	return o.Coefs[k] != 0 || (o.ratio && o.Norm[k] != 0)
}

// residual computes the residual; grad (len(u), zeroed) receives the gradient if not nil
func (o *equation) residual(u, grad []float64) float64 {
	switch o.Kind {
	case Pressure:
		if grad != nil {
			grad[0] = 1 / o.scale
		}
		return (u[0] - o.Value) / o.scale
	case Temperature:
		if grad != nil {
			grad[1] = 1
		}
		return u[1] - o.Value
	}
	if !o.ratio {
		return o.dot(o.Coefs, u, grad) - o.Value
	}
	var gnum, gden []float64
	if grad != nil {
		gnum = make([]float64, len(u))
		gden = make([]float64, len(u))
	}
	num := o.dot(o.Coefs, u, gnum)
	den := o.dot(o.Norm, u, gden)
	r := num / den
	if grad != nil {
		for k := range grad {
			grad[k] = (gnum[k] - r*gden[k]) / den
		}
	}
	return r - o.Value
}

// dot computes c・v(u); grad receives ∂(c・v)/∂u if not nil
func (o *equation) dot(c, u, grad []float64) (sum float64) {
	w0 := o.lay.w0()
	if !o.endm {
		for k, ck := range c {
			sum += ck * u[w0+k]
			if grad != nil {
				grad[w0+k] += ck
			}
		}
		return
	}
	for i, ph := range o.lay.phases {
		iN := w0 + o.lay.ow[i]
		n, x := u[iN], u[iN+1:iN+1+ph.Ndof()]
		p0, B := ph.Basis()
		for e := range p0 {
			ck := c[o.lay.oe[i]+e]
			if ck == 0 {
				continue
			}
			pe := p0[e]
			for j, xj := range x {
				pe += B[e][j] * xj
			}
			sum += ck * n * pe
			if grad != nil {
				grad[iN] += ck * pe
				for j := range x {
					grad[iN+1+j] += ck * n * B[e][j]
				}
			}
		}
	}
	return
}

// allZero returns true if all values are zero
func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// CheckSpecs checks constraint specifications against an assemblage without solving
func CheckSpecs(specs []Spec, asm *Assemblage) error {
	_, err := compile(specs, newLayout(asm), 1)
	return err
}
