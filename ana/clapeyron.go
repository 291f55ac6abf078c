// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements closed-form phase equilibria used to verify the solver
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// LinearPhase holds the properties of a pure phase with
//
//   G(P,T) = H - T・S + V・(P - Pref)
//
type LinearPhase struct {
	Name string  // name of phase
	H    float64 // enthalpy
	S    float64 // entropy
	V    float64 // volume
}

// G computes the Gibbs energy
func (o LinearPhase) G(P, T, Pref float64) float64 {
	return o.H - T*o.S + o.V*(P-Pref)
}

// Reaction computes the boundary of the reaction a ⇌ b between two linear phases of equal
// composition. The boundary is the straight line
//
//   ΔG = ΔH - T・ΔS + ΔV・(P - Pref) = 0
//
//  with the Clapeyron slope dP/dT = ΔS/ΔV
type Reaction struct {
	Pref float64 // reference pressure
	DH   float64 // H_b - H_a
	DS   float64 // S_b - S_a
	DV   float64 // V_b - V_a
}

// Init initialises this structure
func (o *Reaction) Init(a, b LinearPhase, Pref float64) (err error) {
	o.Pref = Pref
	o.DH = b.H - a.H
	o.DS = b.S - a.S
	o.DV = b.V - a.V
	if o.DS == 0 || o.DV == 0 {
		return chk.Err("reaction %s = %s: ΔS and ΔV must be non-zero. ΔS = %g, ΔV = %g\n", a.Name, b.Name, o.DS, o.DV)
	}
	return
}

// Slope returns the Clapeyron slope dP/dT
func (o Reaction) Slope() float64 { return o.DS / o.DV }

// T returns the temperature on the boundary at pressure P
func (o Reaction) T(P float64) float64 {
	return (o.DH + o.DV*(P-o.Pref)) / o.DS
}

// P returns the pressure on the boundary at temperature T
func (o Reaction) P(T float64) float64 {
	return o.Pref + (T*o.DS-o.DH)/o.DV
}

// Invariant computes the invariant point where three linear phases of equal composition coexist
//
//   ΔS_ab・T - ΔV_ab・P' = ΔH_ab
//   ΔS_ac・T - ΔV_ac・P' = ΔH_ac        with P' = P - Pref
//
func Invariant(a, b, c LinearPhase, Pref float64) (P, T float64, err error) {
	var ab, ac Reaction
	if err = ab.Init(a, b, Pref); err != nil {
		return
	}
	if err = ac.Init(a, c, Pref); err != nil {
		return
	}
	det := -ab.DS*ac.DV + ac.DS*ab.DV
	if math.Abs(det) < 1e-300 {
		return 0, 0, chk.Err("boundaries %s=%s and %s=%s are parallel\n", a.Name, b.Name, a.Name, c.Name)
	}
	T = (-ab.DH*ac.DV + ac.DH*ab.DV) / det
	P = Pref + (ab.DS*ac.DH-ac.DS*ab.DH)/det
	return
}
