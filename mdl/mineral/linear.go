// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mineral

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Linear implements a phase with constant heat capacity and incompressible volume
//
//   G = H + Cp・(T - T0) - T・(S + Cp・ln(T/T0)) + V・(P - P0)
//
type Linear struct {
	H  float64 // enthalpy at (P0,T0)
	S  float64 // entropy at (P0,T0)
	V  float64 // volume
	Cp float64 // heat capacity
	T0 float64 // reference temperature
	P0 float64 // reference pressure
}

// add model to factory
func init() {
	allocators["linear"] = func() Model { return new(Linear) }
}

// Init initialises model
func (o *Linear) Init(prms dbf.Params) (err error) {
	o.T0, o.P0 = Tref, Pref
	var hasH, hasS, hasV bool
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "h":
			o.H, hasH = p.V, true
		case "s":
			o.S, hasS = p.V, true
		case "v":
			o.V, hasV = p.V, true
		case "cp":
			o.Cp = p.V
		case "t0":
			o.T0 = p.V
		case "p0":
			o.P0 = p.V
		default:
			return chk.Err("linear: parameter named %q is incorrect\n", p.N)
		}
	}
	if !hasH || !hasS || !hasV {
		return chk.Err("linear: parameters H, S and V must be given\n")
	}
	if o.T0 <= 0 {
		return chk.Err("linear: reference temperature must be positive. T0 = %v is incorrect\n", o.T0)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Linear) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{ // andalusite
			&dbf.P{N: "H", V: -2588.67e3},
			&dbf.P{N: "S", V: 92.7},
			&dbf.P{N: "V", V: 5.153e-5},
		}
	}
	return dbf.Params{
		&dbf.P{N: "H", V: o.H},
		&dbf.P{N: "S", V: o.S},
		&dbf.P{N: "V", V: o.V},
		&dbf.P{N: "Cp", V: o.Cp},
		&dbf.P{N: "T0", V: o.T0},
		&dbf.P{N: "P0", V: o.P0},
	}
}

// Calc computes G and its first derivatives
func (o Linear) Calc(P, T float64) (G, GP, GT float64, err error) {
	if T <= 0 {
		return 0, 0, 0, chk.Err("linear: temperature must be positive. T = %v is incorrect", T)
	}
	lnT := math.Log(T / o.T0)
	G = o.H + o.Cp*(T-o.T0) - T*(o.S+o.Cp*lnT) + o.V*(P-o.P0)
	GP = o.V
	GT = -o.S - o.Cp*lnT
	return
}
