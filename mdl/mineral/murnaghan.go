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

// Murnaghan implements a phase with thermal expansion and Murnaghan compressibility
//
//   V(P,T) = V0・exp(α・(T-T0))・y^(-1/K')   with   y = 1 + K'・(P-P0)/K0
//
//   G = H + Cp・(T-T0) - T・(S + Cp・ln(T/T0)) + ∫V dP
//
//   ∫V dP = V0・exp(α・(T-T0))・K0/(K'-1)・(y^(1-1/K') - 1)
//
type Murnaghan struct {
	H  float64 // enthalpy at (P0,T0)
	S  float64 // entropy at (P0,T0)
	V0 float64 // volume at (P0,T0)
	Cp float64 // heat capacity
	K0 float64 // bulk modulus
	Kp float64 // pressure derivative of bulk modulus
	A  float64 // thermal expansion coefficient α
	T0 float64 // reference temperature
	P0 float64 // reference pressure
}

// add model to factory
func init() {
	allocators["murnaghan"] = func() Model { return new(Murnaghan) }
}

// Init initialises model
func (o *Murnaghan) Init(prms dbf.Params) (err error) {
	o.T0, o.P0 = Tref, Pref
	o.Kp = 4
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "h":
			o.H = p.V
		case "s":
			o.S = p.V
		case "v0", "v":
			o.V0 = p.V
		case "cp":
			o.Cp = p.V
		case "k0":
			o.K0 = p.V
		case "kp":
			o.Kp = p.V
		case "a", "alpha":
			o.A = p.V
		case "t0":
			o.T0 = p.V
		case "p0":
			o.P0 = p.V
		default:
			return chk.Err("murnaghan: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.V0 <= 0 || o.K0 <= 0 {
		return chk.Err("murnaghan: V0 and K0 must be positive. V0 = %v and K0 = %v are incorrect\n", o.V0, o.K0)
	}
	if math.Abs(o.Kp-1) < 1e-12 {
		return chk.Err("murnaghan: K' = 1 is not allowed\n")
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Murnaghan) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{ // forsterite
			&dbf.P{N: "H", V: -2172.6e3},
			&dbf.P{N: "S", V: 95.1},
			&dbf.P{N: "V0", V: 4.366e-5},
			&dbf.P{N: "Cp", V: 0},
			&dbf.P{N: "K0", V: 128e9},
			&dbf.P{N: "Kp", V: 4.2},
			&dbf.P{N: "a", V: 2.85e-5},
		}
	}
	return dbf.Params{
		&dbf.P{N: "H", V: o.H},
		&dbf.P{N: "S", V: o.S},
		&dbf.P{N: "V0", V: o.V0},
		&dbf.P{N: "Cp", V: o.Cp},
		&dbf.P{N: "K0", V: o.K0},
		&dbf.P{N: "Kp", V: o.Kp},
		&dbf.P{N: "a", V: o.A},
		&dbf.P{N: "T0", V: o.T0},
		&dbf.P{N: "P0", V: o.P0},
	}
}

// Calc computes G and its first derivatives
func (o Murnaghan) Calc(P, T float64) (G, GP, GT float64, err error) {
	if T <= 0 {
		return 0, 0, 0, chk.Err("murnaghan: temperature must be positive. T = %v is incorrect", T)
	}
	y := 1 + o.Kp*(P-o.P0)/o.K0
	if y <= 0 {
		return 0, 0, 0, chk.Err("murnaghan: pressure P = %v is below the validity range of the equation of state", P)
	}
	θ := math.Exp(o.A * (T - o.T0))
	I := o.V0 * θ * o.K0 / (o.Kp - 1) * (math.Pow(y, 1-1/o.Kp) - 1)
	lnT := math.Log(T / o.T0)
	G = o.H + o.Cp*(T-o.T0) - T*(o.S+o.Cp*lnT) + I
	GP = o.V0 * θ * math.Pow(y, -1/o.Kp)
	GT = -o.S - o.Cp*lnT + o.A*I
	return
}
