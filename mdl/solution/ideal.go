// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solution

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Ideal implements ideal mixing on r equivalent sites
//
//   Gmix = r・R・T・Σ p・ln(p)
//
type Ideal struct {
	R    float64 // number of mixing sites per formula unit
	Nend int     // number of end-members
}

// add model to factory
func init() {
	allocators["ideal"] = func() Model { return new(Ideal) }
}

// Init initialises model
func (o *Ideal) Init(nend int, prms dbf.Params) (err error) {
	o.R, o.Nend = 1, nend
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "r":
			o.R = p.V
		default:
			return chk.Err("ideal: parameter named %q is incorrect\n", p.N)
		}
	}
	return o.check()
}

// check checks parameters
func (o *Ideal) check() error {
	if o.Nend < 2 {
		return chk.Err("solution: at least two end-members are required. nend = %d is incorrect\n", o.Nend)
	}
	if o.R <= 0 {
		return chk.Err("solution: number of sites must be positive. r = %v is incorrect\n", o.R)
	}
	return nil
}

// GetPrms gets (an example) of parameters
func (o Ideal) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{&dbf.P{N: "r", V: 1}}
	}
	return dbf.Params{&dbf.P{N: "r", V: o.R}}
}

// Calc computes Gmix and derivatives
func (o Ideal) Calc(res *Mixing, P, T float64, p []float64) (err error) {
	if len(p) != o.Nend {
		return chk.Err("ideal: number of proportions %d is incorrect; %d expected", len(p), o.Nend)
	}
	rR := o.R * Rgas
	res.G, res.GP, res.GT = 0, 0, 0
	for e, pe := range p {
		pc := math.Max(pe, Pmin)
		lp := math.Log(pc)
		res.G += rR * T * pe * lp
		res.GT += rR * pe * lp
		res.Gp[e] = rR * T * (lp + 1)
		res.GpP[e] = 0
		res.GpT[e] = rR * (lp + 1)
		for f := range p {
			res.Gpp[e][f] = 0
		}
		res.Gpp[e][e] = rR * T / pc
	}
	return
}
