// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solution

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Regular implements ideal mixing plus symmetric Margules interactions
//
//   Gmix = r・R・T・Σ p・ln(p) + Σ_{e<f} W_ef・p_e・p_f
//
//   W_ef = WH_ef - T・WS_ef + P・WV_ef
//
//  Parameters: "r", and "whEF", "wsEF", "wvEF" for each pair of end-members E < F;
//  e.g. "wh01". "wEF" is the same as "whEF"
type Regular struct {
	Ideal
	WH [][]float64 // enthalpy interaction parameters (symmetric)
	WS [][]float64 // entropy interaction parameters (symmetric)
	WV [][]float64 // volume interaction parameters (symmetric)
}

// add model to factory
func init() {
	allocators["regular"] = func() Model { return new(Regular) }
}

// Init initialises model
func (o *Regular) Init(nend int, prms dbf.Params) (err error) {
	o.R, o.Nend = 1, nend
	if err = o.check(); err != nil {
		return
	}
	o.WH = utl.Alloc(nend, nend)
	o.WS = utl.Alloc(nend, nend)
	o.WV = utl.Alloc(nend, nend)
	for _, p := range prms {
		key := strings.ToLower(p.N)
		if key == "r" {
			o.R = p.V
			continue
		}
		var W [][]float64
		var pair string
		switch {
		case strings.HasPrefix(key, "wh"):
			W, pair = o.WH, key[2:]
		case strings.HasPrefix(key, "ws"):
			W, pair = o.WS, key[2:]
		case strings.HasPrefix(key, "wv"):
			W, pair = o.WV, key[2:]
		case strings.HasPrefix(key, "w"):
			W, pair = o.WH, key[1:]
		default:
			return chk.Err("regular: parameter named %q is incorrect\n", p.N)
		}
		e, f, ok := parsePair(pair, nend)
		if !ok {
			return chk.Err("regular: parameter named %q does not correspond to a pair of end-members\n", p.N)
		}
		W[e][f], W[f][e] = p.V, p.V
	}
	return o.check()
}

// GetPrms gets (an example) of parameters
func (o Regular) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{ // olivine
			&dbf.P{N: "r", V: 2},
			&dbf.P{N: "wh01", V: 4000},
		}
	}
	prms := dbf.Params{&dbf.P{N: "r", V: o.R}}
	for e := 0; e < o.Nend; e++ {
		for f := e + 1; f < o.Nend; f++ {
			prms = append(prms,
				&dbf.P{N: io.Sf("wh%d%d", e, f), V: o.WH[e][f]},
				&dbf.P{N: io.Sf("ws%d%d", e, f), V: o.WS[e][f]},
				&dbf.P{N: io.Sf("wv%d%d", e, f), V: o.WV[e][f]},
			)
		}
	}
	return prms
}

// Calc computes Gmix and derivatives
func (o Regular) Calc(res *Mixing, P, T float64, p []float64) (err error) {
	err = o.Ideal.Calc(res, P, T, p)
	if err != nil {
		return
	}
	for e := range p {
		for f := range p {
			if f == e {
				continue
			}
			W := o.WH[e][f] - T*o.WS[e][f] + P*o.WV[e][f]
			if f > e {
				res.G += W * p[e] * p[f]
				res.GP += o.WV[e][f] * p[e] * p[f]
				res.GT -= o.WS[e][f] * p[e] * p[f]
			}
			res.Gp[e] += W * p[f]
			res.GpP[e] += o.WV[e][f] * p[f]
			res.GpT[e] -= o.WS[e][f] * p[f]
			res.Gpp[e][f] = W
		}
	}
	return
}

// parsePair parses "EF" into indices e < f
func parsePair(pair string, nend int) (e, f int, ok bool) {
	if len(pair) != 2 {
		return
	}
	a, erra := strconv.Atoi(pair[:1])
	b, errb := strconv.Atoi(pair[1:])
	if erra != nil || errb != nil || a == b || a >= nend || b >= nend {
		return
	}
	if a > b {
		a, b = b, a
	}
	return a, b, true
}

