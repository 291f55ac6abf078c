// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Driver computes the properties of a phase along a P-T path at fixed composition
type Driver struct {

	// input
	Phase Phase     // phase
	X     []float64 // composition

	// settings
	TolD float64 // tolerance to check derivatives
	VerD bool    // verbose check of derivatives

	// check derivatives
	TstD *testing.T // if != nil, do check derivatives at every point

	// results
	Res []*Props // results
}

// Init initialises driver
func (o *Driver) Init(ph Phase, x []float64) (err error) {
	if len(x) != ph.Ndof() {
		return chk.Err("driver: composition of %q must have %d values. %v is incorrect", ph.Name(), ph.Ndof(), x)
	}
	o.Phase, o.X = ph, x
	o.TolD = 1e-6
	o.VerD = chk.Verbose
	return
}

// Run runs the phase along the path (P[i], T[i])
func (o *Driver) Run(P, T []float64) (err error) {
	if len(P) != len(T) {
		return chk.Err("driver: P and T must have the same length. %d != %d", len(P), len(T))
	}
	o.Res = make([]*Props, len(P))
	for i := range P {
		o.Res[i] = NewProps(o.Phase)
		err = o.Phase.Calc(o.Res[i], P[i], T[i], o.X)
		if err != nil {
			return chk.Err("driver: point %d failed: %v", i, err)
		}
		if o.TstD != nil {
			CheckDerivs(o.TstD, o.Phase, P[i], T[i], o.X, o.TolD, o.VerD)
		}
	}
	return
}
