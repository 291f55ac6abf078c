// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mineral implements equations of state for pure phases
//  References:
//   [1] Holland TJB and Powell R (2011) An improved and extended internally consistent
//       thermodynamic dataset for phases of petrological interest, involving a new equation
//       of state for solids. Journal of Metamorphic Geology, 29(3), 333-383
//   [2] Murnaghan FD (1944) The compressibility of media under extreme pressures.
//       Proceedings of the National Academy of Sciences, 30(9), 244-247
package mineral

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// reference conditions
const (
	Tref = 298.15 // [K]
	Pref = 1e5    // [Pa]
)

// Model implements the Gibbs energy of a pure phase
//  Calc computes:
//    G  = G(P,T)      [J/mol]
//    GP = ∂G/∂P = V   [m³/mol]
//    GT = ∂G/∂T = -S  [J/(mol K)]
type Model interface {
	Init(prms dbf.Params) error                       // initialises model
	GetPrms(example bool) dbf.Params                  // gets (an example) of parameters
	Calc(P, T float64) (G, GP, GT float64, err error) // computes G and its first derivatives
}

// New returns new pure phase model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'mineral' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
