// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solution implements solid solution phases and their mixing models
//  References:
//   [1] Holland TJB and Powell R (2003) Activity-composition relations for phases in petrological
//       calculations: an asymmetric multicomponent formulation. Contributions to Mineralogy and
//       Petrology, 145(4), 492-501
package solution

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Rgas is the gas constant [J/(mol K)]
const Rgas = 8.31446261815324

// Pmin is the smallest proportion used in logarithms
const Pmin = 1e-300

// Model implements the configurational and excess Gibbs energy of mixing
//  as a function of the end-member proportions p
type Model interface {
	Init(nend int, prms dbf.Params) error                    // initialises model
	GetPrms(example bool) dbf.Params                         // gets (an example) of parameters
	Calc(res *Mixing, P, T float64, p []float64) (err error) // computes Gmix and derivatives
}

// Mixing holds the Gibbs energy of mixing and its derivatives with respect to proportions
type Mixing struct {
	G   float64     // Gmix
	GP  float64     // ∂Gmix/∂P
	GT  float64     // ∂Gmix/∂T
	Gp  []float64   // ∂Gmix/∂p
	GpP []float64   // ∂²Gmix/(∂p ∂P)
	GpT []float64   // ∂²Gmix/(∂p ∂T)
	Gpp [][]float64 // ∂²Gmix/∂p²
}

// NewMixing allocates Mixing for nend end-members
func NewMixing(nend int) *Mixing {
	o := &Mixing{
		Gp:  make([]float64, nend),
		GpP: make([]float64, nend),
		GpT: make([]float64, nend),
		Gpp: make([][]float64, nend),
	}
	for i := 0; i < nend; i++ {
		o.Gpp[i] = make([]float64, nend)
	}
	return o
}

// New returns new mixing model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'solution' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
