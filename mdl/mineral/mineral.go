// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mineral

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/mdl/gibbs"
)

// Mineral is a phase with fixed composition; i.e. without internal degrees of freedom
type Mineral struct {
	Mdl     Model        // equation of state
	formula chem.Formula // chemical formula
	name    string       // name of phase
	p0      []float64    // p0 = [1]
	B       [][]float64  // B = [[]]
}

// NewMineral allocates and initialises a pure phase
func NewMineral(name string, formula chem.Formula, model string, prms dbf.Params) (o *Mineral, err error) {
	if len(formula) == 0 {
		return nil, chk.Err("mineral %q: formula must be given", name)
	}
	if err = formula.Check(); err != nil {
		return nil, chk.Err("mineral %q: %v", name, err)
	}
	mdl, err := New(model)
	if err != nil {
		return
	}
	err = mdl.Init(prms)
	if err != nil {
		return nil, chk.Err("mineral %q: %v", name, err)
	}
	return &Mineral{mdl, formula.Clone(), name, []float64{1}, [][]float64{{}}}, nil
}

// Name returns the name of this phase
func (o *Mineral) Name() string { return o.name }

// Formula returns the chemical formula
func (o *Mineral) Formula() chem.Formula { return o.formula }

// Endmembers returns the formula as the single end-member
func (o *Mineral) Endmembers() []chem.Formula { return []chem.Formula{o.formula} }

// Ndof returns 0
func (o *Mineral) Ndof() int { return 0 }

// Basis returns p0 = [1] and an empty B
func (o *Mineral) Basis() (p0 []float64, B [][]float64) { return o.p0, o.B }

// Calc computes G, V and S; x is ignored
func (o *Mineral) Calc(res *gibbs.Props, P, T float64, x []float64) (err error) {
	res.G, res.GP, res.GT, err = o.Mdl.Calc(P, T)
	if err != nil {
		return chk.Err("mineral %q: %v", o.name, err)
	}
	res.Mu[0] = res.G
	return
}
