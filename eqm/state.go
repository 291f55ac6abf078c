// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eqm implements the equilibrium assemblage solver
package eqm

import (
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/mdl/gibbs"
)

// State holds the amount and internal composition of one phase in an assemblage
type State struct {
	Phase gibbs.Phase // energetics
	N     float64     // amount [mol]; zero means absent
	X     []float64   // internal composition; len(X) == Phase.Ndof()
}

// NewState returns a new state with midpoint composition and zero amount
func NewState(ph gibbs.Phase) *State {
	o := &State{Phase: ph, X: make([]float64, ph.Ndof())}
	for j := range o.X {
		o.X[j] = 1.0 / float64(ph.Ndof()+1)
	}
	return o
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	return &State{o.Phase, o.N, append([]float64{}, o.X...)}
}

// Set sets this state equal to another one
func (o *State) Set(other *State) {
	o.Phase = other.Phase
	o.N = other.N
	o.X = append(o.X[:0], other.X...)
}

// Proportions returns the end-member proportions
func (o *State) Proportions() []float64 {
	p := make([]float64, len(o.Phase.Endmembers()))
	gibbs.Proportions(p, o.Phase, o.X)
	return p
}

// Formula returns the formula of this phase at its composition
func (o *State) Formula() chem.Formula {
	return gibbs.Formula(o.Phase, o.X)
}

// Assemblage holds an ordered list of phases and the current pressure and temperature.
//  The solver mutates P, T and the states in place during a solve
type Assemblage struct {
	Phases []*State
	P      float64 // pressure [Pa]
	T      float64 // temperature [K]
}

// NewAssemblage returns a new assemblage with the given phases
func NewAssemblage(phases ...gibbs.Phase) *Assemblage {
	o := new(Assemblage)
	for _, ph := range phases {
		o.Phases = append(o.Phases, NewState(ph))
	}
	return o
}

// Find returns the state of a phase by name or nil
func (o *Assemblage) Find(name string) *State {
	for _, s := range o.Phases {
		if s.Phase.Name() == name {
			return s
		}
	}
	return nil
}

// Bulk returns the composition Σ N_i・formula_i
func (o *Assemblage) Bulk() chem.Formula {
	f := make(chem.Formula)
	for _, s := range o.Phases {
		f.Add(s.N, s.Formula())
	}
	return f
}

// GetCopy returns a deep copy of the states; phases are shared
func (o *Assemblage) GetCopy() *Assemblage {
	c := &Assemblage{P: o.P, T: o.T}
	for _, s := range o.Phases {
		c.Phases = append(c.Phases, s.GetCopy())
	}
	return c
}

// Set sets P, T and states from another assemblage with the same phases
func (o *Assemblage) Set(other *Assemblage) {
	o.P, o.T = other.P, other.T
	for i, s := range other.Phases {
		o.Phases[i].Set(s)
	}
}
