// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

// Solution holds the result of one solve
type Solution struct {
	P           float64            `json:"p"`           // pressure [Pa]
	T           float64            `json:"t"`           // temperature [K]
	Names       []string           `json:"names"`       // names of phases
	Amounts     []float64          `json:"amounts"`     // amounts of phases [mol]
	X           [][]float64        `json:"x"`           // compositions of phases
	Proportions [][]float64        `json:"proportions"` // end-member proportions
	Present     []bool             `json:"present"`     // phase was not extinct at convergence
	Mu          map[string]float64 `json:"mu"`          // chemical potentials of components [J/mol]
	Iterations  int                `json:"iterations"`  // number of Newton iterations
	Residual    float64            `json:"residual"`    // infinity norm of final residual
	Bulk        bool               `json:"bulk"`        // result of a bulk solve
	Fraction    float64            `json:"fraction"`    // f in bulk = f・c1 + (1-f)・c2 if Bulk
}

// Index returns the index of a phase or -1
func (o *Solution) Index(name string) int {
	for i, n := range o.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Vector returns [P, T, n_1, x_1..., n_2, x_2..., ...]
func (o *Solution) Vector() (v []float64) {
	v = []float64{o.P, o.T}
	for i, n := range o.Amounts {
		v = append(v, n)
		v = append(v, o.X[i]...)
	}
	return
}

// PhaseVector returns [n_1, x_1..., n_2, x_2..., ...], the vector used by composition constraints
func (o *Solution) PhaseVector() []float64 { return o.Vector()[2:] }
