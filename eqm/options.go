// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"github.com/cpmech/gosl/chk"
)

// Options holds solver parameters
type Options struct {

	// Newton iterations
	MaxIt int     `json:"maxit" toml:"maxit" yaml:"maxit"` // max number of iterations
	Tol   float64 `json:"tol" toml:"tol" yaml:"tol"`       // tolerance on |R|∞
	Ftol  float64 `json:"ftol" toml:"ftol" yaml:"ftol"`    // tolerance on |R|∞ when the step is below Xtol
	Xtol  float64 `json:"xtol" toml:"xtol" yaml:"xtol"`    // relative tolerance on the scaled step
	Tau   float64 `json:"tau" toml:"tau" yaml:"tau"`       // fraction-to-boundary coefficient
	Amin  float64 `json:"amin" toml:"amin" yaml:"amin"`    // min step length in line search
	ShowR bool    `json:"showr" toml:"showr" yaml:"showr"` // show residual

	// initial guess
	Warm   bool    `json:"warm" toml:"warm" yaml:"warm"`       // start from current state of assemblage
	Nrelax int     `json:"nrelax" toml:"nrelax" yaml:"nrelax"` // number of composition relaxation sweeps
	P0     float64 `json:"p0" toml:"p0" yaml:"p0"`             // initial pressure if not constrained
	T0     float64 `json:"t0" toml:"t0" yaml:"t0"`             // initial temperature if not constrained

	// scales
	Pscale float64 `json:"pscale" toml:"pscale" yaml:"pscale"` // pressure scale
	Escale float64 `json:"escale" toml:"escale" yaml:"escale"` // energy scale

	// bulk two-endpoint minimizer
	BulkStep  float64 `json:"bulkstep" toml:"bulkstep" yaml:"bulkstep"`    // initial bracketing step
	BulkTol   float64 `json:"bulktol" toml:"bulktol" yaml:"bulktol"`       // tolerance on fraction
	BulkMaxIt int     `json:"bulkmaxit" toml:"bulkmaxit" yaml:"bulkmaxit"` // max number of root finding iterations

	// derived
	signed bool // do not clamp amounts (bulk inner solves)
}

// NewOptions returns default options
func NewOptions() *Options {
	var o Options
	o.SetDefault()
	return &o
}

// SetDefault sets default values
func (o *Options) SetDefault() {
	o.MaxIt = 100
	o.Tol = 1e-10
	o.Ftol = 1e-6
	o.Xtol = 1e-12
	o.Tau = 0.99
	o.Amin = 1e-6
	o.Nrelax = 3
	o.P0 = 1e9
	o.T0 = 1000
	o.Pscale = 1e9
	o.Escale = 1e3
	o.BulkStep = 0.05
	o.BulkTol = 1e-10
	o.BulkMaxIt = 100
}

// PostProcess checks values
func (o *Options) PostProcess() error {
	if o.MaxIt < 1 {
		return chk.Err("maxit must be positive. %d is incorrect", o.MaxIt)
	}
	if o.Tol <= 0 || o.Ftol < o.Tol || o.Xtol < 0 {
		return chk.Err("tolerances are incorrect: tol=%g ftol=%g xtol=%g", o.Tol, o.Ftol, o.Xtol)
	}
	if o.Tau <= 0 || o.Tau >= 1 {
		return chk.Err("tau must be in (0,1). %g is incorrect", o.Tau)
	}
	if o.Amin <= 0 || o.Amin >= 1 {
		return chk.Err("amin must be in (0,1). %g is incorrect", o.Amin)
	}
	if o.Nrelax < 0 {
		return chk.Err("nrelax must be non-negative. %d is incorrect", o.Nrelax)
	}
	if o.T0 <= 0 {
		return chk.Err("initial temperature must be positive. %g is incorrect", o.T0)
	}
	if o.Pscale <= 0 || o.Escale <= 0 {
		return chk.Err("scales must be positive: pscale=%g escale=%g", o.Pscale, o.Escale)
	}
	if o.BulkStep <= 0 || o.BulkStep > 1 || o.BulkTol <= 0 || o.BulkMaxIt < 1 {
		return chk.Err("bulk parameters are incorrect: step=%g tol=%g maxit=%d", o.BulkStep, o.BulkTol, o.BulkMaxIt)
	}
	return nil
}
