// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/goccy/go-json"
	"github.com/jdannberg/burnman/eqm"
)

// Results holds the solutions of one task
type Results struct {
	Task      string          `json:"task"`      // name of task
	Kind      string          `json:"kind"`      // kind of task
	Values    []float64       `json:"values"`    // swept values, if any
	Solutions []*eqm.Solution `json:"solutions"` // solutions
}

// Save writes the results to a JSON file in dirout
func (o *Results) Save(dirout, fn string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode results of task %q:\n%v", o.Task, err)
	}
	io.WriteBytesToFileD(dirout, fn, b)
	return
}

// ReadResults reads results from a JSON file
func ReadResults(path string) (o *Results, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read results file %q:\n%v", path, err)
	}
	o = new(Results)
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot decode results file %q:\n%v", path, err)
	}
	return
}
