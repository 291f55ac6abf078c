// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"github.com/cpmech/gosl/chk"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/eqm"
	"github.com/jdannberg/burnman/inp"
)

// Sweep solves a sequence of equilibria. Each solve after the first one starts from the previous
// state of the assemblage. The swept quantity is either the value of one constraint or, if
// Sweep.Constraint < 0, the fraction f in bulk = f・c1 + (1-f)・c2
func Sweep(t *inp.TaskData, asm *eqm.Assemblage, opts *eqm.Options) (sols []*eqm.Solution, err error) {
	if t.Sweep == nil {
		return nil, chk.Err("task %q has no sweep data", t.Name)
	}
	specs := make([]eqm.Spec, len(t.Specs))
	copy(specs, t.Specs)
	cold := *opts
	cold.Warm = false
	warm := *opts
	warm.Warm = true
	idx := t.Sweep.Constraint
	for k, v := range t.Points {
		bulk := t.BulkF
		if idx < 0 {
			bulk = chem.Mix(v, t.C1F, t.C2F)
		} else {
			specs[idx].Value = v
		}
		o := &cold
		if k > 0 {
			o = &warm
		}
		sol, err := eqm.Solve(bulk, asm, specs, o)
		if err != nil {
			return nil, chk.Err("sweep point %d (value = %g) failed:\n%v", k, v, err)
		}
		if idx < 0 {
			sol.Bulk, sol.Fraction = true, v
		}
		sols = append(sols, sol)
	}
	return
}
