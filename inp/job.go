// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/eqm"
)

// kinds of task
const (
	TaskSolve = "solve" // one equilibrium
	TaskBulk  = "bulk"  // two-endpoint bulk composition
	TaskSweep = "sweep" // sequence of equilibria with warm starts
)

// ConstraintData holds the data of one constraint
type ConstraintData struct {
	Kind   string    `toml:"kind" json:"kind"`     // "P", "T" or "X"
	Value  float64   `toml:"value" json:"value"`   // target value
	Vector string    `toml:"vector" json:"vector"` // "phases" (default) or "endmembers"
	Coefs  []float64 `toml:"coefs" json:"coefs"`   // coefficients of the numerator
	Norm   []float64 `toml:"norm" json:"norm"`     // coefficients of the denominator
}

// Spec converts this data into a constraint specification
func (o ConstraintData) Spec() (s eqm.Spec, err error) {
	kind, ok := eqm.ParseKind(o.Kind)
	if !ok {
		return s, chk.Err("kind of constraint %q is incorrect; options are \"P\", \"T\" and \"X\"", o.Kind)
	}
	return eqm.Spec{Kind: kind, Value: o.Value, Vector: o.Vector, Coefs: o.Coefs, Norm: o.Norm}, nil
}

// SweepData holds the data of a sweep
type SweepData struct {
	Constraint int       `toml:"constraint"` // index of the constraint whose value varies; -1 means the bulk fraction
	Start      float64   `toml:"start"`      // first value
	Stop       float64   `toml:"stop"`       // last value
	N          int       `toml:"n"`          // number of values
	Values     []float64 `toml:"values"`     // values; overrides Start, Stop and N
}

// Points returns the values of the sweep
func (o SweepData) Points() []float64 {
	if len(o.Values) > 0 {
		return o.Values
	}
	return utl.LinSpace(o.Start, o.Stop, o.N)
}

// TaskData holds the data of one task
type TaskData struct {
	Kind        string            `toml:"kind"`        // "solve", "bulk" or "sweep"
	Name        string            `toml:"name"`        // name of task; used in output
	Phases      []string          `toml:"phases"`      // phases of the assemblage
	Bulk        string            `toml:"bulk"`        // bulk composition for "solve" and constraint sweeps
	C1          string            `toml:"c1"`          // first end composition for "bulk" and fraction sweeps
	C2          string            `toml:"c2"`          // second end composition
	F0          float64           `toml:"f0"`          // initial fraction for "bulk"
	P0          float64           `toml:"p0"`          // initial pressure; overrides Options.P0 if positive
	T0          float64           `toml:"t0"`          // initial temperature; overrides Options.T0 if positive
	Constraints []*ConstraintData `toml:"constraints"` // constraints
	Sweep       *SweepData        `toml:"sweep"`       // sweep
	Output      string            `toml:"output"`      // JSON file with solutions; relative to Dirout

	// derived
	Specs  []eqm.Spec   `toml:"-"` // constraint specifications
	BulkF  chem.Formula `toml:"-"` // parsed Bulk
	C1F    chem.Formula `toml:"-"` // parsed C1
	C2F    chem.Formula `toml:"-"` // parsed C2
	Points []float64    `toml:"-"` // sweep values
}

// Job holds the data of a job file
type Job struct {

	// input
	Phases  string      `toml:"phases"`  // phase database file; relative to the directory of the job file
	Dirout  string      `toml:"dirout"`  // directory of output files; relative to the directory of the job file
	Options eqm.Options `toml:"options"` // solver options
	Tasks   []*TaskData `toml:"tasks"`   // tasks

	// derived
	Dir string   `toml:"-"` // directory of the job file
	Key string   `toml:"-"` // job file name without extension
	Db  *PhaseDb `toml:"-"` // phase database
}

// ReadJob reads a TOML job file and the phase database it refers to
func ReadJob(path string) (o *Job, err error) {

	// defaults
	o = new(Job)
	o.Options.SetDefault()

	// decode
	meta, err := toml.DecodeFile(path, o)
	if err != nil {
		return nil, chk.Err("cannot decode job file %q:\n%v", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return nil, chk.Err("job file %q has unknown keys: %v", path, keys)
	}
	o.Dir = filepath.Dir(path)
	o.Key = io.FnKey(path)
	if !meta.IsDefined("dirout") {
		o.Dirout = "/tmp/burnman"
	} else if !filepath.IsAbs(o.Dirout) {
		o.Dirout = filepath.Join(o.Dir, o.Dirout)
	}

	// options
	if err = o.Options.PostProcess(); err != nil {
		return nil, err
	}

	// phases
	if o.Phases == "" {
		return nil, chk.Err("job file %q must name a phase database", path)
	}
	o.Db, err = ReadPhases(o.Dir, o.Phases)
	if err != nil {
		return nil, err
	}

	// tasks
	if len(o.Tasks) == 0 {
		return nil, chk.Err("job file %q has no tasks", path)
	}
	for i, t := range o.Tasks {
		if t.Name == "" {
			t.Name = io.Sf("task%d", i)
		}
		if err = t.PostProcess(o.Db); err != nil {
			return nil, chk.Err("task %q: %v", t.Name, err)
		}
	}
	return
}

// PostProcess checks and converts the data of a task
func (o *TaskData) PostProcess(db *PhaseDb) (err error) {

	// initial state
	if o.P0 < 0 || o.T0 < 0 {
		return chk.Err("initial pressure and temperature cannot be negative: p0=%g t0=%g", o.P0, o.T0)
	}

	// phases
	asm, err := db.Assemblage(o.Phases)
	if err != nil {
		return
	}

	// constraints
	o.Specs = make([]eqm.Spec, len(o.Constraints))
	for i, c := range o.Constraints {
		if o.Specs[i], err = c.Spec(); err != nil {
			return
		}
	}

	// compositions
	parse := func(key, str string) (chem.Formula, error) {
		if strings.TrimSpace(str) == "" {
			return nil, chk.Err("%s composition is required", key)
		}
		return chem.Parse(str)
	}
	fraction := o.Sweep != nil && o.Sweep.Constraint < 0
	switch o.Kind {
	case TaskSolve:
		o.BulkF, err = parse("bulk", o.Bulk)
	case TaskBulk:
		if o.C1F, err = parse("c1", o.C1); err != nil {
			return
		}
		o.C2F, err = parse("c2", o.C2)
	case TaskSweep:
		if o.Sweep == nil {
			return chk.Err("sweep data is required")
		}
		if fraction {
			if o.C1F, err = parse("c1", o.C1); err != nil {
				return
			}
			o.C2F, err = parse("c2", o.C2)
		} else {
			if o.Sweep.Constraint >= len(o.Specs) {
				return chk.Err("index of swept constraint %d is out of range", o.Sweep.Constraint)
			}
			o.BulkF, err = parse("bulk", o.Bulk)
		}
		o.Points = o.Sweep.Points()
		if len(o.Points) == 0 {
			return chk.Err("sweep has no points")
		}
	default:
		return chk.Err("kind of task %q is incorrect; options are %q, %q and %q", o.Kind, TaskSolve, TaskBulk, TaskSweep)
	}
	if err != nil {
		return
	}
	return o.checkSpecs(asm)
}

// checkSpecs checks the constraints against the assemblage; a swept constraint is checked at every point
func (o *TaskData) checkSpecs(asm *eqm.Assemblage) (err error) {
	if o.Kind != TaskSweep || o.Sweep.Constraint < 0 {
		return eqm.CheckSpecs(o.Specs, asm)
	}
	specs := append([]eqm.Spec{}, o.Specs...)
	for _, v := range o.Points {
		specs[o.Sweep.Constraint].Value = v
		if err = eqm.CheckSpecs(specs, asm); err != nil {
			return chk.Err("sweep value %g: %v", v, err)
		}
	}
	return
}
