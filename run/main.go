// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package run implements the execution of job files
package run

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/eqm"
	"github.com/jdannberg/burnman/inp"
	"github.com/jdannberg/burnman/out"
	"github.com/rs/zerolog/log"
)

// Main holds all data for running the tasks of a job
type Main struct {
	Job     *inp.Job       // job data
	Results []*out.Results // results of tasks; one per task
	ShowMsg bool           // show messages
}

// NewMain returns a new Main structure
//  Input:
//   jobfilepath -- job (.toml) filename including full path
//   verbose     -- show messages
func NewMain(jobfilepath string, verbose bool) (o *Main, err error) {
	o = new(Main)
	o.ShowMsg = verbose
	o.Job, err = inp.ReadJob(jobfilepath)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("job", jobfilepath).
		Str("phases", o.Job.Phases).
		Int("tasks", len(o.Job.Tasks)).
		Msg("job file read")
	return
}

// Run runs all tasks
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// loop over tasks
	o.Results = make([]*out.Results, len(o.Job.Tasks))
	for i, t := range o.Job.Tasks {
		if o.ShowMsg {
			io.Pf("> Running task %q (%s)\n", t.Name, t.Kind)
		}
		o.Results[i], err = o.RunTask(t)
		if err != nil {
			log.Error().Str("task", t.Name).Str("kind", t.Kind).Err(err).Msg("task failed")
			return chk.Err("task %q failed:\n%v", t.Name, err)
		}
		log.Info().
			Str("task", t.Name).
			Str("kind", t.Kind).
			Int("solutions", len(o.Results[i].Solutions)).
			Msg("task completed")
		if o.ShowMsg {
			io.Pf("\n%v\n", out.Table(o.Results[i].Solutions))
		}
		if t.Output != "" {
			if err = o.Results[i].Save(o.Job.Dirout, t.Output); err != nil {
				return
			}
			log.Info().Str("task", t.Name).Str("dir", o.Job.Dirout).Str("file", t.Output).Msg("results saved")
		}
	}
	return
}

// RunTask runs one task on a new assemblage
func (o *Main) RunTask(t *inp.TaskData) (res *out.Results, err error) {
	asm, err := o.Job.Db.Assemblage(t.Phases)
	if err != nil {
		return
	}
	opts := o.Job.Options
	if t.P0 > 0 {
		opts.P0 = t.P0
	}
	if t.T0 > 0 {
		opts.T0 = t.T0
	}
	res = &out.Results{Task: t.Name, Kind: t.Kind}
	var sol *eqm.Solution
	switch t.Kind {
	case inp.TaskSolve:
		sol, err = eqm.Solve(t.BulkF, asm, t.Specs, &opts)
		if err != nil {
			return
		}
		res.Solutions = append(res.Solutions, sol)
		if o.ShowMsg {
			io.Pf("chemical potentials:\n%v", out.Potentials(sol))
		}
	case inp.TaskBulk:
		sol, err = eqm.SolveBulk(t.C1F, t.C2F, t.F0, asm, t.Specs, &opts)
		if err != nil {
			return
		}
		res.Solutions = append(res.Solutions, sol)
	case inp.TaskSweep:
		res.Values = t.Points
		res.Solutions, err = Sweep(t, asm, &opts)
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// onexit prints final message with cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	return prevErr
}
