// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input of phase databases and job files
package inp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/goccy/go-json"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/eqm"
	"github.com/jdannberg/burnman/mdl/gibbs"
	"github.com/jdannberg/burnman/mdl/mineral"
	"github.com/jdannberg/burnman/mdl/solution"
	"gopkg.in/yaml.v3"
)

// MineralData holds the data of a pure phase
type MineralData struct {

	// input
	Name    string     `json:"name" yaml:"name"`       // name of phase
	Formula string     `json:"formula" yaml:"formula"` // chemical formula; e.g. "Mg2SiO4"
	Model   string     `json:"model" yaml:"model"`     // name of model; e.g. "linear", "murnaghan"
	Extra   string     `json:"extra" yaml:"extra"`     // extra information about this phase
	Prms    dbf.Params `json:"prms" yaml:"prms"`       // model parameters

	// derived
	Mineral *mineral.Mineral
}

// SolutionData holds the data of a solid solution
type SolutionData struct {

	// input
	Name    string     `json:"name" yaml:"name"`       // name of phase
	Model   string     `json:"model" yaml:"model"`     // name of mixing model; e.g. "ideal", "regular"
	Members []string   `json:"members" yaml:"members"` // names of end-members (minerals)
	Extra   string     `json:"extra" yaml:"extra"`     // extra information about this phase
	Prms    dbf.Params `json:"prms" yaml:"prms"`       // mixing parameters

	// derived
	Solution *solution.Solution
}

// PhaseDb implements a database of phases
type PhaseDb struct {

	// input
	Minerals  []*MineralData  `json:"minerals" yaml:"minerals"`   // pure phases
	Solutions []*SolutionData `json:"solutions" yaml:"solutions"` // solid solutions

	// derived
	phases map[string]gibbs.Phase // all phases
}

// ReadPhases reads a phase database from a JSON (.json) or YAML (.yaml or .yml) file
func ReadPhases(dir, fn string) (db *PhaseDb, err error) {

	// read file
	b, err := os.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, chk.Err("cannot read phase database %q:\n%v", fn, err)
	}

	// decode
	db = new(PhaseDb)
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".json":
		err = json.Unmarshal(b, db)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, db)
	default:
		return nil, chk.Err("extension of phase database %q is incorrect; options are .json, .yaml and .yml", fn)
	}
	if err != nil {
		return nil, chk.Err("cannot decode phase database %q:\n%v", fn, err)
	}

	// allocate phases
	err = db.Init()
	return
}

// Init allocates and initialises all phases
func (o *PhaseDb) Init() (err error) {
	o.phases = make(map[string]gibbs.Phase)
	minerals := make(map[string]*mineral.Mineral)

	// minerals
	for _, m := range o.Minerals {
		if _, ok := o.phases[m.Name]; ok {
			return chk.Err("phase named %q is duplicated", m.Name)
		}
		f, err := chem.Parse(m.Formula)
		if err != nil {
			return chk.Err("mineral %q: %v", m.Name, err)
		}
		m.Mineral, err = mineral.NewMineral(m.Name, f, m.Model, m.Prms)
		if err != nil {
			return err
		}
		o.phases[m.Name] = m.Mineral
		minerals[m.Name] = m.Mineral
	}

	// solutions
	for _, s := range o.Solutions {
		if _, ok := o.phases[s.Name]; ok {
			return chk.Err("phase named %q is duplicated", s.Name)
		}
		if len(s.Members) < 2 {
			return chk.Err("solution %q: at least two end-members are required", s.Name)
		}
		var members []*mineral.Mineral
		for _, name := range s.Members {
			m, ok := minerals[name]
			if !ok {
				return chk.Err("solution %q: cannot find end-member named %q", s.Name, name)
			}
			members = append(members, m)
		}
		s.Solution, err = solution.NewSolution(s.Name, members, s.Model, s.Prms)
		if err != nil {
			return
		}
		o.phases[s.Name] = s.Solution
	}
	return
}

// Get returns a phase by name
func (o *PhaseDb) Get(name string) (gibbs.Phase, error) {
	if ph, ok := o.phases[name]; ok {
		return ph, nil
	}
	return nil, chk.Err("cannot find phase named %q", name)
}

// Assemblage returns a new assemblage with the given phases
func (o *PhaseDb) Assemblage(names []string) (asm *eqm.Assemblage, err error) {
	if len(names) == 0 {
		return nil, chk.Err("list of phases is empty")
	}
	var phases []gibbs.Phase
	for _, name := range names {
		ph, err := o.Get(name)
		if err != nil {
			return nil, err
		}
		phases = append(phases, ph)
	}
	return eqm.NewAssemblage(phases...), nil
}

// Names returns the names of all phases in the order of the file
func (o *PhaseDb) Names() (names []string) {
	for _, m := range o.Minerals {
		names = append(names, m.Name)
	}
	for _, s := range o.Solutions {
		names = append(names, s.Name)
	}
	return
}
