// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the output of solutions as text tables and JSON files
package out

import (
	"bytes"
	"sort"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/jdannberg/burnman/eqm"
)

// constants
var (
	Pscale = 1e9   // pressure unit of tables [Pa]
	Tiny   = 1e-13 // amounts below this are printed as zero
)

// Table returns a text table with one row per solution. All solutions must refer to the same
// assemblage. The first column holds the bulk fraction if the solutions come from bulk solves
func Table(sols []*eqm.Solution) string {
	if len(sols) == 0 {
		return ""
	}
	ref := sols[0]
	withF := false
	for _, s := range sols {
		withF = withF || s.Bulk
	}

	// header
	var b bytes.Buffer
	if withF {
		io.Ff(&b, "%12s", "f")
	}
	io.Ff(&b, "%12s%10s", "P[GPa]", "T[K]")
	for i, name := range ref.Names {
		io.Ff(&b, "%12s", "n("+name+")")
		for j := range ref.X[i] {
			io.Ff(&b, "%12s", io.Sf("x%d(%s)", j, name))
		}
	}
	io.Ff(&b, "%6s%12s\n", "it", "|R|")
	io.Ff(&b, "%s\n", strings.Repeat("-", b.Len()-1))

	// rows
	for _, s := range sols {
		if withF {
			io.Ff(&b, "%12.8f", s.Fraction)
		}
		io.Ff(&b, "%12.6f%10.3f", s.P/Pscale, s.T)
		for i, n := range s.Amounts {
			if n < Tiny && n > -Tiny {
				n = 0
			}
			mark := " "
			if !s.Present[i] {
				mark = "*"
			}
			io.Ff(&b, "%11.6f%s", n, mark)
			for _, x := range s.X[i] {
				io.Ff(&b, "%12.6f", x)
			}
		}
		io.Ff(&b, "%6d%12.3e\n", s.Iterations, s.Residual)
	}
	return b.String()
}

// Potentials returns a text table with the chemical potentials of the components of one solution
func Potentials(sol *eqm.Solution) string {
	names := make([]string, 0, len(sol.Mu))
	for name := range sol.Mu {
		names = append(names, name)
	}
	sort.Strings(names)
	var b bytes.Buffer
	for _, name := range names {
		io.Ff(&b, "%6s%18.6f kJ/mol\n", name, sol.Mu[name]/1000)
	}
	return b.String()
}
