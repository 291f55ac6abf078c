// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package chem implements chemical formulas and bulk compositions
package chem

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Formula maps component (element) names to molar amounts
type Formula map[string]float64

// Parse parses a formula such as "Mg2SiO4", "Fe0.5Mg1.5SiO4" or "Ca3Al2(SiO4)3"
func Parse(str string) (f Formula, err error) {
	f = make(Formula)
	rs := []rune(strings.TrimSpace(str))
	if len(rs) == 0 {
		return nil, chk.Err("cannot parse empty formula")
	}
	pos := 0
	err = parseGroup(f, rs, &pos, 1, 0)
	if err != nil {
		return nil, chk.Err("cannot parse formula %q: %v", str, err)
	}
	return
}

// MustParse parses a formula and panics on errors
func MustParse(str string) Formula {
	f, err := Parse(str)
	if err != nil {
		chk.Panic("%v", err)
	}
	return f
}

// parseGroup parses elements and parenthesised groups until ')' or end of input
func parseGroup(f Formula, rs []rune, pos *int, mult float64, depth int) error {
	for *pos < len(rs) {
		r := rs[*pos]
		switch {
		case r == '(':
			*pos++
			g := make(Formula)
			if err := parseGroup(g, rs, pos, 1, depth+1); err != nil {
				return err
			}
			if *pos >= len(rs) || rs[*pos] != ')' {
				return chk.Err("unbalanced parenthesis")
			}
			*pos++
			n, err := parseNumber(rs, pos)
			if err != nil {
				return err
			}
			f.Add(mult*n, g)
		case r == ')':
			if depth == 0 {
				return chk.Err("unbalanced parenthesis")
			}
			return nil
		case unicode.IsUpper(r):
			start := *pos
			*pos++
			for *pos < len(rs) && unicode.IsLower(rs[*pos]) {
				*pos++
			}
			name := string(rs[start:*pos])
			n, err := parseNumber(rs, pos)
			if err != nil {
				return err
			}
			f[name] += mult * n
		default:
			return chk.Err("unexpected character %q", string(r))
		}
	}
	if depth > 0 {
		return chk.Err("unbalanced parenthesis")
	}
	return nil
}

// parseNumber parses an optional stoichiometric coefficient; returns 1 if absent
func parseNumber(rs []rune, pos *int) (float64, error) {
	start := *pos
	for *pos < len(rs) && (unicode.IsDigit(rs[*pos]) || rs[*pos] == '.') {
		*pos++
	}
	if start == *pos {
		return 1, nil
	}
	return strconv.ParseFloat(string(rs[start:*pos]), 64)
}

// Clone returns a copy of this formula
func (o Formula) Clone() Formula {
	f := make(Formula, len(o))
	for k, v := range o {
		f[k] = v
	}
	return f
}

// Add adds a·g to this formula
func (o Formula) Add(a float64, g Formula) {
	for k, v := range g {
		o[k] += a * v
	}
}

// Scaled returns a·f
func (o Formula) Scaled(a float64) Formula {
	f := make(Formula, len(o))
	f.Add(a, o)
	return f
}

// Atoms returns the total number of atoms; the sum runs over sorted names
func (o Formula) Atoms() (sum float64) {
	for _, k := range o.Names() {
		sum += math.Abs(o[k])
	}
	return
}

// Names returns the sorted component names with nonzero amounts
func (o Formula) Names() (names []string) {
	for k, v := range o {
		if v != 0 {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return
}

// Vector returns the amounts ordered as comps
func (o Formula) Vector(comps []string) []float64 {
	v := make([]float64, len(comps))
	for i, c := range comps {
		v[i] = o[c]
	}
	return v
}

// Check returns an error if any amount is negative or not finite
func (o Formula) Check() error {
	for k, v := range o {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return chk.Err("amount of component %q is invalid: %v", k, v)
		}
	}
	return nil
}

// String returns the formula with components sorted by name
func (o Formula) String() string {
	var b strings.Builder
	for _, k := range o.Names() {
		b.WriteString(k)
		if v := o[k]; v != 1 {
			b.WriteString(io.Sf("%g", v))
		}
	}
	return b.String()
}

// Equal compares two formulas within tolerance
func Equal(a, b Formula, tol float64) bool {
	for _, c := range Components(a, b) {
		if math.Abs(a[c]-b[c]) > tol {
			return false
		}
	}
	return true
}

// Components returns the sorted union of component names in all formulas
func Components(fs ...Formula) []string {
	set := make(map[string]bool)
	for _, f := range fs {
		for k := range f {
			set[k] = true
		}
	}
	comps := make([]string, 0, len(set))
	for k := range set {
		comps = append(comps, k)
	}
	sort.Strings(comps)
	return comps
}

// Mix returns the two-endpoint bulk composition f·c1 + (1-f)·c2
func Mix(f float64, c1, c2 Formula) Formula {
	m := c1.Scaled(f)
	m.Add(1-f, c2)
	return m
}
