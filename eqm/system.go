// Copyright 2016 The Burnman Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqm

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/jdannberg/burnman/chem"
	"github.com/jdannberg/burnman/mdl/gibbs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// tolerances of the linear algebra in NewSystem
const (
	rankTol = 1e-10 // relative tolerance on singular values
	spanTol = 1e-9  // relative tolerance on the distance of the bulk composition to the span of formulas
)

// layout defines the positions of unknowns
//
//   u = [P, T, λ_1, ..., λ_R, n_1, x_1..., n_2, x_2..., ...]
//
//  the part after λ is the phase vector used by composition constraints
type layout struct {
	phases []gibbs.Phase // phases
	R      int           // number of independent components
	ow     []int         // offsets of n_i in the phase vector
	oe     []int         // offsets of the end-members of phase i in the end-member vector
	nw     int           // length of the phase vector
	ne     int           // length of the end-member vector
}

// newLayout returns the layout of an assemblage; R is set later
func newLayout(asm *Assemblage) *layout {
	o := new(layout)
	for _, s := range asm.Phases {
		o.phases = append(o.phases, s.Phase)
		o.ow = append(o.ow, o.nw)
		o.oe = append(o.oe, o.ne)
		o.nw += 1 + s.Phase.Ndof()
		o.ne += len(s.Phase.Endmembers())
	}
	return o
}

func (o *layout) w0() int { return 2 + o.R }
func (o *layout) nu() int { return 2 + o.R + o.nw }
func (o *layout) iN(i int) int { return 2 + o.R + o.ow[i] }
func (o *layout) ndof(i int) int { return o.phases[i].Ndof() }

// System holds the equilibrium equations of an assemblage for a given bulk composition
//
//  The bulk b and the end-member formulas A_e are projected onto an orthonormal basis Q of
//  the span of all formulas: β = Qᵀ・b and a_e = Qᵀ・A_e. The unknown λ holds the chemical
//  potentials of the R independent components; thus μ(component) = Q・λ. Equations:
//
//   constraints:    one per Spec
//   mass balance:   Σ_i n_i・ã_i(x_i) - β = 0                     with ã_i = Σ_e p_ie・a_ie
//   tangent plane:  (G_i - ã_i・λ) / Escale = 0                    for each present phase
//                   (∂G_i/∂x_j - ∂ã_i/∂x_j・λ) / Escale = 0
//
//  The tangent equations are equivalent to equal chemical potentials of every component in all
//  present phases. Absent phases keep their mass balance terms with n = 0
type System struct {
	Comps   []string      // chemical components
	Q       *mat.Dense    // orthonormal basis [ncomp][R]
	Beta    []float64     // reduced bulk composition
	A       [][][]float64 // reduced formulas of end-members A[i][e][r]
	Present []bool        // phase takes part in the tangent equations
	Pinned  []bool        // amount of phase appears in a composition constraint; it never goes extinct

	asm   *Assemblage    // assemblage
	bulk  chem.Formula   // bulk composition
	eqs   []*equation    // constraints
	lay   *layout        // layout of unknowns
	props []*gibbs.Props // properties of phases
	opts  *Options       // options
}

// NewSystem checks the input and assembles the equilibrium equations
func NewSystem(bulk chem.Formula, asm *Assemblage, specs []Spec, opts *Options) (o *System, err error) {

	// input
	if opts == nil {
		opts = NewOptions()
	}
	if asm == nil || len(asm.Phases) == 0 {
		return nil, newError(ErrIllPosed, "assemblage has no phases")
	}
	o = &System{asm: asm, bulk: bulk, opts: opts, lay: newLayout(asm)}
	for _, s := range asm.Phases {
		if len(s.X) != s.Phase.Ndof() {
			return nil, chk.Err("phase %q: length of composition %d is incorrect; %d expected", s.Phase.Name(), len(s.X), s.Phase.Ndof())
		}
		o.props = append(o.props, gibbs.NewProps(s.Phase))
	}

	// constraints
	o.eqs, err = compile(specs, o.lay, opts.Pscale)
	if err != nil {
		return nil, err
	}

	// bulk composition
	if err = bulk.Check(); err != nil {
		return nil, newError(ErrInfeasible, "%v", err)
	}
	if bulk.Atoms() == 0 {
		return nil, newError(ErrInfeasible, "bulk composition is empty")
	}
	var forms []chem.Formula
	for _, ph := range o.lay.phases {
		forms = append(forms, ph.Endmembers()...)
	}

	// reduced basis
	if err = o.basis(forms); err != nil {
		return nil, err
	}

	// structural check
	neq := len(o.eqs) + o.lay.R + o.lay.nw
	if nu := o.lay.nu(); neq != nu {
		return nil, newError(ErrIllPosed, "there are %d equations (%d constraints) and %d unknowns; %d constraints are required", neq, len(o.eqs), nu, len(o.eqs)+nu-neq)
	}

	// feasibility
	for _, c := range bulk.Names() {
		found := false
		for _, f := range forms {
			if f[c] != 0 {
				found = true
				break
			}
		}
		if !found {
			return nil, newError(ErrInfeasible, "component %q is absent from every phase", c)
		}
	}
	if err = o.feasible(); err != nil {
		return nil, err
	}

	// flags
	o.Present = make([]bool, len(o.lay.phases))
	o.Pinned = make([]bool, len(o.lay.phases))
	for i := range o.lay.phases {
		o.Present[i] = true
		for _, e := range o.eqs {
			if e.pins(i) {
				o.Pinned[i] = true
			}
		}
	}
	return
}

// basis computes Q, β and the reduced formulas
func (o *System) basis(forms []chem.Formula) error {

	// stoichiometric matrix
	o.Comps = chem.Components(append(forms, o.bulk)...)
	nc, ne := len(o.Comps), len(forms)
	S := mat.NewDense(nc, ne, nil)
	for e, f := range forms {
		for c, name := range o.Comps {
			S.Set(c, e, f[name])
		}
	}

	// orthonormal basis of the column space
	var svd mat.SVD
	if ok := svd.Factorize(S, mat.SVDThinU); !ok {
		return chk.Err("cannot compute SVD of stoichiometric matrix")
	}
	R := svd.Rank(rankTol)
	if R == 0 {
		return newError(ErrInfeasible, "formulas of phases are empty")
	}
	var U mat.Dense
	svd.UTo(&U)
	o.Q = mat.DenseCopyOf(U.Slice(0, nc, 0, R))
	o.lay.R = R

	// reduced bulk
	b := o.bulk.Vector(o.Comps)
	o.Beta = make([]float64, R)
	for r := 0; r < R; r++ {
		for c := range b {
			o.Beta[r] += o.Q.At(c, r) * b[c]
		}
	}

	// reduced formulas
	o.A = make([][][]float64, len(o.lay.phases))
	col := 0
	for i, ph := range o.lay.phases {
		nend := len(ph.Endmembers())
		o.A[i] = make([][]float64, nend)
		for e := 0; e < nend; e++ {
			o.A[i][e] = make([]float64, R)
			for r := 0; r < R; r++ {
				for c := 0; c < nc; c++ {
					o.A[i][e][r] += o.Q.At(c, r) * S.At(c, col)
				}
			}
			col++
		}
	}
	return nil
}

// feasible checks that β is a non-negative combination of the reduced formulas
func (o *System) feasible() error {
	R, ne := o.lay.R, o.lay.ne
	Amat := mat.NewDense(R, ne, nil)
	col := 0
	for i := range o.A {
		for _, a := range o.A[i] {
			Amat.SetCol(col, a)
			col++
		}
	}

	// span
	b := o.bulk.Vector(o.Comps)
	bmax := floats.Norm(b, math.Inf(1))
	for c := range b {
		var v float64
		for r := 0; r < R; r++ {
			v += o.Q.At(c, r) * o.Beta[r]
		}
		if math.Abs(b[c]-v) > spanTol*math.Max(1, bmax) {
			return newError(ErrInfeasible, "bulk composition %v is not a combination of the formulas of phases", o.bulk)
		}
	}
	beta := append([]float64{}, o.Beta...)
	infeasible := newError(ErrInfeasible, "bulk composition %v is not a non-negative combination of the formulas of phases", o.bulk)

	// square: unique combination
	if R == ne {
		var y mat.VecDense
		if err := y.SolveVec(Amat, mat.NewVecDense(R, beta)); err != nil {
			return nil
		}
		ymax := floats.Norm(y.RawVector().Data, math.Inf(1))
		for _, v := range y.RawVector().Data {
			if v < -spanTol*math.Max(1, ymax) {
				return infeasible
			}
		}
		return nil
	}

	// linear program with zero cost
	_, _, err := lp.Simplex(make([]float64, ne), Amat, beta, 1e-10, nil)
	if errors.Is(err, lp.ErrInfeasible) {
		return infeasible
	}
	return nil
}

// reduced computes ã = Σ_e p_e・a_e and ∂ã/∂x_j = Σ_e B_ej・a_e for phase i
func (o *System) reduced(at []float64, dat [][]float64, i int, x []float64) {
	p0, B := o.lay.phases[i].Basis()
	for r := range at {
		at[r] = 0
	}
	for j := range dat {
		for r := range dat[j] {
			dat[j][r] = 0
		}
	}
	for e, a := range o.A[i] {
		pe := p0[e]
		for j, xj := range x {
			pe += B[e][j] * xj
		}
		for r, ar := range a {
			at[r] += pe * ar
			for j := range dat {
				dat[j][r] += B[e][j] * ar
			}
		}
	}
}

// alloc allocates ã and ∂ã/∂x for phase i
func (o *System) alloc(i int) (at []float64, dat [][]float64) {
	at = make([]float64, o.lay.R)
	dat = make([][]float64, o.lay.ndof(i))
	for j := range dat {
		dat[j] = make([]float64, o.lay.R)
	}
	return
}

// eval computes the residual r and the Jacobian J (if not nil) at u.
//  Tangent rows of absent phases are left as zero
func (o *System) eval(r []float64, J *mat.Dense, u []float64) (err error) {

	// auxiliary
	lay, R, es := o.lay, o.lay.R, o.opts.Escale
	P, T, λ := u[0], u[1], u[2:2+R]
	for k := range r {
		r[k] = 0
	}
	var grad []float64
	if J != nil {
		J.Zero()
		grad = make([]float64, len(u))
	}

	// constraints
	row := 0
	for _, e := range o.eqs {
		if J == nil {
			r[row] = e.residual(u, nil)
		} else {
			for k := range grad {
				grad[k] = 0
			}
			r[row] = e.residual(u, grad)
			J.SetRow(row, grad)
		}
		row++
	}

	// mass balance
	mb := row
	for q := 0; q < R; q++ {
		r[mb+q] = -o.Beta[q]
	}
	row += R

	// phases
	for i, ph := range lay.phases {
		k := ph.Ndof()
		iN := lay.iN(i)
		n, x := u[iN], u[iN+1:iN+1+k]
		at, dat := o.alloc(i)
		o.reduced(at, dat, i, x)
		for q := 0; q < R; q++ {
			r[mb+q] += n * at[q]
			if J != nil {
				J.Set(mb+q, iN, at[q])
				for j := 0; j < k; j++ {
					J.Set(mb+q, iN+1+j, n*dat[j][q])
				}
			}
		}
		if !o.Present[i] {
			row += 1 + k
			continue
		}

		// tangent plane
		res := o.props[i]
		err = ph.Calc(res, P, T, x)
		if err != nil {
			return
		}
		r[row] = (res.G - floats.Dot(at, λ)) / es
		if J != nil {
			J.Set(row, 0, res.GP/es)
			J.Set(row, 1, res.GT/es)
			for q := 0; q < R; q++ {
				J.Set(row, 2+q, -at[q]/es)
			}
		}
		for j := 0; j < k; j++ {
			rj := row + 1 + j
			gj := (res.Gx[j] - floats.Dot(dat[j], λ)) / es
			r[rj] = gj
			if J != nil {
				J.Set(row, iN+1+j, gj)
				J.Set(rj, 0, res.GxP[j]/es)
				J.Set(rj, 1, res.GxT[j]/es)
				for q := 0; q < R; q++ {
					J.Set(rj, 2+q, -dat[j][q]/es)
				}
				for l := 0; l < k; l++ {
					J.Set(rj, iN+1+l, res.Gxx[j][l]/es)
				}
			}
		}
		row += 1 + k
	}
	return
}

// active returns the indices of active equations and unknowns
func (o *System) active() (rows, cols []int) {
	nc, R := len(o.eqs), o.lay.R
	for k := 0; k < nc+R; k++ {
		rows = append(rows, k)
	}
	for k := 0; k < 2+R; k++ {
		cols = append(cols, k)
	}
	for i := range o.lay.phases {
		if !o.Present[i] {
			continue
		}
		for j := 0; j <= o.lay.ndof(i); j++ {
			rows = append(rows, nc+R+o.lay.ow[i]+j)
			cols = append(cols, o.lay.iN(i)+j)
		}
	}
	return
}

// scales returns the scale of each unknown; Newton works with z = u / scale
func (o *System) scales() []float64 {
	s := make([]float64, o.lay.nu())
	for k := range s {
		s[k] = 1
	}
	s[0] = o.opts.Pscale
	for q := 0; q < o.lay.R; q++ {
		s[2+q] = o.opts.Escale
	}
	return s
}

// Size returns the number of unknowns
func (o *System) Size() int { return o.lay.nu() }

// Residual returns the residual vector at u
func (o *System) Residual(u []float64) (r []float64, err error) {
	r = make([]float64, o.lay.nu())
	err = o.eval(r, nil, u)
	return
}

// Jacobian returns the Jacobian matrix at u
func (o *System) Jacobian(u []float64) (J *mat.Dense, err error) {
	n := o.lay.nu()
	J = mat.NewDense(n, n, nil)
	err = o.eval(make([]float64, n), J, u)
	return
}

// Potentials returns the chemical potentials of components at u
//  μ = Q・λ is the minimum-norm solution when the formulas do not span all components
func (o *System) Potentials(u []float64) map[string]float64 {
	mu := make(map[string]float64)
	for c, name := range o.Comps {
		var v float64
		for r := 0; r < o.lay.R; r++ {
			v += o.Q.At(c, r) * u[2+r]
		}
		mu[name] = v
	}
	return mu
}
