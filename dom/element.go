// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dom holds the model (nodes, elements, constraints and loads) driven by the solvers
package dom

import (
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
)

// State holds the values of all DOFs
type State struct {
	T float64   // current time or load factor
	U []float64 // [ndof] displacements
	V []float64 // [ndof] velocities
	A []float64 // [ndof] accelerations
}

// CopyFrom copies all values from src
func (o *State) CopyFrom(src *State) {
	o.T = src.T
	o.U = append(o.U[:0], src.U...)
	o.V = append(o.V[:0], src.V...)
	o.A = append(o.A[:0], src.A...)
}

// grow appends n zero values to all vectors
func (o *State) grow(n int) {
	z := make([]float64, n)
	o.U = append(o.U, z...)
	o.V = append(o.V, z...)
	o.A = append(o.A, z...)
}

// Element defines what elements must calculate. Matrices and vectors follow the order of Dofs
type Element interface {
	Id() int                               // returns the element Id
	Nodes() []int                          // nodes (DOF groups) connected by this element
	Dofs() []int                           // DOFs of all nodes of this element
	Tangent(K *la.Matrix, st *State) error // computes the tangent stiffness
	Residual(f []float64, st *State) error // computes the internal (resisting) forces
	Update(st *State) error                // updates internal variables after the DOFs changed
	Commit() error                         // accepts the current internal variables
	Revert() error                         // goes back to the last committed internal variables
}

// Massive defines elements with inertia
type Massive interface {
	Mass(M *la.Matrix) error
}

// Damped defines elements with viscous damping
type Damped interface {
	Damping(C *la.Matrix, st *State) error
}

// Node is a group of DOFs
type Node struct {
	Id   int
	Dofs []int
}

// LoadPattern holds nodal loads scaled by a function of time (or load factor).
// The load is F(t)⋅P and its derivative is G(t)⋅P. A nil Func means F(t) = t
type LoadPattern struct {
	Name string    // name of pattern
	Func dbf.T     // scaling function
	Dofs []int     // loaded DOFs
	Vals []float64 // reference values
}

// Factor returns F(t)
func (o *LoadPattern) Factor(t float64) float64 {
	if o.Func == nil {
		return t
	}
	return o.Func.F(t, nil)
}

// Rate returns dF/dt
func (o *LoadPattern) Rate(t float64) float64 {
	if o.Func == nil {
		return 1
	}
	return o.Func.G(t, nil)
}
