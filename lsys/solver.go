// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Solver defines the storage and factorisation of A
type Solver interface {
	Name() string
	Alloc(st *Structure) error   // allocates storage for the given structure
	Zero()                       // sets A = 0
	Add(i, j int, v float64)     // A[i][j] += v
	Factorize() error            // factorises A
	Solve(x, b []float64) error  // solves A⋅x = b using the factorisation
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func() Solver)

// NewSolver returns a solver by name
func NewSolver(name string) (Solver, error) {
	if alloc, ok := solverallocators[name]; ok {
		return alloc(), nil
	}
	return nil, chk.Err("cannot find linear solver named %q. options are %v", name, Backends())
}

// Backends returns the names of all available solvers
func Backends() (names []string) {
	for name := range solverallocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
