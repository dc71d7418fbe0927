// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"github.com/cpmech/gosl/la"
)

// Arena keeps local matrices and vectors for reuse across entities and iterations.
// Buffers are keyed by size and slot; a buffer is valid until the next request with the same key
type Arena struct {
	mats map[[2]int]*la.Matrix
	vecs map[[2]int]la.Vector
}

// Matrix returns a zeroed n×n matrix
func (o *Arena) Matrix(n, slot int) (M *la.Matrix) {
	if o.mats == nil {
		o.mats = make(map[[2]int]*la.Matrix)
	}
	key := [2]int{n, slot}
	M, ok := o.mats[key]
	if !ok {
		M = la.NewMatrix(n, n)
		o.mats[key] = M
		return
	}
	for k := range M.Data {
		M.Data[k] = 0
	}
	return
}

// Vector returns a zeroed vector of length n
func (o *Arena) Vector(n, slot int) (v la.Vector) {
	if o.vecs == nil {
		o.vecs = make(map[[2]int]la.Vector)
	}
	key := [2]int{n, slot}
	v, ok := o.vecs[key]
	if !ok {
		v = la.NewVector(n)
		o.vecs[key] = v
		return
	}
	v.Fill(0)
	return
}
