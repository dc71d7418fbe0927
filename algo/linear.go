// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algo

// Linear forms and solves the system once per increment
type Linear struct {
	base
}

// set factory
func init() {
	allocators["linear"] = func(cfg *Config, b base) (Algorithm, error) {
		return &Linear{b}, nil
	}
}

// SolveStep forms the tangent and the unbalance, solves and updates. The unbalance is formed
// again after the update for ResidualNorm
func (o *Linear) SolveStep() (status int) {
	if status = o.ready(); status != Success {
		return
	}
	o.nit = 1
	if err := o.it.FormTangent(); err != nil {
		return o.failed(err)
	}
	if status = o.unbalance(); status != Success {
		return
	}
	if status = o.solve(); status != Success {
		return
	}
	if err := o.it.Update(o.sys.X()); err != nil {
		return o.failed(err)
	}
	return o.unbalance()
}
