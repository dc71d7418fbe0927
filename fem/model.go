// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/xcfem/xc-sub035/ana"
	"github.com/xcfem/xc-sub035/dom"
	"github.com/xcfem/xc-sub035/inp"
)

// NewModel builds the verification model described in the simulation data
//  springs    -- "k" (one per spring)
//  cubic      -- "k" and "k3"
//  vonmises   -- "EA", "a" and "h"
//  oscillator -- "m", "c" and "k"
func NewModel(sim *inp.Simulation) (d *dom.Domain, err error) {

	// load function
	md := &sim.Model
	fcn, err := sim.Functions.Get(md.Func)
	if err != nil {
		return
	}
	P := md.Load
	if P == 0 {
		P = 1
	}

	// model
	switch md.Type {
	case "springs":
		var ks []float64
		for _, p := range md.Prms {
			if strings.ToLower(p.N) != "k" {
				return nil, chk.Err("springs: parameter named %q is incorrect\n", p.N)
			}
			ks = append(ks, p.V)
		}
		if len(ks) == 0 {
			return nil, chk.Err("springs: at least one \"k\" is required")
		}
		d, err = ana.SpringChain(ks, P)
	case "cubic":
		var k, k3 float64
		if k, k3, _, err = values(md.Prms, "k", "k3", ""); err != nil {
			return
		}
		d, err = ana.CubicBar(k, k3, P)
	case "vonmises":
		d, _, err = ana.VonMisesTruss(md.Prms)
		if err == nil {
			d.Patterns[0].Vals[0] = P
		}
	case "oscillator":
		var m, c, k float64
		if m, c, k, err = values(md.Prms, "m", "c", "k"); err != nil {
			return
		}
		d, err = ana.Oscillator(m, c, k, P, fcn)
	default:
		return nil, chk.Err("cannot find model named %q. options are [cubic oscillator springs vonmises]", md.Type)
	}
	if err != nil {
		return nil, err
	}

	// function for static models
	if fcn != nil {
		for _, p := range d.Patterns {
			p.Func = fcn
		}
	}
	return
}

// values returns the values of up to three parameters; missing ones are zero
func values(prms dbf.Params, n1, n2, n3 string) (v1, v2, v3 float64, err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case strings.ToLower(n1):
			v1 = p.V
		case strings.ToLower(n2):
			v2 = p.V
		case strings.ToLower(n3):
			if n3 != "" {
				v3 = p.V
				continue
			}
			fallthrough
		default:
			return 0, 0, 0, chk.Err("parameter named %q is incorrect\n", p.N)
		}
	}
	return
}
