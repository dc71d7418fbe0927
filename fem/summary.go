// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/xcfem/xc-sub035/inp"
)

// StepData holds data of one committed step
type StepData struct {
	Index   int     // step number (starts at 1)
	Lambda  float64 // load factor or time
	Incr    float64 // increment used
	Iters   int     // number of iterations
	Resid   float64 // norm of unbalance after last iteration
	Status  int     // status code
	Retries int     // number of retries with smaller increments
}

// Summary records summary of outputs
type Summary struct {
	Steps  []StepData     // committed steps
	Resids utl.SerialList // norms of the convergence test of each step (if Stat is on)
	Dirout string         // directory where results are stored
	Fnkey  string         // filename key of simulation
}

// Save saves summary to dir/fnkey_sum.enctype
func (o *Summary) Save(dir, fnkey, enctype string, verbose bool) (fn string, err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := inp.GetEncoder(&buf, enctype)

	// encode summary
	err = enc.Encode(o)
	if err != nil {
		return "", chk.Err("cannot encode summary\n%v", err)
	}

	// save file
	if err = os.MkdirAll(dir, 0777); err != nil {
		return "", chk.Err("cannot create directory %q:\n%v", dir, err)
	}
	fn = outSumPath(dir, fnkey, enctype)
	err = inp.SaveFile(fn, &buf, verbose)
	return
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fil, err := os.Open(outSumPath(dir, fnkey, enctype))
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()

	// decode summary
	o = new(Summary)
	dec := inp.GetDecoder(fil, enctype)
	err = dec.Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary\n%v", err)
	}
	return
}

// Lambdas returns the load factors (or times) of all steps
func (o *Summary) Lambdas() (res []float64) {
	res = make([]float64, len(o.Steps))
	for i, s := range o.Steps {
		res[i] = s.Lambda
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func outSumPath(dir, fnkey, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}
