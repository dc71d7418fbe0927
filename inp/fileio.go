// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Encode encodes the scalar configuration: global data, linear solver and solver data
func (o *Simulation) Encode(enc Encoder) (err error) {
	err = enc.Encode(o.Data)
	if err != nil {
		return chk.Err("cannot encode Simulation.Data\n%v", err)
	}
	err = enc.Encode(o.LinSol)
	if err != nil {
		return chk.Err("cannot encode Simulation.LinSol\n%v", err)
	}
	err = enc.Encode(o.Solver)
	if err != nil {
		return chk.Err("cannot encode Simulation.Solver\n%v", err)
	}
	return
}

// Decode decodes the scalar configuration written by Encode
func (o *Simulation) Decode(dec Decoder) (err error) {
	err = dec.Decode(&o.Data)
	if err != nil {
		return chk.Err("cannot decode Simulation.Data\n%v", err)
	}
	err = dec.Decode(&o.LinSol)
	if err != nil {
		return chk.Err("cannot decode Simulation.LinSol\n%v", err)
	}
	err = dec.Decode(&o.Solver)
	if err != nil {
		return chk.Err("cannot decode Simulation.Solver\n%v", err)
	}
	return
}

// SaveConfig saves the scalar configuration to dir/key_cfg.enctype
func (o *Simulation) SaveConfig(dir, key, enctype string) (fn string, err error) {
	var buf bytes.Buffer
	if err = o.Encode(GetEncoder(&buf, enctype)); err != nil {
		return
	}
	if err = os.MkdirAll(dir, 0777); err != nil {
		return "", chk.Err("cannot create directory %q:\n%v", dir, err)
	}
	fn = CfgPath(dir, key, enctype)
	err = SaveFile(fn, &buf, false)
	return
}

// ReadConfig reads a configuration saved by SaveConfig
func ReadConfig(dir, key, enctype string) (o *Simulation, err error) {
	fil, err := os.Open(CfgPath(dir, key, enctype))
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	o = new(Simulation)
	if err = o.Decode(GetDecoder(fil, enctype)); err != nil {
		return nil, err
	}
	o.Key = key
	o.DirOut = dir
	o.EncType = enctype
	return
}

// CfgPath returns the path of configuration file
func CfgPath(dir, key, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_cfg.%s", key, enctype))
}

// SaveFile writes buf to filename
func SaveFile(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
