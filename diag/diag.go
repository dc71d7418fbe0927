// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package diag implements sinks for diagnostic messages issued by the solution engine
package diag

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/cpmech/gosl/io"
	slogmulti "github.com/samber/slog-multi"
)

// Sink receives diagnostic messages. Components hold a Sink instead of writing to a global stream
type Sink interface {
	Infof(msg string, prm ...interface{})
	Warnf(msg string, prm ...interface{})
}

// Or returns s or a sink that discards everything if s is nil
func Or(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Nop discards all messages
type Nop struct{}

func (Nop) Infof(msg string, prm ...interface{}) {}
func (Nop) Warnf(msg string, prm ...interface{}) {}

// Console prints messages to standard output. Info messages are printed only if Verbose is set
type Console struct {
	Verbose bool
}

// Infof prints an informative message
func (o Console) Infof(msg string, prm ...interface{}) {
	if o.Verbose {
		io.Pf(msg+"\n", prm...)
	}
}

// Warnf prints a warning in red
func (o Console) Warnf(msg string, prm ...interface{}) {
	io.Pfred(msg+"\n", prm...)
}

// Buffer collects messages in memory
type Buffer struct {
	Buf   bytes.Buffer
	Nwarn int // number of warnings
}

// Infof records an informative message
func (o *Buffer) Infof(msg string, prm ...interface{}) {
	io.Ff(&o.Buf, "info: "+msg+"\n", prm...)
}

// Warnf records a warning
func (o *Buffer) Warnf(msg string, prm ...interface{}) {
	io.Ff(&o.Buf, "warning: "+msg+"\n", prm...)
	o.Nwarn++
}

// String returns all recorded messages
func (o *Buffer) String() string {
	return o.Buf.String()
}

// Slog forwards messages to a structured logger
type Slog struct {
	Logger *slog.Logger
}

// NewSlog returns a sink that fans out to all given handlers
func NewSlog(handlers ...slog.Handler) *Slog {
	return &Slog{Logger: slog.New(slogmulti.Fanout(handlers...))}
}

// Infof logs with level INFO
func (o *Slog) Infof(msg string, prm ...interface{}) {
	o.Logger.Log(context.Background(), slog.LevelInfo, fmt.Sprintf(msg, prm...))
}

// Warnf logs with level WARN
func (o *Slog) Warnf(msg string, prm ...interface{}) {
	o.Logger.Log(context.Background(), slog.LevelWarn, fmt.Sprintf(msg, prm...))
}
