// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import "github.com/emer/emergent/etime"

// ExecutionContext holds the numeric backend and the timing state for
// running a network.  It is created once by the caller and passed to
// NewNetwork or Topology.Build -- nothing is looked up from global state.
type ExecutionContext struct {
	Backend Backend     `desc:"numeric backend used for per-layer and per-connection vector operations"`
	Mode    etime.Modes `desc:"current evaluation mode: Train enables plasticity and threshold adaptation, Test disables them"`
	Step    int         `desc:"time step counter within the current presentation (Run call), from 0 to steps-1"`
	StepTot int         `desc:"total number of time steps since last Reset"`
	Time    float32     `desc:"accumulated simulation time since last Reset, in Dt units"`
	Runs    int         `desc:"number of completed Run calls (presentations) since last Reset"`
}

// NewContext returns a new ExecutionContext with given backend
// (nil = SerialBackend), in training mode.
func NewContext(be Backend) *ExecutionContext {
	if be == nil {
		be = &SerialBackend{}
	}
	return &ExecutionContext{Backend: be, Mode: etime.Train}
}

// Reset resets the counters all back to zero
func (ctx *ExecutionContext) Reset() {
	ctx.Step = 0
	ctx.StepTot = 0
	ctx.Time = 0
	ctx.Runs = 0
}

// RunStart starts a new presentation
func (ctx *ExecutionContext) RunStart() {
	ctx.Step = 0
}

// StepInc increments at the time step level
func (ctx *ExecutionContext) StepInc(dt float32) {
	ctx.Step++
	ctx.StepTot++
	ctx.Time += dt
}

// IsTraining returns true if plasticity is enabled
func (ctx *ExecutionContext) IsTraining() bool {
	return ctx.Mode == etime.Train
}
