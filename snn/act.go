// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the spiking dynamics params and functions

// NumericWarnRate is the largest dt / tau ratio that is considered small
// enough for explicit Euler integration.  Larger ratios are logged as a
// warning at Build time but are not an error.
const NumericWarnRate = 0.1

//////////////////////////////////////////////////////////////////////////////////////
//  LIFParams

// LIFParams are the leaky integrate-and-fire membrane parameters.
// All potentials are in mV and times in the same units as the network Dt
// (typically msec).  Update must be called with the network Dt after any
// change, to compute the derived per-step rates.
type LIFParams struct {
	Rest    float32 `def:"-65" desc:"resting membrane potential: Vm decays toward this value, and is initialized to it"`
	Reset   float32 `def:"-60" desc:"membrane potential immediately after a spike"`
	Thr     float32 `def:"-52" desc:"spiking threshold: a spike is emitted when Vm >= Thr (+ Theta for adaptive neurons)"`
	TcDecay float32 `def:"100" min:"0" desc:"membrane time constant: how quickly Vm decays back toward Rest"`
	Refract float32 `def:"5" min:"0" desc:"refractory period after a spike, during which the neuron cannot spike again"`

	DecayDt      float32 `view:"-" json:"-" xml:"-" desc:"rate = Dt / TcDecay"`
	RefractSteps int32   `view:"-" json:"-" xml:"-" desc:"Refract / Dt, rounded, in time steps"`
}

func (lp *LIFParams) Defaults() {
	lp.Rest = -65
	lp.Reset = -60
	lp.Thr = -52
	lp.TcDecay = 100
	lp.Refract = 5
	lp.Update(1)
}

// Update computes the derived rates for given integration time step
func (lp *LIFParams) Update(dt float32) {
	if lp.TcDecay > 0 {
		lp.DecayDt = dt / lp.TcDecay
	}
	if dt > 0 {
		lp.RefractSteps = int32(mat32.Round(lp.Refract / dt))
	}
}

// Validate checks that the parameters are physiologically consistent:
// Rest and Reset must be below threshold, and the time constants
// positive.
func (lp *LIFParams) Validate() error {
	switch {
	case lp.TcDecay <= 0:
		return configErr("LIFParams: TcDecay must be > 0, is: %g", lp.TcDecay)
	case lp.Refract < 0:
		return configErr("LIFParams: Refract must be >= 0, is: %g", lp.Refract)
	case lp.Reset >= lp.Thr:
		return configErr("LIFParams: Reset: %g must be below Thr: %g", lp.Reset, lp.Thr)
	case lp.Rest >= lp.Thr:
		return configErr("LIFParams: Rest: %g must be below Thr: %g", lp.Rest, lp.Thr)
	}
	return nil
}

// InitActs initializes the transient state of the neuron to baseline:
// Vm at Rest, with no spike, input or refractory count.
func (lp *LIFParams) InitActs(nrn *Neuron) {
	nrn.Vm = lp.Rest
	nrn.Spike = 0
	nrn.Ge = 0
	nrn.Refract = 0
}

// VmFromGe runs one explicit Euler step of the membrane equation
// with input current ge:  Vm += DecayDt * (Rest - Vm) + ge,
// and returns true if the neuron spikes against threshold thr.
// A spiking neuron is reset and enters its refractory period.
// A refractory neuron only counts down, and never spikes.
func (lp *LIFParams) VmFromGe(nrn *Neuron, ge, thr float32) bool {
	if nrn.Refract > 0 {
		nrn.Refract--
		nrn.Spike = 0
		return false
	}
	nrn.Vm += lp.DecayDt*(lp.Rest-nrn.Vm) + ge
	if nrn.Vm >= thr {
		nrn.Spike = 1
		nrn.Vm = lp.Reset
		nrn.Refract = lp.RefractSteps
		return true
	}
	nrn.Spike = 0
	return false
}

//////////////////////////////////////////////////////////////////////////////////////
//  AdaptParams

// AdaptParams are the adaptive threshold parameters for AdaptLIFNeurons:
// each spike increments Theta, which decays toward 0, so neurons that win
// too often become harder to drive.  Adaptation only runs while the network
// is in training mode.
type AdaptParams struct {
	ThetaPlus    float32 `def:"0.05" min:"0" desc:"amount Theta increases on each spike"`
	TcThetaDecay float32 `def:"1e7" min:"0" desc:"time constant of Theta decay back toward 0 -- typically very slow"`
	OneSpike     bool    `desc:"at most one neuron of the layer spikes on each step: one chosen at random among those that cross threshold -- all of those are still reset, made refractory and have Theta incremented"`

	ThetaDt float32 `view:"-" json:"-" xml:"-" desc:"rate = Dt / TcThetaDecay"`
}

func (ap *AdaptParams) Defaults() {
	ap.ThetaPlus = 0.05
	ap.TcThetaDecay = 1e7
	ap.Update(1)
}

func (ap *AdaptParams) Update(dt float32) {
	if ap.TcThetaDecay > 0 {
		ap.ThetaDt = dt / ap.TcThetaDecay
	}
}

func (ap *AdaptParams) Validate() error {
	if ap.TcThetaDecay <= 0 {
		return configErr("AdaptParams: TcThetaDecay must be > 0, is: %g", ap.TcThetaDecay)
	}
	if ap.ThetaPlus < 0 {
		return configErr("AdaptParams: ThetaPlus must be >= 0, is: %g", ap.ThetaPlus)
	}
	return nil
}

// ThetaFromSpike decays Theta and increments it if the neuron spiked
func (ap *AdaptParams) ThetaFromSpike(nrn *Neuron) {
	nrn.Theta -= ap.ThetaDt * nrn.Theta
	if nrn.Spike > 0 {
		nrn.Theta += ap.ThetaPlus
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  TraceParams

// TraceParams control the exponentially decaying spike trace used by STDP
type TraceParams struct {
	On bool    `desc:"compute spike traces for this layer -- required on both sides of a plastic connection"`
	Tc float32 `viewif:"On" def:"20" min:"0" desc:"time constant of trace decay"`

	Decay float32 `view:"-" json:"-" xml:"-" desc:"per-step multiplicative decay = exp(-Dt / Tc)"`
}

func (tp *TraceParams) Defaults() {
	tp.On = true
	tp.Tc = 20
	tp.Update(1)
}

func (tp *TraceParams) Update(dt float32) {
	if tp.Tc > 0 {
		tp.Decay = mat32.Exp(-dt / tp.Tc)
	}
}

func (tp *TraceParams) Validate() error {
	if tp.On && tp.Tc <= 0 {
		return configErr("TraceParams: Tc must be > 0, is: %g", tp.Tc)
	}
	return nil
}

// TraceFromSpike decays the trace and adds the current spike
func (tp *TraceParams) TraceFromSpike(nrn *Neuron) {
	nrn.Trace = nrn.Trace*tp.Decay + nrn.Spike
}
