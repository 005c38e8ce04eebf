// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encode converts static intensity patterns into spike trains for
// the input layer of a network, and makes synthetic labeled patterns for
// the command line driver.
package encode

import (
	"fmt"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/snn"
	"github.com/goki/mat32"
)

// Poisson draws independent Bernoulli spikes on every time step, with
// probability intensity * MaxRate, intensities being clipped to [0, 1].
type Poisson struct {
	Time    int        `desc:"number of time steps to encode"`
	MaxRate float32    `def:"0.25" min:"0" max:"1" desc:"probability of spiking on each step for an intensity of 1"`
	Rand    erand.Rand `view:"-" desc:"random source -- seeded for reproducible spike trains"`
}

// NewPoisson returns a Poisson encoder with its own seeded random source
func NewPoisson(time int, maxRate float32, seed int64) *Poisson {
	return &Poisson{Time: time, MaxRate: maxRate, Rand: erand.NewSysRand(seed)}
}

// Encode returns spikes shaped [Time, intensity shape...]
func (pe *Poisson) Encode(intens *etensor.Float32) (*etensor.Float32, error) {
	if pe.Time <= 0 {
		return nil, fmt.Errorf("%w: encode.Poisson: Time must be > 0, is: %d", snn.ErrConfig, pe.Time)
	}
	if pe.MaxRate < 0 || pe.MaxRate > 1 {
		return nil, fmt.Errorf("%w: encode.Poisson: MaxRate must be in [0, 1], is: %g", snn.ErrConfig, pe.MaxRate)
	}
	shp := append([]int{pe.Time}, intens.Shapes()...)
	out := etensor.NewFloat32(shp, nil, nil)
	n := intens.Len()
	for i, iv := range intens.Values {
		p := mat32.Clamp(iv, 0, 1) * pe.MaxRate
		if p == 0 {
			continue
		}
		for st := 0; st < pe.Time; st++ {
			if erand.BoolP32(p, -1, pe.Rand) {
				out.Values[st*n+i] = 1
			}
		}
	}
	return out, nil
}

// Prototypes returns nClasses random binary patterns of given shape, each
// with a proportion pOn of active elements.
func Prototypes(nClasses int, shape []int, pOn float32, rnd erand.Rand) []*etensor.Float32 {
	protos := make([]*etensor.Float32, nClasses)
	for ci := range protos {
		pt := etensor.NewFloat32(shape, nil, nil)
		for i := range pt.Values {
			if erand.BoolP32(pOn, -1, rnd) {
				pt.Values[i] = 1
			}
		}
		protos[ci] = pt
	}
	return protos
}

// Noisy returns a copy of pat with each element flipped with probability
// flip.
func Noisy(pat *etensor.Float32, flip float32, rnd erand.Rand) *etensor.Float32 {
	out := pat.Clone().(*etensor.Float32)
	for i, v := range out.Values {
		if erand.BoolP32(flip, -1, rnd) {
			out.Values[i] = 1 - v
		}
	}
	return out
}

// Bernoulli returns spikes shaped [steps, shape...], each element spiking
// independently with probability p on every step.
func Bernoulli(steps int, shape []int, p float32, rnd erand.Rand) *etensor.Float32 {
	out := etensor.NewFloat32(append([]int{steps}, shape...), nil, nil)
	for i := range out.Values {
		if erand.BoolP32(p, -1, rnd) {
			out.Values[i] = 1
		}
	}
	return out
}
