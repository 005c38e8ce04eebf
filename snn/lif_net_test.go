// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"testing"

	"github.com/emer/etable/etensor"
)

func TestLIFTopology(t *testing.T) {
	steps := 250
	inp := etensor.NewFloat32([]int{steps, 1}, nil, nil)
	for i := range inp.Values {
		inp.Values[i] = 1
	}
	run := func(wtMean float64) (float32, float32) {
		nt, err := NewLIFTopology(steps, wtMean, 1).Build(nil)
		if err != nil {
			t.Fatal(err)
		}
		cn := nt.ConnByName(LIFInput, LIFOutput)
		if w := cn.Wt(0, 0); w < -1 || w > 1 {
			t.Errorf("weight out of [-1, 1]: %v\n", w)
		}
		if err := nt.Run(map[string]*etensor.Float32{LIFInput: inp}, steps); err != nil {
			t.Fatal(err)
		}
		aspk, err := nt.MonitorByName(LIFInput).Get("Spike")
		if err != nil {
			t.Fatal(err)
		}
		bspk, err := nt.MonitorByName(LIFOutput).Get("Spike")
		if err != nil {
			t.Fatal(err)
		}
		if vm, err := nt.MonitorByName(LIFOutput).Get("Vm"); err != nil || vm.Dim(0) != steps {
			t.Errorf("B Vm not recorded for every step: %v\n", err)
		}
		return sumVals(aspk), sumVals(bspk)
	}
	a, b := run(1)
	if a != float32(steps) {
		t.Errorf("A spikes: %v != %v\n", a, steps)
	}
	if b == 0 {
		t.Errorf("B never spiked with a positive weight\n")
	}
	if _, b = run(-1); b != 0 {
		t.Errorf("B spiked %v times with a negative weight\n", b)
	}

	w1, _ := NewLIFTopology(steps, 0.05, 3).Build(nil)
	w2, _ := NewLIFTopology(steps, 0.05, 3).Build(nil)
	if w1.ConnByName(LIFInput, LIFOutput).Wt(0, 0) != w2.ConnByName(LIFInput, LIFOutput).Wt(0, 0) {
		t.Errorf("same seed gave different weights\n")
	}
}
