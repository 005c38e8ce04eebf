// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"errors"
	"strings"
	"testing"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
)

// makeTestNet makes an input layer A of one neuron driving one LIF neuron B
// through a fixed weight of 1, with monitors on both
func makeTestNet(t *testing.T) *Network {
	nt := NewNetwork("TestNet", 1, NewContext(nil))
	a, err := nt.AddLayer("A", 1, nil, InputNeurons)
	if err != nil {
		t.Fatal(err)
	}
	b, err := nt.AddLayer("B", 1, nil, LIFNeurons)
	if err != nil {
		t.Fatal(err)
	}
	cn, err := nt.ConnectLayers(a, b, prjn.NewFull(), ForwardConn)
	if err != nil {
		t.Fatal(err)
	}
	cn.WtInit.Dist = erand.Mean
	cn.WtInit.Mean = 1
	cn.WtRange.Set(0, 2)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if _, err := nt.AddLayerMonitor("A", "A", []string{"Spike"}, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := nt.AddLayerMonitor("B", "B", []string{"Spike", "Vm"}, 0); err != nil {
		t.Fatal(err)
	}
	return nt
}

func constInput(steps, n int, val float32) *etensor.Float32 {
	tsr := etensor.NewFloat32([]int{steps, n}, nil, nil)
	for i := range tsr.Values {
		tsr.Values[i] = val
	}
	return tsr
}

func sumVals(tsr *etensor.Float32) float32 {
	sum := float32(0)
	for _, v := range tsr.Values {
		sum += v
	}
	return sum
}

func TestNetRunConstant(t *testing.T) {
	nt := makeTestNet(t)
	err := nt.Run(map[string]*etensor.Float32{"A": constInput(250, 1, 1)}, 250)
	if err != nil {
		t.Fatal(err)
	}
	if nt.State != Done {
		t.Errorf("state after Run: %v\n", nt.State)
	}
	spk, _ := nt.MonitorByName("B").Get("Spike")
	if spk.Dim(0) != 250 {
		t.Errorf("monitor rows: %v != 250\n", spk.Dim(0))
	}
	if n := sumVals(spk); n != 17 {
		t.Errorf("number of spikes: %v != 17\n", n)
	}
	// input spikes at step t drive the receiver at step t
	if spk.Values[13] != 1 || spk.Values[12] != 0 {
		t.Errorf("first spike should be at step 13\n")
	}
	if nt.Ctx.StepTot != 250 || nt.Ctx.Runs != 1 {
		t.Errorf("counters: StepTot: %v Runs: %v\n", nt.Ctx.StepTot, nt.Ctx.Runs)
	}
}

func TestNetZeroInput(t *testing.T) {
	nt := makeTestNet(t)
	if err := nt.Run(map[string]*etensor.Float32{"A": constInput(50, 1, 0)}, 50); err != nil {
		t.Fatal(err)
	}
	vm, _ := nt.MonitorByName("B").Get("Vm")
	for i, v := range vm.Values {
		if v != -65 {
			t.Fatalf("step %v: Vm: %v should stay at rest\n", i, v)
		}
	}
	// no inputs at all is the same as zero inputs
	nt.ResetStateVars()
	if err := nt.Run(nil, 50); err != nil {
		t.Fatal(err)
	}
	spk, _ := nt.MonitorByName("B").Get("Spike")
	if sumVals(spk) != 0 {
		t.Errorf("spikes with no input\n")
	}
}

func TestNetResetStateVars(t *testing.T) {
	nt := makeTestNet(t)
	nt.Run(map[string]*etensor.Float32{"A": constInput(20, 1, 1)}, 20)
	b := nt.LayerByName("B")
	if b.Neurons[0].Vm == -65 {
		t.Errorf("Vm should have moved from rest\n")
	}
	b.Neurons[0].Theta = 0.3
	wt := nt.ConnByName("A", "B").Wt(0, 0)
	if err := nt.ResetStateVars(); err != nil {
		t.Fatal(err)
	}
	nrn := &b.Neurons[0]
	if nrn.Vm != -65 || nrn.Spike != 0 || nrn.Trace != 0 || nrn.Refract != 0 || nrn.Ge != 0 {
		t.Errorf("state after reset: %+v\n", *nrn)
	}
	if nrn.Theta != 0.3 {
		t.Errorf("Theta should persist across reset: %v\n", nrn.Theta)
	}
	if nt.ConnByName("A", "B").Wt(0, 0) != wt {
		t.Errorf("weights changed by reset\n")
	}
	if nt.MonitorByName("B").NRows != 0 {
		t.Errorf("monitor history not cleared\n")
	}
	if nt.State != Idle {
		t.Errorf("state after reset: %v\n", nt.State)
	}
}

func TestNetRunErrors(t *testing.T) {
	nt := makeTestNet(t)
	cases := []struct {
		inputs map[string]*etensor.Float32
		steps  int
		err    error
	}{
		{map[string]*etensor.Float32{"C": constInput(10, 1, 1)}, 10, ErrConfig},
		{map[string]*etensor.Float32{"B": constInput(10, 1, 1)}, 10, ErrConfig},
		{map[string]*etensor.Float32{"A": constInput(9, 1, 1)}, 10, ErrRuntimeState},
		{map[string]*etensor.Float32{"A": constInput(10, 2, 1)}, 10, ErrConfig},
		{nil, 0, ErrConfig},
	}
	for i, cs := range cases {
		err := nt.Run(cs.inputs, cs.steps)
		if !errors.Is(err, cs.err) {
			t.Errorf("case %v: expected: %v, got: %v\n", i, cs.err, err)
		}
	}
	if nt.Ctx.StepTot != 0 || nt.MonitorByName("A").NRows != 0 || nt.State != Idle {
		t.Errorf("failed runs changed state\n")
	}

	unbuilt := NewNetwork("Unbuilt", 1, nil)
	if err := unbuilt.Run(nil, 10); !errors.Is(err, ErrRuntimeState) {
		t.Errorf("run before build: expected ErrRuntimeState, got: %v\n", err)
	}
}

func TestNetResetDuringRun(t *testing.T) {
	nt := makeTestNet(t)
	var herr error
	nhook := 0
	nt.StepHooks = append(nt.StepHooks, func(net *Network) {
		nhook++
		if net.Ctx.Step == 2 {
			herr = net.ResetStateVars()
		}
	})
	runs := 0
	nt.RunHooks = append(nt.RunHooks, func(net *Network) { runs++ })
	if err := nt.Run(nil, 5); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(herr, ErrRuntimeState) {
		t.Errorf("reset during run: expected ErrRuntimeState, got: %v\n", herr)
	}
	if nhook != 5 || runs != 1 {
		t.Errorf("hooks: step: %v run: %v\n", nhook, runs)
	}
	if nt.MonitorByName("B").NRows != 5 {
		t.Errorf("monitor rows: %v != 5\n", nt.MonitorByName("B").NRows)
	}
}

func TestNetBuildErrors(t *testing.T) {
	nt := NewNetwork("Bad", 1, nil)
	if _, err := nt.AddLayer("A", 10, []int{3, 3}, InputNeurons); !errors.Is(err, ErrConfig) {
		t.Errorf("size mismatch: expected ErrConfig, got: %v\n", err)
	}
	a, _ := nt.AddLayer("A", 2, nil, InputNeurons)
	b, _ := nt.AddLayer("B", 2, nil, LIFNeurons)
	if _, err := nt.AddLayer("A", 2, nil, LIFNeurons); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate layer: expected ErrConfig, got: %v\n", err)
	}
	nt.ConnectLayers(a, b, prjn.NewFull(), ForwardConn)
	if _, err := nt.ConnectLayers(a, b, prjn.NewOneToOne(), ForwardConn); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate connection: expected ErrConfig, got: %v\n", err)
	}
	nt.ConnectLayers(b, a, prjn.NewFull(), ForwardConn)
	if err := nt.Build(); !errors.Is(err, ErrConfig) {
		t.Errorf("connection into input layer: expected ErrConfig, got: %v\n", err)
	}

	nt = NewNetwork("BadParams", 1, nil)
	ly, _ := nt.AddLayer("A", 2, nil, LIFNeurons)
	ly.LIF.Reset = -40
	if err := nt.Build(); !errors.Is(err, ErrConfig) {
		t.Errorf("reset above threshold: expected ErrConfig, got: %v\n", err)
	}
}

func TestNetEvalNoLearning(t *testing.T) {
	nt := NewNetwork("Eval", 1, nil)
	a, _ := nt.AddLayer("A", 4, nil, InputNeurons)
	b, _ := nt.AddLayer("B", 2, nil, AdaptLIFNeurons)
	cn, _ := nt.ConnectLayers(a, b, prjn.NewFull(), ForwardConn)
	cn.Learn.Kind = PostPre
	cn.Norm = 1
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	wts := append([]float32{}, cn.Wts...)
	nt.Eval()
	if nt.IsTraining() {
		t.Errorf("Eval should turn off training\n")
	}
	nt.Run(map[string]*etensor.Float32{"A": constInput(100, 4, 10)}, 100)
	for i := range wts {
		if cn.Wts[i] != wts[i] {
			t.Fatalf("weight %v changed in Eval mode\n", i)
		}
	}
	for ni := range b.Neurons {
		if b.Neurons[ni].Theta != 0 {
			t.Errorf("Theta adapted in Eval mode\n")
		}
	}

	nt.Train()
	nt.ResetStateVars()
	nt.Run(map[string]*etensor.Float32{"A": constInput(100, 4, 10)}, 100)
	if b.Neurons[0].Theta == 0 {
		t.Errorf("Theta should adapt in Train mode\n")
	}
	for ri := 0; ri < 2; ri++ {
		sum := float32(0)
		for si := 0; si < 4; si++ {
			sum += cn.Wt(si, ri)
		}
		if sum < 0.9999 || sum > 1.0001 {
			t.Errorf("recv %v: weights not normalized after training run: %v\n", ri, sum)
		}
	}
}

func TestNetApplyParams(t *testing.T) {
	nt := NewNetwork("Params", 1, nil)
	a, _ := nt.AddLayer("A", 2, nil, InputNeurons)
	b, _ := nt.AddLayer("B", 2, nil, LIFNeurons)
	c, _ := nt.AddLayer("C", 2, nil, LIFNeurons)
	nt.ConnectLayers(a, b, prjn.NewFull(), ForwardConn)
	nt.ConnectLayers(a, c, prjn.NewFull(), ForwardConn)
	c.SetClass("Hidden")

	sheet := params.Sheet{
		{Sel: "#B", Desc: "one layer",
			Params: params.Params{
				"Layer.LIF.Thr": "-50",
			}},
		{Sel: ".Hidden", Desc: "by class",
			Params: params.Params{
				"Layer.LIF.TcDecay": "50",
			}},
		{Sel: "Conn", Desc: "all connections",
			Params: params.Params{
				"Conn.Norm": "2",
			}},
	}
	applied, err := nt.ApplyParams(&sheet, false)
	if err != nil || !applied {
		t.Fatalf("ApplyParams: applied: %v err: %v\n", applied, err)
	}
	if b.LIF.Thr != -50 || c.LIF.Thr != -52 {
		t.Errorf("Thr: B: %v C: %v\n", b.LIF.Thr, c.LIF.Thr)
	}
	if c.LIF.TcDecay != 50 || b.LIF.TcDecay != 100 {
		t.Errorf("TcDecay: B: %v C: %v\n", b.LIF.TcDecay, c.LIF.TcDecay)
	}
	for _, cn := range nt.Conns {
		if cn.Norm != 2 {
			t.Errorf("%v Norm: %v\n", cn.Name(), cn.Norm)
		}
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if c.LIF.DecayDt != 0.02 {
		t.Errorf("DecayDt not updated from TcDecay: %v\n", c.LIF.DecayDt)
	}
}

func TestNetApplyParamsClipsWts(t *testing.T) {
	nt := makeTestNet(t)
	cn := nt.ConnByName("A", "B")
	if cn.Wt(0, 0) != 1 {
		t.Fatalf("initial weight: %v != 1\n", cn.Wt(0, 0))
	}
	sheet := params.Sheet{
		{Sel: "Conn", Desc: "narrower weight range",
			Params: params.Params{
				"Conn.WtRange.Max": "0.5",
			}},
	}
	if _, err := nt.ApplyParams(&sheet, false); err != nil {
		t.Fatal(err)
	}
	if cn.Wt(0, 0) != 0.5 {
		t.Errorf("weight not clipped to new WtRange: %v != 0.5\n", cn.Wt(0, 0))
	}
}

func TestNetRandSeed(t *testing.T) {
	wts := make([][]float32, 2)
	for i := range wts {
		nt := NewNetwork("Seeded", 1, nil)
		a, _ := nt.AddLayer("A", 5, nil, InputNeurons)
		b, _ := nt.AddLayer("B", 4, nil, LIFNeurons)
		nt.ConnectLayers(a, b, prjn.NewFull(), ForwardConn)
		nt.SetRandSeed(3)
		if err := nt.Build(); err != nil {
			t.Fatal(err)
		}
		wts[i] = nt.Conns[0].Wts
	}
	for i := range wts[0] {
		if wts[0][i] != wts[1][i] {
			t.Fatalf("same seed gave different weights at: %v\n", i)
		}
	}
}

func TestNetReports(t *testing.T) {
	nt := makeTestNet(t)
	nt.Run(nil, 10)
	sum := nt.Summary()
	for _, s := range []string{"Layer Name", "Connections", "Monitors", "LIFNeurons", "NoPlasticity"} {
		if !strings.Contains(sum, s) {
			t.Errorf("Summary missing: %v\n%v", s, sum)
		}
	}
	if !strings.Contains(nt.SizeReport(), "Neurons: 2") {
		t.Errorf("SizeReport:\n%v", nt.SizeReport())
	}
	tr := nt.TimerReport()
	for _, fn := range []string{"Input", "Current", "Integrate", "Plasticity"} {
		if !strings.Contains(tr, fn) {
			t.Errorf("TimerReport missing: %v\n", fn)
		}
	}
}
