// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"errors"
	"testing"
)

func makeMonLayer(t *testing.T) *Layer {
	ly := NewLayer("Out", LIFNeurons)
	if err := ly.Config(6, []int{2, 3}); err != nil {
		t.Fatal(err)
	}
	ly.InitActs()
	return ly
}

func TestMonitorGet(t *testing.T) {
	ly := makeMonLayer(t)
	mon, err := NewMonitor("", ly, []string{"Vm", "Spike"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if mon.Name() != "Out_Monitor" {
		t.Errorf("default name: %v\n", mon.Name())
	}
	for step := 0; step < 4; step++ {
		for ni := range ly.Neurons {
			ly.Neurons[ni].Vm = float32(step*10 + ni)
		}
		mon.Record()
	}
	vm, err := mon.Get("Vm")
	if err != nil {
		t.Fatal(err)
	}
	if vm.NumDims() != 3 || vm.Dim(0) != 4 || vm.Dim(1) != 2 || vm.Dim(2) != 3 {
		t.Errorf("shape: %v should be [4 2 3]\n", vm.Shapes())
	}
	if v := vm.Value([]int{2, 1, 0}); v != 23 {
		t.Errorf("Vm [2, 1, 0]: %v != 23\n", v)
	}
	vm2, _ := mon.Get("Vm")
	for i := range vm.Values {
		if vm.Values[i] != vm2.Values[i] {
			t.Fatalf("second Get differs at: %v\n", i)
		}
	}
	vm.Values[0] = 1000
	vm3, _ := mon.Get("Vm")
	if vm3.Values[0] == 1000 {
		t.Errorf("Get should return a copy\n")
	}
	if _, err := mon.Get("Ge"); !errors.Is(err, ErrConfig) {
		t.Errorf("Get of unrecorded var: expected ErrConfig, got: %v\n", err)
	}
}

func TestMonitorCapacity(t *testing.T) {
	ly := makeMonLayer(t)
	mon, err := NewMonitor("Out", ly, []string{"Vm"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for step := 0; step < 5; step++ {
		ly.Neurons[0].Vm = float32(step)
		mon.Record()
	}
	vm, _ := mon.Get("Vm")
	if vm.Dim(0) != 3 {
		t.Fatalf("rows: %v != 3\n", vm.Dim(0))
	}
	for row := 0; row < 3; row++ {
		if v := vm.Value([]int{row, 0, 0}); v != float32(row+2) {
			t.Errorf("row %v: %v != %v\n", row, v, row+2)
		}
	}

	mon.Active = false
	mon.Record()
	if mon.NRows != 3 {
		t.Errorf("inactive monitor recorded\n")
	}
	mon.Reset()
	vm, _ = mon.Get("Vm")
	if vm.Dim(0) != 0 {
		t.Errorf("rows after Reset: %v\n", vm.Dim(0))
	}
}

func TestMonitorTable(t *testing.T) {
	ly := makeMonLayer(t)
	mon, _ := NewMonitor("Out", ly, []string{"Vm", "Spike"}, 0)
	ly.Neurons[5].Spike = 1
	mon.Record()
	mon.Record()
	dt := mon.Table()
	if dt.Rows != 2 {
		t.Errorf("table rows: %v != 2\n", dt.Rows)
	}
	if len(dt.Cols) != 3 {
		t.Errorf("table cols: %v != 3\n", len(dt.Cols))
	}
	if v := dt.Cols[2].FloatVal1D(1*6 + 5); v != 1 {
		t.Errorf("Spike [1, 5]: %v != 1\n", v)
	}
}

func TestMonitorBadVar(t *testing.T) {
	ly := makeMonLayer(t)
	if _, err := NewMonitor("Out", ly, []string{"Act"}, 0); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig, got: %v\n", err)
	}
	if _, err := NewMonitor("Out", ly, nil, 0); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for no vars, got: %v\n", err)
	}
}

// flakyRecorder fails to provide values once fail is set
type flakyRecorder struct {
	val  float32
	fail bool
}

func (fr *flakyRecorder) Name() string       { return "Flaky" }
func (fr *flakyRecorder) VarNames() []string { return []string{"A", "B"} }

func (fr *flakyRecorder) VarShape(varNm string) ([]int, error) {
	return []int{1}, nil
}

func (fr *flakyRecorder) VarValues(vals []float32, varNm string) error {
	if fr.fail && varNm == "B" {
		return errors.New("no values")
	}
	vals[0] = fr.val
	return nil
}

func TestMonitorRecordError(t *testing.T) {
	fr := &flakyRecorder{}
	mon, err := NewMonitor("", fr, []string{"A", "B"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for step := 0; step < 2; step++ {
		fr.val = float32(step + 1)
		if err := mon.Record(); err != nil {
			t.Fatal(err)
		}
	}
	fr.val = 10
	fr.fail = true
	if err := mon.Record(); !errors.Is(err, ErrConfig) {
		t.Errorf("failed Record: expected ErrConfig, got: %v\n", err)
	}
	if mon.NRows != 2 {
		t.Errorf("rows after failed Record: %v != 2\n", mon.NRows)
	}
	for _, vnm := range []string{"A", "B"} {
		tsr, _ := mon.Get(vnm)
		if tsr.Values[0] != 1 || tsr.Values[1] != 2 {
			t.Errorf("%v after failed Record: %v should be [1 2]\n", vnm, tsr.Values)
		}
	}
}
