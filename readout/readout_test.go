// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readout

import (
	"errors"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/emer/snn/snn"
)

// synthCounts: 4 neurons, 3 classes.  Neurons 0, 1 fire for class 0,
// neuron 2 for class 2, neuron 3 never fires.
func synthCounts() (*etensor.Float32, []int) {
	vals := []float32{
		5, 4, 0, 0, // class 0
		3, 6, 1, 0, // class 0
		0, 1, 2, 0, // class 1
		1, 0, 7, 0, // class 2
	}
	counts := etensor.NewFloat32([]int{4, 4}, nil, nil)
	copy(counts.Values, vals)
	return counts, []int{0, 0, 1, 2}
}

func TestAssign(t *testing.T) {
	counts, labels := synthCounts()
	as, err := Assign(counts, labels, 3)
	if err != nil {
		t.Fatal(err)
	}
	trg := []int{0, 0, 2, -1}
	for ni, lbl := range as.Labels {
		if lbl != trg[ni] {
			t.Errorf("neuron %v: label %v != %v\n", ni, lbl, trg[ni])
		}
	}
	if r := as.Rates[0*3+0]; r != 4 {
		t.Errorf("neuron 0 class 0 rate: %v != 4\n", r)
	}
	cc := as.ClassCounts()
	if cc[0] != 2 || cc[1] != 0 || cc[2] != 1 {
		t.Errorf("class counts: %v\n", cc)
	}
}

func TestPredict(t *testing.T) {
	counts, labels := synthCounts()
	as, _ := Assign(counts, labels, 3)
	if p := as.Predict([]float32{6, 5, 1, 0}); p != 0 {
		t.Errorf("predict class 0 pattern: %v\n", p)
	}
	if p := as.Predict([]float32{0, 0, 9, 3}); p != 2 {
		t.Errorf("predict class 2 pattern: %v\n", p)
	}
	// no spikes: all scores 0, lowest class wins
	if p := as.Predict([]float32{0, 0, 0, 0}); p != 0 {
		t.Errorf("predict silent: %v\n", p)
	}
	sc := as.Scores([]float32{2, 4, 1, 0})
	if sc[0] != 3 || sc[1] != 0 || sc[2] != 1 {
		t.Errorf("scores: %v\n", sc)
	}

	preds := as.PredictAll(counts)
	if acc := Accuracy(preds, labels); acc != 0.75 {
		t.Errorf("accuracy: %v != 0.75, preds: %v\n", acc, preds)
	}
}

func TestAssignErrors(t *testing.T) {
	counts, labels := synthCounts()
	if _, err := Assign(counts, labels[:3], 3); !errors.Is(err, snn.ErrConfig) {
		t.Errorf("label count mismatch: expected ErrConfig, got: %v\n", err)
	}
	if _, err := Assign(counts, []int{0, 0, 1, 5}, 3); !errors.Is(err, snn.ErrConfig) {
		t.Errorf("label out of range: expected ErrConfig, got: %v\n", err)
	}
	flat := etensor.NewFloat32([]int{4}, nil, nil)
	if _, err := Assign(flat, labels, 3); !errors.Is(err, snn.ErrConfig) {
		t.Errorf("1D counts: expected ErrConfig, got: %v\n", err)
	}
}
