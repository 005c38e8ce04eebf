// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"errors"
	"testing"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/snn"
)

func TestPoisson(t *testing.T) {
	intens := etensor.NewFloat32([]int{2, 3}, nil, nil)
	intens.Values[0] = 1
	intens.Values[4] = 2 // clipped to 1
	pe := NewPoisson(2000, 0.25, 1)
	spk, err := pe.Encode(intens)
	if err != nil {
		t.Fatal(err)
	}
	if spk.NumDims() != 3 || spk.Dim(0) != 2000 || spk.Dim(1) != 2 || spk.Dim(2) != 3 {
		t.Fatalf("shape: %v\n", spk.Shapes())
	}
	cnt := make([]int, 6)
	for st := 0; st < 2000; st++ {
		for i := 0; i < 6; i++ {
			v := spk.Values[st*6+i]
			if v != 0 && v != 1 {
				t.Fatalf("non-binary spike: %v\n", v)
			}
			if v == 1 {
				cnt[i]++
			}
		}
	}
	for _, i := range []int{0, 4} {
		if cnt[i] < 400 || cnt[i] > 600 {
			t.Errorf("element %v: %v spikes, expected about 500\n", i, cnt[i])
		}
	}
	for _, i := range []int{1, 2, 3, 5} {
		if cnt[i] != 0 {
			t.Errorf("element %v: zero intensity spiked %v times\n", i, cnt[i])
		}
	}

	spk2, _ := NewPoisson(2000, 0.25, 1).Encode(intens)
	for i := range spk.Values {
		if spk.Values[i] != spk2.Values[i] {
			t.Fatalf("same seed gave different spikes at: %v\n", i)
		}
	}
}

func TestPoissonErrors(t *testing.T) {
	intens := etensor.NewFloat32([]int{4}, nil, nil)
	if _, err := NewPoisson(0, 0.25, 1).Encode(intens); !errors.Is(err, snn.ErrConfig) {
		t.Errorf("zero time: expected ErrConfig, got: %v\n", err)
	}
	if _, err := NewPoisson(10, 1.5, 1).Encode(intens); !errors.Is(err, snn.ErrConfig) {
		t.Errorf("bad rate: expected ErrConfig, got: %v\n", err)
	}
}

func TestPrototypes(t *testing.T) {
	rnd := erand.NewSysRand(2)
	protos := Prototypes(3, []int{4, 4}, 0.5, rnd)
	if len(protos) != 3 || protos[0].Len() != 16 {
		t.Fatalf("protos: %v\n", len(protos))
	}
	same := Noisy(protos[0], 0, rnd)
	for i := range same.Values {
		if same.Values[i] != protos[0].Values[i] {
			t.Fatalf("zero flip changed element: %v\n", i)
		}
	}
	inv := Noisy(protos[0], 1, rnd)
	for i := range inv.Values {
		if inv.Values[i] != 1-protos[0].Values[i] {
			t.Fatalf("full flip did not invert element: %v\n", i)
		}
	}
}

func TestPrototypesSeed(t *testing.T) {
	a := Prototypes(2, []int{8, 8}, 0.5, erand.NewSysRand(5))
	b := Prototypes(2, []int{8, 8}, 0.5, erand.NewSysRand(5))
	for ci := range a {
		for i := range a[ci].Values {
			if a[ci].Values[i] != b[ci].Values[i] {
				t.Fatalf("same seed: class %v element %v differs\n", ci, i)
			}
		}
	}
	na := Noisy(a[0], 0.3, erand.NewSysRand(7))
	nb := Noisy(a[0], 0.3, erand.NewSysRand(7))
	for i := range na.Values {
		if na.Values[i] != nb.Values[i] {
			t.Fatalf("same seed: noisy element %v differs\n", i)
		}
	}
}

func TestBernoulli(t *testing.T) {
	spk := Bernoulli(4000, []int{1}, 0.1, erand.NewSysRand(1))
	if spk.NumDims() != 2 || spk.Dim(0) != 4000 || spk.Dim(1) != 1 {
		t.Fatalf("shape: %v\n", spk.Shapes())
	}
	n := 0
	for _, v := range spk.Values {
		if v == 1 {
			n++
		} else if v != 0 {
			t.Fatalf("non-binary spike: %v\n", v)
		}
	}
	if n < 320 || n > 480 {
		t.Errorf("%v spikes in 4000 steps, expected about 400\n", n)
	}
	spk2 := Bernoulli(4000, []int{1}, 0.1, erand.NewSysRand(1))
	for i := range spk.Values {
		if spk.Values[i] != spk2.Values[i] {
			t.Fatalf("same seed gave different spikes at: %v\n", i)
		}
	}
}
