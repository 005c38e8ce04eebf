// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func smallDCNet(t *testing.T) *Network {
	dp := &DCParams{}
	dp.Defaults()
	dp.NInput = 12
	dp.InputShape = []int{3, 4}
	dp.NNeurons = 5
	dp.Time = 20
	nt, err := NewDCTopology(dp).Build(NewContext(nil))
	if err != nil {
		t.Fatal(err)
	}
	return nt
}

func cmprWts(t *testing.T, a, b *Network) {
	for ci, ca := range a.Conns {
		cb := b.Conns[ci]
		for i := range ca.Wts {
			if ca.Wts[i] != cb.Wts[i] {
				t.Fatalf("%v: weight %v: %v != %v\n", ca.Name(), i, ca.Wts[i], cb.Wts[i])
			}
		}
	}
	for li, la := range a.Layers {
		lb := b.Layers[li]
		for ni := range la.Neurons {
			if la.Neurons[ni].Theta != lb.Neurons[ni].Theta {
				t.Fatalf("%v: theta %v: %v != %v\n", la.Nm, ni, la.Neurons[ni].Theta, lb.Neurons[ni].Theta)
			}
		}
	}
}

func TestWtsJSONRoundTrip(t *testing.T) {
	src := smallDCNet(t)
	exc := src.LayerByName(DCExcitatory)
	for ni := range exc.Neurons {
		exc.Neurons[ni].Theta = 0.01 * float32(ni+1)
	}
	var buf bytes.Buffer
	src.WriteWtsJSON(&buf)

	dst := smallDCNet(t)
	if err := dst.ReadWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	cmprWts(t, src, dst)
}

func TestWtsJSONFile(t *testing.T) {
	src := smallDCNet(t)
	dir := t.TempDir()
	for _, fn := range []string{"wts.json", "wts.json.gz"} {
		fnm := filepath.Join(dir, fn)
		if err := src.SaveWtsJSON(fnm); err != nil {
			t.Fatal(err)
		}
		dst := smallDCNet(t)
		if err := dst.OpenWtsJSON(fnm); err != nil {
			t.Fatal(err)
		}
		cmprWts(t, src, dst)
	}
	if err := src.OpenWtsJSON(filepath.Join(dir, "none.json")); err == nil {
		t.Errorf("expected error opening missing file\n")
	}
}

func TestWtsJSONBadNorm(t *testing.T) {
	src := smallDCNet(t)
	var buf bytes.Buffer
	src.WriteWtsJSON(&buf)
	js := buf.Bytes()
	if !bytes.Contains(js, []byte(`"Norm": "78.4"`)) {
		t.Fatalf("Norm of %v not written\n", src.Conns[0].Name())
	}
	bad := bytes.Replace(js, []byte(`"Norm": "78.4"`), []byte(`"Norm": "lots"`), 1)
	dst := smallDCNet(t)
	if err := dst.ReadWtsJSON(bytes.NewReader(bad)); !errors.Is(err, ErrConfig) {
		t.Errorf("malformed Norm: expected ErrConfig, got: %v\n", err)
	}
	if nrm := dst.ConnByName(DCInput, DCExcitatory).Norm; nrm != 78.4 {
		t.Errorf("malformed Norm changed Norm to: %v\n", nrm)
	}
}
