// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"sync/atomic"
	"testing"

	"github.com/emer/emergent/prjn"
	"github.com/goki/mat32"
)

func TestParallelRange(t *testing.T) {
	pb := &ParallelBackend{NThreads: 4, MinChunk: 10}
	var tot int64
	hits := make([]int32, 105)
	pb.Range(len(hits), func(st, ed int) {
		for i := st; i < ed; i++ {
			hits[i]++
		}
		atomic.AddInt64(&tot, int64(ed-st))
	})
	if tot != 105 {
		t.Errorf("total range: %v != 105\n", tot)
	}
	for i, h := range hits {
		if h != 1 {
			t.Errorf("index %v visited %v times\n", i, h)
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	ser := makeTestConn(t, 50, 300, prjn.NewFull(), 0.5)
	par := makeTestConn(t, 50, 300, prjn.NewFull(), 0.5)
	for i := range ser.Wts {
		w := float32(i%17) / 17
		ser.Wts[i] = w
		par.Wts[i] = w
	}
	for _, cn := range []*Connection{ser, par} {
		cn.Learn.Kind = PostPre
		for si := range cn.Send.Neurons {
			sn := &cn.Send.Neurons[si]
			sn.Spike = float32(si % 3 % 2)
			sn.Trace = float32(si%5) * .1
		}
		for ri := range cn.Recv.Neurons {
			rn := &cn.Recv.Neurons[ri]
			rn.Spike = float32(ri % 2)
			rn.Trace = float32(ri%7) * .1
		}
	}
	sctx := NewContext(nil)
	pctx := NewContext(&ParallelBackend{NThreads: 4, MinChunk: 16})

	ser.CurrentToRecv(sctx)
	par.CurrentToRecv(pctx)
	for ri := range ser.Recv.GeBuf {
		if dif := mat32.Abs(ser.Recv.GeBuf[ri] - par.Recv.GeBuf[ri]); dif > difTol {
			t.Errorf("recv %v: serial ge: %v != parallel ge: %v\n", ri, ser.Recv.GeBuf[ri], par.Recv.GeBuf[ri])
		}
	}

	ser.ApplyPlasticity(sctx)
	par.ApplyPlasticity(pctx)
	for i := range ser.Wts {
		if ser.Wts[i] != par.Wts[i] {
			t.Fatalf("weight %v: serial: %v != parallel: %v\n", i, ser.Wts[i], par.Wts[i])
		}
	}

	ser.Recv.Integrate(sctx)
	par.Recv.Integrate(pctx)
	for ri := range ser.Recv.Neurons {
		if ser.Recv.Neurons[ri] != par.Recv.Neurons[ri] {
			t.Errorf("recv %v: serial: %+v != parallel: %+v\n", ri, ser.Recv.Neurons[ri], par.Recv.Neurons[ri])
		}
	}
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(nil)
	if ctx.Backend.Name() != "Serial" || !ctx.IsTraining() {
		t.Errorf("default context: %v training: %v\n", ctx.Backend.Name(), ctx.IsTraining())
	}
	pb := NewParallelBackend(0)
	if pb.NThreads < 1 {
		t.Errorf("NThreads: %v\n", pb.NThreads)
	}
}
