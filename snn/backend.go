// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/goki/ki/ints"
)

// Backend runs the per-step vector and matrix operations of a single Layer
// or Connection.  It only ever splits one operation across the neuron
// (or weight column) dimension: it never reorders work across layers.
type Backend interface {
	// Name is used in reports
	Name() string

	// Range calls fun over [0, n) split into disjoint [st, ed) chunks,
	// and returns only after all chunks are done.  fun must only write
	// to state indexed within its own chunk.
	Range(n int, fun func(st, ed int))
}

// SerialBackend does everything in the calling goroutine
type SerialBackend struct{}

func (sb *SerialBackend) Name() string { return "Serial" }

func (sb *SerialBackend) Range(n int, fun func(st, ed int)) {
	if n > 0 {
		fun(0, n)
	}
}

// ParallelBackend splits each operation into up to NThreads chunks, run as
// separate goroutines.  Operations smaller than MinChunk * 2 are run
// serially, as the goroutine overhead would dominate.
type ParallelBackend struct {
	NThreads int `desc:"number of parallel threads (go routines) to use -- defaults to GOMAXPROCS"`
	MinChunk int `def:"64" desc:"minimum number of items per thread"`
}

// NewParallelBackend returns a new ParallelBackend with given number of
// threads (<= 0 = GOMAXPROCS)
func NewParallelBackend(nthr int) *ParallelBackend {
	if nthr <= 0 {
		nthr = runtime.GOMAXPROCS(0)
	}
	return &ParallelBackend{NThreads: nthr, MinChunk: 64}
}

func (pb *ParallelBackend) Name() string { return fmt.Sprintf("Parallel(%d)", pb.NThreads) }

func (pb *ParallelBackend) Range(n int, fun func(st, ed int)) {
	if n <= 0 {
		return
	}
	mc := ints.MaxInt(pb.MinChunk, 1)
	nthr := ints.MinInt(pb.NThreads, n/mc)
	if nthr <= 1 {
		fun(0, n)
		return
	}
	per := (n + nthr - 1) / nthr
	var wg sync.WaitGroup
	for st := 0; st < n; st += per {
		ed := ints.MinInt(st+per, n)
		wg.Add(1)
		go func(st, ed int) {
			fun(st, ed)
			wg.Done()
		}(st, ed)
	}
	wg.Wait()
}
