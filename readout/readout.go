// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package readout turns the spike counts of an unsupervised layer into class
predictions: each neuron is assigned to the class it responds to most, and
an input is classified by the mean count of the neurons assigned to each
class.
*/
package readout

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/emer/snn/snn"
)

// Assignment maps each neuron to a class label, -1 for neurons that never
// spiked during assignment.
type Assignment struct {
	NClasses int       `desc:"number of classes"`
	Labels   []int     `desc:"class assigned to each neuron, -1 = none"`
	Rates    []float32 `desc:"mean spike count of each neuron for each class, [neuron * NClasses + class]"`
}

// Assign computes the class assignment from counts, shaped
// [samples, neurons...], and the label of each sample.  A neuron is
// assigned to the class with its highest mean count, the lowest class on
// ties.  Classes with no samples have a mean of 0.
func Assign(counts *etensor.Float32, labels []int, nClasses int) (*Assignment, error) {
	if counts.NumDims() < 2 {
		return nil, fmt.Errorf("%w: readout.Assign: counts must be [samples, neurons], has shape: %v", snn.ErrConfig, counts.Shapes())
	}
	ns := counts.Dim(0)
	if ns != len(labels) {
		return nil, fmt.Errorf("%w: readout.Assign: %d samples but %d labels", snn.ErrConfig, ns, len(labels))
	}
	if nClasses <= 0 {
		return nil, fmt.Errorf("%w: readout.Assign: nClasses must be > 0", snn.ErrConfig)
	}
	nn := 1
	for d := 1; d < counts.NumDims(); d++ {
		nn *= counts.Dim(d)
	}
	as := &Assignment{NClasses: nClasses, Labels: make([]int, nn), Rates: make([]float32, nn*nClasses)}
	nper := make([]int, nClasses)
	for si, lbl := range labels {
		if lbl < 0 || lbl >= nClasses {
			return nil, fmt.Errorf("%w: readout.Assign: label %d of sample %d out of range [0, %d)", snn.ErrConfig, lbl, si, nClasses)
		}
		nper[lbl]++
		row := counts.Values[si*nn : (si+1)*nn]
		for ni, c := range row {
			as.Rates[ni*nClasses+lbl] += c
		}
	}
	for ni := 0; ni < nn; ni++ {
		rt := as.Rates[ni*nClasses : (ni+1)*nClasses]
		best := -1
		bestRt := float32(0)
		for ci := range rt {
			if nper[ci] > 0 {
				rt[ci] /= float32(nper[ci])
			}
			if rt[ci] > bestRt {
				best = ci
				bestRt = rt[ci]
			}
		}
		as.Labels[ni] = best
	}
	return as, nil
}

// NNeurons returns the number of neurons assigned
func (as *Assignment) NNeurons() int {
	return len(as.Labels)
}

// ClassCounts returns the number of neurons assigned to each class
func (as *Assignment) ClassCounts() []int {
	cc := make([]int, as.NClasses)
	for _, lbl := range as.Labels {
		if lbl >= 0 {
			cc[lbl]++
		}
	}
	return cc
}

// Scores returns the mean count over the neurons assigned to each class,
// 0 for classes with no assigned neurons.
func (as *Assignment) Scores(counts []float32) []float32 {
	sc := make([]float32, as.NClasses)
	nper := make([]int, as.NClasses)
	for ni, lbl := range as.Labels {
		if lbl < 0 || ni >= len(counts) {
			continue
		}
		sc[lbl] += counts[ni]
		nper[lbl]++
	}
	for ci := range sc {
		if nper[ci] > 0 {
			sc[ci] /= float32(nper[ci])
		}
	}
	return sc
}

// Predict returns the class with the highest score for the spike counts
// of one sample, the lowest class on ties.
func (as *Assignment) Predict(counts []float32) int {
	sc := as.Scores(counts)
	best := 0
	for ci := 1; ci < len(sc); ci++ {
		if sc[ci] > sc[best] {
			best = ci
		}
	}
	return best
}

// PredictAll predicts every sample of counts, shaped [samples, neurons...]
func (as *Assignment) PredictAll(counts *etensor.Float32) []int {
	ns := counts.Dim(0)
	preds := make([]int, ns)
	if ns == 0 {
		return preds
	}
	nn := counts.Len() / ns
	for si := range preds {
		preds[si] = as.Predict(counts.Values[si*nn : (si+1)*nn])
	}
	return preds
}

// Accuracy returns the proportion of predictions equal to labels
func Accuracy(preds, labels []int) float32 {
	if len(labels) == 0 {
		return 0
	}
	n := 0
	for i, p := range preds {
		if i < len(labels) && p == labels[i] {
			n++
		}
	}
	return float32(n) / float32(len(labels))
}
