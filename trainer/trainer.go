// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package trainer runs the unsupervised training loop over a labeled set of
spike train samples: each sample is presented to the network for a fixed
number of time steps in training mode, after which the transient state is
reset.  At the end of every epoch the neurons of the monitored layer are
assigned to classes from their spike counts, so that the network can
predict labels in evaluation mode.
*/
package trainer

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/etime"
	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/readout"
	"github.com/emer/snn/snn"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 4

// Sample is one input presentation: spikes shaped [steps, input shape...]
type Sample struct {
	Input *etensor.Float32
	Label int
}

// Trainer runs a network over epochs of samples.
type Trainer struct {
	Net        *snn.Network         `desc:"the network, built"`
	InputLayer string               `desc:"name of the input layer that samples are applied to"`
	Monitor    string               `desc:"name of the monitor recording Spike of the layer used for classification"`
	Epochs     int                  `desc:"number of epochs for Fit"`
	NClasses   int                  `desc:"number of classes"`
	Steps      int                  `desc:"number of time steps each sample is presented for"`
	Permute    bool                 `def:"true" desc:"present the samples in a new random order every epoch"`
	Assign     *readout.Assignment  `desc:"class assignment of the monitored neurons, from the last training epoch"`
	TrlLog     *etable.Table        `view:"no-inline" desc:"per-sample log for the current epoch"`
	EpcLog     *etable.Table        `view:"no-inline" desc:"per-epoch training log"`
	EpcFile    io.Writer            `view:"-" desc:"if non-nil, epoch log rows are also written here as tab separated values"`
	Epoch      int                  `inactive:"+" desc:"number of completed training epochs"`
	EpochHook  func(tr *Trainer)    `view:"-" desc:"called at the end of every training epoch, after logging"`
	epcHdrs    bool
}

// New returns a new trainer for the network, with the number of steps
// taken from the capacity of the monitor, which must be bounded.
func New(net *snn.Network, inputLayer, monitor string, epochs, nClasses int) (*Trainer, error) {
	tr := &Trainer{Net: net, InputLayer: inputLayer, Monitor: monitor, Epochs: epochs, NClasses: nClasses, Permute: true}
	mon := net.MonitorByName(monitor)
	if mon == nil {
		return nil, fmt.Errorf("%w: trainer: no monitor named: %v", snn.ErrConfig, monitor)
	}
	if mon.VarIdx("Spike") < 0 {
		return nil, fmt.Errorf("%w: trainer: monitor: %v does not record Spike", snn.ErrConfig, monitor)
	}
	if _, err := net.LayerByNameTry(inputLayer); err != nil {
		return nil, err
	}
	if nClasses <= 0 {
		return nil, fmt.Errorf("%w: trainer: nClasses must be > 0", snn.ErrConfig)
	}
	if mon.Capacity <= 0 {
		return nil, fmt.Errorf("%w: trainer: monitor: %v must have a capacity > 0, the steps per sample", snn.ErrConfig, monitor)
	}
	tr.Steps = mon.Capacity
	tr.TrlLog = &etable.Table{}
	tr.ConfigTrlLog(tr.TrlLog)
	tr.EpcLog = &etable.Table{}
	tr.ConfigEpcLog(tr.EpcLog)
	return tr, nil
}

// Fit trains for Epochs epochs over samples
func (tr *Trainer) Fit(samples []Sample) error {
	if err := tr.check(samples); err != nil {
		return err
	}
	prvMode := tr.Net.Ctx.Mode
	defer func() { tr.Net.Ctx.Mode = prvMode }()
	tr.Net.Train()

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	for epc := 0; epc < tr.Epochs; epc++ {
		if tr.Permute {
			erand.PermuteInts(order, &tr.Net.Rand)
		}
		tr.TrlLog.SetNumRows(0)
		counts, labels, err := tr.present(samples, order)
		if err != nil {
			return err
		}
		as, err := readout.Assign(counts, labels, tr.NClasses)
		if err != nil {
			return err
		}
		tr.Assign = as
		tr.Epoch++
		tr.LogEpc(tr.EpcLog, readout.Accuracy(as.PredictAll(counts), labels))
		if tr.EpochHook != nil {
			tr.EpochHook(tr)
		}
	}
	return nil
}

// Evaluate presents samples in evaluation mode, and returns the accuracy
// of the predictions of the current assignment, along with the predictions.
func (tr *Trainer) Evaluate(samples []Sample) (float32, []int, error) {
	if tr.Assign == nil {
		return 0, nil, fmt.Errorf("%w: trainer: Evaluate requires a class assignment -- call Fit first", snn.ErrRuntimeState)
	}
	if err := tr.check(samples); err != nil {
		return 0, nil, err
	}
	prvMode := tr.Net.Ctx.Mode
	defer func() { tr.Net.Ctx.Mode = prvMode }()
	tr.Net.Eval()

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	tr.TrlLog.SetNumRows(0)
	counts, labels, err := tr.present(samples, order)
	if err != nil {
		return 0, nil, err
	}
	preds := tr.Assign.PredictAll(counts)
	acc := readout.Accuracy(preds, labels)
	log.Printf("trainer: evaluation on %d samples: accuracy: %.4g\n", len(samples), acc)
	return acc, preds, nil
}

// Predict returns the predicted label for a single input, in evaluation mode
func (tr *Trainer) Predict(input *etensor.Float32) (int, error) {
	if tr.Assign == nil {
		return 0, fmt.Errorf("%w: trainer: Predict requires a class assignment -- call Fit first", snn.ErrRuntimeState)
	}
	prvMode := tr.Net.Ctx.Mode
	defer func() { tr.Net.Ctx.Mode = prvMode }()
	tr.Net.Eval()
	cnt, err := tr.Counts(input)
	if err != nil {
		return 0, err
	}
	return tr.Assign.Predict(cnt), nil
}

// Counts presents one input in the current mode and returns the number of
// spikes of each monitored neuron.  The network state is reset afterwards.
func (tr *Trainer) Counts(input *etensor.Float32) ([]float32, error) {
	err := tr.Net.Run(map[string]*etensor.Float32{tr.InputLayer: input}, tr.Steps)
	if err != nil {
		return nil, err
	}
	spk, err := tr.Net.MonitorByName(tr.Monitor).Get("Spike")
	if err != nil {
		return nil, err
	}
	nn := 1
	for d := 1; d < spk.NumDims(); d++ {
		nn *= spk.Dim(d)
	}
	cnt := make([]float32, nn)
	for i, v := range spk.Values {
		cnt[i%nn] += v
	}
	if err := tr.Net.ResetStateVars(); err != nil {
		return nil, err
	}
	return cnt, nil
}

// present runs samples in given order, logging each, and returns the
// counts [samples, neurons] and labels in presentation order
func (tr *Trainer) present(samples []Sample, order []int) (*etensor.Float32, []int, error) {
	var counts *etensor.Float32
	labels := make([]int, len(order))
	for ti, si := range order {
		smp := &samples[si]
		cnt, err := tr.Counts(smp.Input)
		if err != nil {
			return nil, nil, err
		}
		if counts == nil {
			counts = etensor.NewFloat32([]int{len(order), len(cnt)}, nil, []string{"Sample", "Neuron"})
		}
		copy(counts.Values[ti*len(cnt):], cnt)
		labels[ti] = smp.Label
		tr.LogTrl(tr.TrlLog, ti, smp.Label, cnt)
	}
	return counts, labels, nil
}

func (tr *Trainer) check(samples []Sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: trainer: no samples", snn.ErrConfig)
	}
	for i := range samples {
		if lbl := samples[i].Label; lbl < 0 || lbl >= tr.NClasses {
			return fmt.Errorf("%w: trainer: sample %d label: %d out of range [0, %d)", snn.ErrConfig, i, lbl, tr.NClasses)
		}
	}
	return nil
}

//////////////////////////////////////////////
//  Logs

// LogTrl adds one row for a presented sample
func (tr *Trainer) LogTrl(dt *etable.Table, trl, label int, cnt []float32) {
	row := dt.Rows
	dt.SetNumRows(row + 1)
	sum := float32(0)
	for _, c := range cnt {
		sum += c
	}
	mode := etime.Train
	if !tr.Net.IsTraining() {
		mode = etime.Test
	}
	dt.SetCellString("Mode", row, mode.String())
	dt.SetCellFloat("Epoch", row, float64(tr.Epoch))
	dt.SetCellFloat("Trial", row, float64(trl))
	dt.SetCellFloat("Label", row, float64(label))
	dt.SetCellFloat("NSpikes", row, float64(sum))
}

func (tr *Trainer) ConfigTrlLog(dt *etable.Table) {
	dt.SetMetaData("name", "TrlLog")
	dt.SetMetaData("desc", "Record of spike counts for each sample")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Mode", etensor.STRING, nil, nil},
		{"Epoch", etensor.INT64, nil, nil},
		{"Trial", etensor.INT64, nil, nil},
		{"Label", etensor.INT64, nil, nil},
		{"NSpikes", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}

// LogEpc adds data from the current epoch to the epoch log, and writes
// it to EpcFile if set.
func (tr *Trainer) LogEpc(dt *etable.Table, pctCor float32) {
	row := dt.Rows
	dt.SetNumRows(row + 1)

	ix := etable.NewIdxView(tr.TrlLog)
	nspk := agg.Mean(ix, "NSpikes")[0]
	cc := tr.Assign.ClassCounts()
	nasn := 0
	for _, c := range cc {
		nasn += c
	}

	dt.SetCellFloat("Epoch", row, float64(tr.Epoch))
	dt.SetCellFloat("PctCor", row, float64(pctCor))
	dt.SetCellFloat("NSpikes", row, nspk)
	dt.SetCellFloat("NAssigned", row, float64(nasn))

	log.Printf("trainer: epoch %d/%d: pct correct: %.4g  mean spikes: %.4g  assigned: %d / %d\n", tr.Epoch, tr.Epochs, pctCor, nspk, nasn, tr.Assign.NNeurons())

	if tr.EpcFile != nil {
		if !tr.epcHdrs {
			dt.WriteCSVHeaders(tr.EpcFile, etable.Tab)
			tr.epcHdrs = true
		}
		dt.WriteCSVRow(tr.EpcFile, row, etable.Tab)
	}
}

func (tr *Trainer) ConfigEpcLog(dt *etable.Table) {
	dt.SetMetaData("name", "EpcLog")
	dt.SetMetaData("desc", "Record of training over epochs")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Epoch", etensor.INT64, nil, nil},
		{"PctCor", etensor.FLOAT64, nil, nil},
		{"NSpikes", etensor.FLOAT64, nil, nil},
		{"NAssigned", etensor.INT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}
