// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/config"
	"github.com/emer/snn/encode"
	"github.com/emer/snn/snn"
	"github.com/emer/snn/trainer"
	"github.com/spf13/cobra"
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the network on noisy class prototypes",
		Long: `Trains the network without supervision on rate-encoded noisy copies of
one random binary prototype per class, then assigns the excitatory neurons
to classes and reports the accuracy on new noisy copies.

With --images, the samples are instead read from a directory with one
sub-directory of images per class, named 0, 1, ...; every fifth image of a
class is held out for testing.

Use --load to start from saved weights and --save to save the trained
weights (.json, or .json.gz for compressed).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, nt, err := buildNet(cmd)
			if err != nil {
				return err
			}
			opts := trainOpts{}
			opts.nTrain, _ = cmd.Flags().GetInt("train")
			opts.nTest, _ = cmd.Flags().GetInt("test")
			opts.flip, _ = cmd.Flags().GetFloat32("noise")
			opts.load, _ = cmd.Flags().GetString("load")
			opts.save, _ = cmd.Flags().GetString("save")
			opts.epcLog, _ = cmd.Flags().GetString("epoch-log")
			opts.images, _ = cmd.Flags().GetString("images")
			return runTrain(cfg, nt, &opts)
		},
	}
	cmd.Flags().Int("train", 10, "number of training samples per class")
	cmd.Flags().Int("test", 5, "number of test samples per class")
	cmd.Flags().Float32("noise", 0.05, "probability of flipping each prototype element")
	cmd.Flags().String("load", "", "weights file to load before training")
	cmd.Flags().String("save", "", "file to save the trained weights to")
	cmd.Flags().String("epoch-log", "", "file to write the epoch log to, as tab separated values")
	cmd.Flags().String("images", "", "directory of class sub-directories of images to train and test on")
	return cmd
}

type trainOpts struct {
	nTrain, nTest int
	flip          float32
	load, save    string
	epcLog        string
	images        string
}

func runTrain(cfg *config.Params, nt *snn.Network, opts *trainOpts) error {
	if opts.load != "" {
		if err := nt.OpenWtsJSON(opts.load); err != nil {
			return fmt.Errorf("loading weights: %w", err)
		}
		log.Printf("loaded weights from: %v\n", opts.load)
	}
	tc := &cfg.Training
	tr, err := trainer.New(nt, snn.DCInput, snn.DCExcMonitor, tc.Epochs, tc.NClasses)
	if err != nil {
		return err
	}
	if opts.epcLog != "" {
		f, err := os.Create(opts.epcLog)
		if err != nil {
			return err
		}
		defer f.Close()
		tr.EpcFile = f
	}

	var trainSet, testSet []trainer.Sample
	if opts.images != "" {
		trainSet, testSet, err = imageSets(cfg, opts.images)
	} else {
		trainSet, testSet, err = prototypeSets(cfg, opts)
	}
	if err != nil {
		return err
	}

	log.Printf("training: %d samples, %d epochs, %d steps per sample\n", len(trainSet), tc.Epochs, tr.Steps)
	if err := tr.Fit(trainSet); err != nil {
		return err
	}
	acc, _, err := tr.Evaluate(testSet)
	if err != nil {
		return err
	}
	fmt.Printf("test accuracy: %.4g\n", acc)
	fmt.Print(nt.TimerReport())
	if cn := nt.ConnByName(snn.DCInput, snn.DCExcitatory); cn != nil {
		mn, mx, avg := cn.WtStats()
		fmt.Printf("%v weights: min: %.4g  max: %.4g  mean: %.4g\n", cn.Name(), mn, mx, avg)
	}
	if opts.save != "" {
		if err := nt.SaveWtsJSON(opts.save); err != nil {
			return fmt.Errorf("saving weights: %w", err)
		}
		log.Printf("saved weights to: %v\n", opts.save)
	}
	return nil
}

// prototypeSets returns noisy copies of one random prototype per class
func prototypeSets(cfg *config.Params, opts *trainOpts) (trainSet, testSet []trainer.Sample, err error) {
	tc := &cfg.Training
	rnd := erand.NewSysRand(tc.Seed)
	shape := inputShape(cfg)
	protos := encode.Prototypes(tc.NClasses, shape, 0.2, rnd)
	pe := encode.NewPoisson(cfg.Network.Time, tc.MaxRate, tc.Seed)
	mkSet := func(n int) ([]trainer.Sample, error) {
		var set []trainer.Sample
		for i := 0; i < n; i++ {
			for ci, pt := range protos {
				spk, err := pe.Encode(encode.Noisy(pt, opts.flip, rnd))
				if err != nil {
					return nil, err
				}
				set = append(set, trainer.Sample{Input: spk, Label: ci})
			}
		}
		return set, nil
	}
	if trainSet, err = mkSet(opts.nTrain); err != nil {
		return nil, nil, err
	}
	testSet, err = mkSet(opts.nTest)
	return trainSet, testSet, err
}

// imageSets loads and encodes the images under dir, holding out every
// fifth image of each class for testing
func imageSets(cfg *config.Params, dir string) (trainSet, testSet []trainer.Sample, err error) {
	tc := &cfg.Training
	imgs, err := encode.ListClassDirs(dir, tc.NClasses)
	if err != nil {
		return nil, nil, err
	}
	if len(imgs) == 0 {
		return nil, nil, fmt.Errorf("no images found in: %v", dir)
	}
	shape := inputShape(cfg)
	width := shape[len(shape)-1]
	height := 1
	if len(shape) > 1 {
		height = shape[len(shape)-2]
	}
	if width*height != cfg.Network.NInput {
		return nil, nil, fmt.Errorf("%w: input shape: %v must have the images as its last two dimensions", snn.ErrConfig, shape)
	}
	pe := encode.NewPoisson(cfg.Network.Time, tc.MaxRate, tc.Seed)
	nper := make([]int, tc.NClasses)
	for _, li := range imgs {
		gray, err := encode.OpenIntensities(li.Path, width, height)
		if err != nil {
			return nil, nil, err
		}
		intens := etensor.NewFloat32(shape, nil, nil)
		copy(intens.Values, gray.Values)
		spk, err := pe.Encode(intens)
		if err != nil {
			return nil, nil, err
		}
		smp := trainer.Sample{Input: spk, Label: li.Label}
		if nper[li.Label]%5 == 4 {
			testSet = append(testSet, smp)
		} else {
			trainSet = append(trainSet, smp)
		}
		nper[li.Label]++
	}
	log.Printf("loaded %d images from: %v\n", len(imgs), dir)
	return trainSet, testSet, nil
}

func inputShape(cfg *config.Params) []int {
	if len(cfg.Network.InputShape) == 0 {
		return []int{cfg.Network.NInput}
	}
	return cfg.Network.InputShape
}
