// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/snn"
)

// Intensities converts img to gray levels in [0, 1], resized to
// [height, width] (row major, top row first).
func Intensities(img image.Image, width, height int) *etensor.Float32 {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		img = transform.Resize(img, width, height, transform.Linear)
	}
	gray := effect.Grayscale(img)
	gb := gray.Bounds()
	tsr := etensor.NewFloat32([]int{height, width}, nil, []string{"Y", "X"})
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tsr.Values[y*width+x] = float32(gray.RGBAAt(gb.Min.X+x, gb.Min.Y+y).R) / 255
		}
	}
	return tsr
}

// OpenIntensities opens the image file at path and returns its
// Intensities.
func OpenIntensities(path string, width, height int) (*etensor.Float32, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, err
	}
	return Intensities(img, width, height), nil
}

// LabeledImage is one image file with its class
type LabeledImage struct {
	Path  string
	Label int
}

// ListClassDirs lists the image files under dir, which must have one
// sub-directory per class, named by the class number (0, 1, ...).
func ListClassDirs(dir string, nClasses int) ([]LabeledImage, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var imgs []LabeledImage
	for _, ent := range ents {
		if !ent.IsDir() {
			continue
		}
		lbl, err := strconv.Atoi(ent.Name())
		if err != nil {
			continue
		}
		if lbl < 0 || lbl >= nClasses {
			return nil, fmt.Errorf("%w: encode: class directory: %v out of range [0, %d)", snn.ErrConfig, ent.Name(), nClasses)
		}
		fns, err := os.ReadDir(filepath.Join(dir, ent.Name()))
		if err != nil {
			return nil, err
		}
		for _, fn := range fns {
			if fn.IsDir() {
				continue
			}
			switch filepath.Ext(fn.Name()) {
			case ".png", ".jpg", ".jpeg":
				imgs = append(imgs, LabeledImage{Path: filepath.Join(dir, ent.Name(), fn.Name()), Label: lbl})
			}
		}
	}
	sort.Slice(imgs, func(i, j int) bool { return imgs[i].Path < imgs[j].Path })
	return imgs, nil
}
