// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emer/emergent/weights"
	"github.com/goki/ki/indent"
)

// SaveWtsJSON saves network weights (and any other state that adapts with learning)
// to a JSON-formatted file.  If filename has .gz extension, then file is gzip compressed.
func (nt *Network) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		nt.WriteWtsJSON(gzr)
		return gzr.Close()
	}
	nt.WriteWtsJSON(fp)
	return nil
}

// OpenWtsJSON opens network weights (and any other state that adapts with learning)
// from a JSON-formatted file.  If filename has .gz extension, then file is gzip uncompressed.
func (nt *Network) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			log.Println(err)
			return err
		}
		defer gzr.Close()
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the weights from this network from the receiver-side perspective
// in a JSON text format.  We build in the indentation logic to make it much faster and
// more efficient.
func (nt *Network) WriteWtsJSON(w io.Writer) {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %q,\n", nt.Nm))) // note: can't use \n in `` so need "
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"MetaData\": {\n"))
	w.Write(indent.TabBytes(depth + 1))
	w.Write([]byte(fmt.Sprintf("\"Dt\": \"%g\"\n", nt.Dt)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("},\n"))
	w.Write(indent.TabBytes(depth))
	nl := len(nt.Layers)
	if nl == 0 {
		w.Write([]byte("\"Layers\": null\n"))
	} else {
		w.Write([]byte("\"Layers\": [\n"))
		depth++
		for li, ly := range nt.Layers {
			ly.WriteWtsJSON(w, depth)
			if li == nl-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}\n"))
}

// WriteWtsJSON writes the weights from this layer from the receiver-side perspective
// in a JSON text format.  Adaptive thresholds are written as the Theta unit values.
func (ly *Layer) WriteWtsJSON(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Layer\": %q,\n", ly.Nm)))
	if ly.Kind == AdaptLIFNeurons {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Units\": {\n"))
		w.Write(indent.TabBytes(depth + 1))
		w.Write([]byte("\"Theta\": [ "))
		nn := len(ly.Neurons)
		for ni := range ly.Neurons {
			w.Write([]byte(strconv.FormatFloat(float64(ly.Neurons[ni].Theta), 'g', -1, 32)))
			if ni == nn-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("]\n"))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("},\n"))
	}
	w.Write(indent.TabBytes(depth))
	np := len(ly.RecvConns)
	if np == 0 {
		w.Write([]byte("\"Prjns\": null\n"))
	} else {
		w.Write([]byte("\"Prjns\": [\n"))
		depth++
		for pi, cn := range ly.RecvConns {
			cn.WriteWtsJSON(w, depth) // this leaves connection unterminated
			if pi == np-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// WriteWtsJSON writes the weights from this connection from the receiver-side perspective
// in a JSON text format.  Only connected pairs are written.
func (cn *Connection) WriteWtsJSON(w io.Writer, depth int) {
	ns := cn.Send.NNeurons()
	nr := cn.Recv.NNeurons()
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"From\": %q,\n", cn.Send.Name())))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"MetaData\": {\n"))
	w.Write(indent.TabBytes(depth + 1))
	w.Write([]byte(fmt.Sprintf("\"Norm\": \"%g\"\n", cn.Norm)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("},\n"))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Rs\": [\n"))
	depth++
	sis := make([]int, 0, ns)
	for ri := 0; ri < nr; ri++ {
		sis = sis[:0]
		for si := 0; si < ns; si++ {
			if cn.IsConnected(si, ri) {
				sis = append(sis, si)
			}
		}
		nc := len(sis)
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("{\n"))
		depth++
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"Ri\": %v,\n", ri)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"N\": %v,\n", nc)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Si\": [ "))
		for ci, si := range sis {
			w.Write([]byte(fmt.Sprintf("%v", si)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("],\n"))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Wt\": [ "))
		for ci, si := range sis {
			w.Write([]byte(strconv.FormatFloat(float64(cn.Wts[si*nr+ri]), 'g', -1, 32)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("]\n"))
		depth--
		w.Write(indent.TabBytes(depth))
		if ri == nr-1 {
			w.Write([]byte("}\n"))
		} else {
			w.Write([]byte("},\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// ReadWtsJSON reads network weights from the receiver-side perspective
// in a JSON text format.  Reads entire file into a temporary weights.Weights
// structure that is then passed to Layers etc using SetWts method.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	nw, err := weights.NetReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	err = nt.SetWts(nw)
	if err != nil {
		log.Println(err)
	}
	return err
}

// SetWts sets the weights for this network from weights.Network decoded values.
// Layers and connections are matched by name, so the network must have been
// built with the same structure.
func (nt *Network) SetWts(nw *weights.Network) error {
	if !nt.Built {
		return stateErr("Network: %v: must Build before setting weights", nt.Nm)
	}
	if nt.State == Stepping {
		return stateErr("Network: %v: cannot set weights during Run", nt.Nm)
	}
	var err error
	for li := range nw.Layers {
		lw := &nw.Layers[li]
		ly, er := nt.LayerByNameTry(lw.Layer)
		if er != nil {
			err = er
			continue
		}
		if er := ly.SetWts(lw); er != nil {
			err = er
		}
	}
	return err
}

// SetWts sets the weights for this layer from weights.Layer decoded values
func (ly *Layer) SetWts(lw *weights.Layer) error {
	if th, ok := lw.Units["Theta"]; ok {
		if len(th) != len(ly.Neurons) {
			return configErr("Layer: %v: SetWts: %d Theta values for %d neurons", ly.Nm, len(th), len(ly.Neurons))
		}
		for ni := range ly.Neurons {
			ly.Neurons[ni].Theta = th[ni]
		}
	}
	var err error
	for pi := range lw.Prjns {
		pw := &lw.Prjns[pi]
		cn := ly.RecvConnByName(pw.From)
		if cn == nil {
			err = configErr("Layer: %v: SetWts: no connection from layer: %v", ly.Nm, pw.From)
			continue
		}
		if er := cn.SetWts(pw); er != nil {
			err = er
		}
	}
	return err
}

// RecvConnByName returns the receiving connection from given sending
// layer name, nil if none
func (ly *Layer) RecvConnByName(send string) *Connection {
	for _, cn := range ly.RecvConns {
		if cn.Send.Nm == send {
			return cn
		}
	}
	return nil
}

// SetWts sets the weights for this connection from weights.Prjn decoded values
func (cn *Connection) SetWts(pw *weights.Prjn) error {
	if nm, ok := pw.MetaData["Norm"]; ok {
		pv, err := strconv.ParseFloat(nm, 32)
		if err != nil {
			return configErr("Connection: %v: SetWts: Norm: %v", cn.Name(), err)
		}
		if pv < 0 {
			return configErr("Connection: %v: SetWts: Norm must be >= 0, is: %g", cn.Name(), pv)
		}
		cn.Norm = float32(pv)
	}
	ns := cn.Send.NNeurons()
	nr := cn.Recv.NNeurons()
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		if pr.Ri < 0 || pr.Ri >= nr || len(pr.Wt) < len(pr.Si) {
			return configErr("Connection: %v: SetWts: invalid recv entry: %d", cn.Name(), pr.Ri)
		}
		for ci, si := range pr.Si {
			if si < 0 || si >= ns {
				return configErr("Connection: %v: SetWts: send index: %d out of range", cn.Name(), si)
			}
			cn.SetWt(si, pr.Ri, pr.Wt[ci])
		}
	}
	return nil
}
