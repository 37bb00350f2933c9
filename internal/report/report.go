// SPDX-License-Identifier: MIT

// Package report turns results of the resolve package into YAML documents
// and stores them through viant/afs.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
	"github.com/katalvlaran/desing/resolve"
)

// Document kinds.
const (
	KindResolution = "resolution"
	KindCenter     = "center"
	KindBlowUp     = "blowup"
	KindDelta      = "delta"
)

// Chart is one chart of a resolution or blow-up.
type Chart struct {
	Handle   int      `yaml:"handle"`
	Parent   int      `yaml:"parent"`
	Path     []int    `yaml:"path,flow,omitempty"`
	Vars     []string `yaml:"vars,flow"`
	Ambient  string   `yaml:"ambient,omitempty"`
	Variety  string   `yaml:"variety"`
	Divisors []string `yaml:"divisors,omitempty"`
	Pullback []string `yaml:"pullback,flow"`
	Center   string   `yaml:"center,omitempty"`
	Order    []int    `yaml:"order,flow,omitempty"`
	Terminal bool     `yaml:"terminal,omitempty"`
	Marker   string   `yaml:"marker,omitempty"`
}

// Report is one YAML document.
type Report struct {
	Kind     string   `yaml:"kind"`
	RunID    string   `yaml:"runId,omitempty"`
	Vars     []string `yaml:"vars,flow"`
	Input    string   `yaml:"input"`
	Locality string   `yaml:"locality,omitempty"`
	Center   string   `yaml:"center,omitempty"`
	Delta    []string `yaml:"delta,omitempty"`
	Charts   []Chart  `yaml:"charts,omitempty"`
	Terminal []int    `yaml:"terminal,flow,omitempty"`
}

var localities = map[resolve.Locality]string{
	resolve.LocalityGlobal:   "global",
	resolve.LocalityIsolated: "isolated",
	resolve.LocalityMarked:   "marked",
}

func strs(Is []ideal.Ideal) []string {
	if len(Is) == 0 {
		return nil
	}
	out := make([]string, len(Is))
	for i, I := range Is {
		out[i] = I.String()
	}

	return out
}

func polys(ps []poly.Poly) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}

	return out
}

func chartOf(handle, parent int, bo resolve.BasicObject) Chart {
	c := Chart{
		Handle:   handle,
		Parent:   parent,
		Vars:     bo.Ring.Vars(),
		Variety:  bo.Variety.String(),
		Divisors: strs(bo.Divisors),
		Pullback: polys(bo.Pullback),
		Order:    bo.Order,
	}
	if !bo.Ambient.IsZero() {
		c.Ambient = bo.Ambient.String()
	}

	return c
}

// FromTree describes every chart of a resolution.
func FromTree(t *resolve.Tree) *Report {
	r := &Report{
		Kind:     KindResolution,
		RunID:    t.RunID.String(),
		Vars:     t.Input.Ring().Vars(),
		Input:    t.Input.String(),
		Locality: localities[t.Locality],
		Terminal: t.Terminal,
	}
	for _, ch := range t.All {
		c := chartOf(ch.Handle, t.Parent(ch.Handle), ch.BO)
		for _, s := range ch.Path {
			c.Path = append(c.Path, s.Position)
		}
		if !ch.Center.IsZero() {
			c.Center = ch.Center.String()
		}
		c.Terminal = ch.Terminal
		if ch.LocalMarker != nil {
			c.Marker = ch.LocalMarker.String()
		}
		r.Charts = append(r.Charts, c)
	}

	return r
}

// FromCharts describes the charts of one blow-up of J along C.
func FromCharts(J, C ideal.Ideal, charts []resolve.ChartData) *Report {
	r := &Report{Kind: KindBlowUp, Vars: J.Ring().Vars(), Input: J.String(), Center: C.String()}
	for i, cd := range charts {
		c := chartOf(i+1, 0, cd.BO)
		c.Path = []int{i}
		r.Charts = append(r.Charts, c)
	}

	return r
}

// FromCenter describes the first center of J.
func FromCenter(J, C ideal.Ideal) *Report {
	return &Report{Kind: KindCenter, Vars: J.Ring().Vars(), Input: J.String(), Center: C.String()}
}

// FromDelta describes the Delta list of J.
func FromDelta(J ideal.Ideal, L []ideal.Ideal) *Report {
	return &Report{Kind: KindDelta, Vars: J.Ring().Vars(), Input: J.String(), Delta: strs(L)}
}

// Encode writes r as YAML.
func Encode(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}

	return enc.Close()
}

// Write stores r as YAML at URL.
func Write(ctx context.Context, fs afs.Service, URL string, r *Report) error {
	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return err
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, &buf); err != nil {
		return fmt.Errorf("report: upload %s: %w", URL, err)
	}

	return nil
}

// Read loads a report written by Write.
func Read(ctx context.Context, fs afs.Service, URL string) (*Report, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("report: download %s: %w", URL, err)
	}
	r := &Report{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", URL, err)
	}

	return r, nil
}
