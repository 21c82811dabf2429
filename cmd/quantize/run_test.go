package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quantize/indexed"
	"github.com/hupe1980/quantize/pixel"
	"github.com/hupe1980/quantize/testutil"
)

func writeTestImage(t *testing.T, dir string) string {
	t.Helper()
	rng := testutil.NewRNG(1)
	img := rng.StripedImage(32, 30, testutil.Primaries[:3], 4)

	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, pixel.Encode(f, img, pixel.FormatPNG))
	require.NoError(t, f.Close())
	return path
}

func TestExecute_Quantize(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	out := filepath.Join(dir, "out", "quantized.png")
	idx := filepath.Join(dir, "out", "quantized.kqix")

	var stdout bytes.Buffer
	err := execute(context.Background(), []string{
		"-in", in,
		"-out", out,
		"-indexed", idx,
		"-k", "3",
		"-compression", "lz4",
	}, &stdout, io.Discard)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	img, format, err := pixel.Decode(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	f, err = os.Open(idx)
	require.NoError(t, err)
	ix, err := indexed.Decode(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Len(t, ix.Palette, 3)
	assert.Len(t, ix.Labels, 32*30)

	var report struct {
		Width  int   `json:"width"`
		Height int   `json:"height"`
		Sizes  []int `json:"sizes"`
		Result struct {
			K       int         `json:"k"`
			Centers [][]float64 `json:"centers"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, 32, report.Width)
	assert.Equal(t, 3, report.Result.K)
	assert.Len(t, report.Result.Centers, 3)

	total := 0
	for _, s := range report.Sizes {
		total += s
	}
	assert.Equal(t, 32*30, total)
}

func TestExecute_SweepToReportFile(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	reportPath := filepath.Join(dir, "sweep.json")

	var stdout bytes.Buffer
	err := execute(context.Background(), []string{
		"-in", "file://" + in,
		"-sweep", "1,2,3",
		"-report", reportPath,
	}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var report struct {
		Sweep struct {
			Ks    []int     `json:"ks"`
			Costs []float64 `json:"costs"`
		} `json:"sweep"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, []int{1, 2, 3}, report.Sweep.Ks)
	require.Len(t, report.Sweep.Costs, 3)
	assert.Greater(t, report.Sweep.Costs[0], report.Sweep.Costs[2])
}

func TestExecute_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"missing input file", []string{"-in", filepath.Join(dir, "missing.png"), "-out", filepath.Join(dir, "o.png")}},
		{"k exceeds pixels", []string{"-in", in, "-out", filepath.Join(dir, "o.png"), "-k", "100000"}},
		{"not an image", []string{"-in", writeFile(t, "x.png", "not a png"), "-out", filepath.Join(dir, "o.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, execute(context.Background(), tt.args, io.Discard, io.Discard))
		})
	}
}

func TestNewApp_UnknownCodec(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Codec = "xml"
	_, err := newApp(cfg, nil, io.Discard, io.Discard)
	assert.Error(t, err)
}
