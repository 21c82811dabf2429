package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/quantize"
	"github.com/hupe1980/quantize/blobstore"
	"github.com/hupe1980/quantize/codec"
	"github.com/hupe1980/quantize/indexed"
	"github.com/hupe1980/quantize/pixel"
	"github.com/hupe1980/quantize/prommetrics"
	"github.com/hupe1980/quantize/resource"
)

// runReport is written after a quantization.
type runReport struct {
	Input   string           `json:"input"`
	Output  string           `json:"output"`
	Indexed string           `json:"indexed,omitempty"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Sizes   []int            `json:"sizes"`
	Result  *quantize.Result `json:"result"`
}

// sweepReport is written after a sweep.
type sweepReport struct {
	Input  string                `json:"input"`
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Sweep  *quantize.SweepReport `json:"sweep"`
}

type app struct {
	cfg       Config
	logger    *quantize.Logger
	resources *resource.Controller
	quantizer *quantize.Quantizer
	codec     codec.Codec
	stdout    io.Writer
}

func newApp(cfg Config, collector quantize.MetricsCollector, stdout, stderr io.Writer) (*app, error) {
	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown report codec %q", cfg.Codec)
	}

	logger := cfg.logger(stderr)
	resources := resource.NewController(cfg.resourceConfig())

	opts := append(cfg.options(),
		quantize.WithLogger(logger),
		quantize.WithResourceController(resources),
		quantize.WithMetricsCollector(collector),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		resources: resources,
		quantizer: quantize.New(opts...),
		codec:     c,
		stdout:    stdout,
	}, nil
}

func (a *app) run(ctx context.Context) error {
	in, err := parseLocation(a.cfg.Input)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	img, err := a.readImage(ctx, in)
	if err != nil {
		return err
	}

	if len(a.cfg.Sweep) > 0 {
		return a.sweep(ctx, in, img)
	}
	return a.quantize(ctx, in, img)
}

func (a *app) readImage(ctx context.Context, loc location) (image.Image, error) {
	store, err := storeFor(ctx, loc, a.cfg, a.logger.Logger)
	if err != nil {
		return nil, err
	}
	data, err := blobstore.ReadAll(ctx, store, loc.name, a.resources)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	img, format, err := pixel.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	b := img.Bounds()
	a.logger.InfoContext(ctx, "image loaded",
		slog.String("input", loc.String()),
		slog.String("format", format),
		slog.Int("width", b.Dx()),
		slog.Int("height", b.Dy()),
	)
	return img, nil
}

func (a *app) quantize(ctx context.Context, in location, img image.Image) error {
	out, err := parseLocation(a.cfg.Output)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}

	q, err := a.quantizer.Quantize(ctx, img, a.cfg.K)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := pixel.Encode(&buf, q.Image, pixel.FormatFromName(out.name)); err != nil {
		return err
	}
	if err := a.put(ctx, out, buf.Bytes()); err != nil {
		return err
	}

	report := runReport{
		Input:  in.String(),
		Output: out.String(),
		Width:  q.Bounds.Dx(),
		Height: q.Bounds.Dy(),
		Sizes:  q.Sizes(),
		Result: q.Result,
	}

	if a.cfg.Indexed != "" {
		loc, err := parseLocation(a.cfg.Indexed)
		if err != nil {
			return fmt.Errorf("indexed: %w", err)
		}
		compression, _ := indexed.ParseCompression(a.cfg.Compression)

		buf.Reset()
		err = indexed.Encode(&buf, &indexed.Image{
			Width:   q.Bounds.Dx(),
			Height:  q.Bounds.Dy(),
			Palette: q.Centers,
			Labels:  q.Labels,
		}, compression)
		if err != nil {
			return err
		}
		if err := a.put(ctx, loc, buf.Bytes()); err != nil {
			return err
		}
		report.Indexed = loc.String()
	}

	return a.writeReport(ctx, report)
}

func (a *app) sweep(ctx context.Context, in location, img image.Image) error {
	points, bounds := pixel.Flatten(img)

	sr, err := a.quantizer.Sweep(ctx, points, a.cfg.Sweep)
	if err != nil {
		return err
	}

	return a.writeReport(ctx, sweepReport{
		Input:  in.String(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Sweep:  sr,
	})
}

func (a *app) put(ctx context.Context, loc location, data []byte) error {
	store, err := storeFor(ctx, loc, a.cfg, a.logger.Logger)
	if err != nil {
		return err
	}
	if err := a.resources.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	if err := store.Put(ctx, loc.name, data); err != nil {
		return fmt.Errorf("write %s: %w", loc, err)
	}
	a.logger.InfoContext(ctx, "blob written", slog.String("location", loc.String()), slog.Int("bytes", len(data)))
	return nil
}

func (a *app) writeReport(ctx context.Context, v any) error {
	data, err := codec.Append(a.codec, nil, v)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if a.cfg.Report == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	loc, err := parseLocation(a.cfg.Report)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return a.put(ctx, loc, data)
}

// serveMetrics exposes reg on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *quantize.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "metrics server failed", slog.Any("error", err))
		}
	}()
	logger.InfoContext(ctx, "serving metrics", slog.String("addr", ln.Addr().String()))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}

// newRegistry returns a registry with process and Go runtime collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// execute parses args and runs the command.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}

	var collector quantize.MetricsCollector = quantize.NoopMetricsCollector{}
	var stopMetrics func()
	if cfg.MetricsAddr != "" {
		reg := newRegistry()
		collector = prommetrics.New(reg)
		stopMetrics, err = serveMetrics(ctx, cfg.MetricsAddr, reg, cfg.logger(stderr))
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	a, err := newApp(cfg, collector, stdout, stderr)
	if err != nil {
		return err
	}
	return a.run(ctx)
}
