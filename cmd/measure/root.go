package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go-complexity-inspector/internal/analyzer"
	"go-complexity-inspector/internal/logger"
	"go-complexity-inspector/internal/observer"
	"go-complexity-inspector/internal/repository"
	"go-complexity-inspector/internal/service"
	"go-complexity-inspector/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errSomeFailed = errors.New("one or more images could not be measured")

type measureFlags struct {
	preset    string
	csvPath   string
	boxSizes  []int
	cannyLow  float64
	cannyHigh float64
	windows   []int
	stride    int
	source    string
	maxDim    int
	maxBytes  int64
	logLevel  string
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f measureFlags

	cmd := &cobra.Command{
		Use:           "measure [flags] FILE...",
		Short:         "Measure fractal dimension, lacunarity and composite complexity of images",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Configure(f.logLevel, "text")

			opts, err := f.options(cmd)
			if err != nil {
				logger.WithError(err).Error("Invalid analyzer options")
				return err
			}
			return runMeasure(cmd.Context(), out, opts, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.preset, "preset", "standard", "option preset: standard, fast or detailed")
	flags.StringVar(&f.csvPath, "csv", "", "write all results to this CSV file")
	flags.IntSliceVar(&f.boxSizes, "box-sizes", nil, "box sizes for counting, strictly increasing")
	flags.Float64Var(&f.cannyLow, "canny-low", 0, "Canny low hysteresis threshold")
	flags.Float64Var(&f.cannyHigh, "canny-high", 0, "Canny high hysteresis threshold")
	flags.IntSliceVar(&f.windows, "window", nil, "gliding-box window sizes")
	flags.IntVar(&f.stride, "stride", 0, "gliding-box stride")
	flags.StringVar(&f.source, "source", "", "lacunarity mass source: binary, edges or intensity")
	flags.IntVar(&f.maxDim, "max-dim", 1024, "downsample so the longer side is at most this; 0 keeps the size")
	flags.Int64Var(&f.maxBytes, "max-bytes", 20*1024*1024, "largest accepted file in bytes")
	flags.StringVar(&f.logLevel, "log-level", "warn", "log level")

	return cmd
}

// options applies the explicitly set flags on top of the preset
func (f measureFlags) options(cmd *cobra.Command) (analyzer.Options, error) {
	opts, err := analyzer.Preset(f.preset)
	if err != nil {
		return opts, err
	}
	changed := cmd.Flags().Changed

	if changed("box-sizes") {
		opts = opts.WithBoxSizes(f.boxSizes...)
	}
	if changed("canny-low") || changed("canny-high") {
		low, high := opts.CannyLow, opts.CannyHigh
		if changed("canny-low") {
			low = f.cannyLow
		}
		if changed("canny-high") {
			high = f.cannyHigh
		}
		opts = opts.WithCannyThresholds(low, high)
	}
	if changed("window") || changed("stride") {
		sizes, stride := opts.WindowSizes, opts.WindowStride
		if changed("window") {
			sizes = f.windows
		}
		if changed("stride") {
			stride = f.stride
		}
		opts = opts.WithWindows(stride, sizes...)
	}
	if changed("source") {
		opts = opts.WithLacunaritySource(analyzer.LacunaritySource(f.source))
	}
	if f.maxDim < 0 {
		return opts, fmt.Errorf("%w: max-dim must be >= 0 (got %d)", analyzer.ErrInvalidConfiguration, f.maxDim)
	}
	return opts, opts.Validate()
}

func runMeasure(ctx context.Context, out io.Writer, opts analyzer.Options, f measureFlags, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := analyzer.NewImageAnalyzer(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	defer events.Wait()

	svc := service.NewComplexityService(service.Dependencies{
		History:  repository.NewMemoryHistoryRepository(0),
		Analyzer: a,
		Events:   events,
	}, service.Config{
		MaxImageBytes: f.maxBytes,
		MaxDimension:  f.maxDim,
	})

	failed := 0
	for _, path := range files {
		resp, err := measureFile(ctx, svc, path)
		if err != nil {
			failed++
			logger.WithFields(logrus.Fields{"file": path}).WithError(err).Error("Measurement failed")
			fmt.Fprintf(out, "%s: error: %v\n", path, err)
			continue
		}
		printMeasurement(out, path, resp.Measurement)
	}

	if f.csvPath != "" {
		if err := writeCSV(ctx, svc, f.csvPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "results written to %s\n", f.csvPath)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSomeFailed, failed, len(files))
	}
	return nil
}

func measureFile(ctx context.Context, svc service.ComplexityService, path string) (*models.MeasurementResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return svc.MeasureUpload(ctx, path, file)
}

func writeCSV(ctx context.Context, svc service.ComplexityService, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := svc.ExportHistoryCSV(ctx, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printMeasurement(out io.Writer, path string, m models.Measurement) {
	fmt.Fprintf(out, "%s: FD=%.4f (%s) L=%.4f (%s) C=%.4f (%s)\n",
		path, m.FDRaw, m.FDLabel, m.LRaw, m.LLabel, m.C, m.CLabel)
}
