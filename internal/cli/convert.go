package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
	pkgio "github.com/matzehuels/png2svg/pkg/io"
	"github.com/matzehuels/png2svg/pkg/pipeline"
)

// convertOpts holds the command-line flags shared by the root and convert
// commands. Zero values defer to the config file.
type convertOpts struct {
	output         string   // output file, single input only
	workers        int      // files converted at once
	keepEveryPoint bool     // keep collinear lattice points
	extensions     []string // raster extensions picked up from directories
	maxPixels      int64    // largest accepted width times height
	noCache        bool     // bypass the conversion cache entirely
	refresh        bool     // skip cache reads, still write results back
	dryRun         bool     // list what would be converted
	progress       bool     // interactive progress view
}

// convertCommand creates the explicit convert command. It behaves exactly
// like running png2svg with a path.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{}
	cmd := &cobra.Command{
		Use:   "convert [path]",
		Short: "Convert an image or every image in a directory to SVG",
		Long: `Convert a single raster image, or every raster image directly inside a
directory, to SVG. Each output is written next to its input with the
extension replaced by .svg. A file that cannot be decoded is reported and
the remaining files are still converted.`,
		Example: `  png2svg convert sprite.png
  png2svg convert assets/ --workers 4
  png2svg convert logo.png -o dist/logo.svg --keep-every-point`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, &opts)
		},
	}
	addConvertFlags(cmd, &opts)
	return cmd
}

func addConvertFlags(cmd *cobra.Command, opts *convertOpts) {
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single input file only)")
	f.IntVarP(&opts.workers, "workers", "j", 0, "files converted in parallel (default: number of CPUs)")
	f.BoolVar(&opts.keepEveryPoint, "keep-every-point", false, "keep every lattice point instead of collapsing straight runs")
	f.StringSliceVar(&opts.extensions, "ext", nil, "raster extensions to convert in directories (default .png)")
	f.Int64Var(&opts.maxPixels, "max-pixels", 0, "reject images with more pixels than this (default 67108864)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the conversion cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results (results are still cached)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "list the files that would be converted")
	f.BoolVar(&opts.progress, "progress", false, "show an interactive progress view")
}

// pipelineOptions merges flags over the file configuration.
func (c *CLI) pipelineOptions(cmd *cobra.Command, opts *convertOpts) pipeline.Options {
	po := c.config.pipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("workers") {
		po.Workers = opts.workers
	}
	if flags.Changed("keep-every-point") {
		po.KeepEveryPoint = opts.keepEveryPoint
	}
	if flags.Changed("ext") {
		po.Extensions = opts.extensions
	}
	if flags.Changed("max-pixels") {
		po.MaxPixels = opts.maxPixels
	}
	po.Refresh = opts.refresh
	return po
}

func (c *CLI) runConvert(cmd *cobra.Command, args []string, opts *convertOpts) error {
	ctx := cmd.Context()
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	po := c.pipelineOptions(cmd, opts)
	if err := po.ValidateAndSetDefaults(); err != nil {
		return err
	}

	files, err := pkgio.Discover(path, po.Extensions)
	if err != nil {
		return err
	}
	if opts.output != "" {
		if info, _ := os.Stat(path); info == nil || info.IsDir() {
			return pkgerr.New(pkgerr.ErrCodeInvalidInput, "--output requires a single input file, %s is a directory", path)
		}
	}

	loggerFromContext(ctx).Debug("discovered inputs", "path", path, "files", len(files), "extensions", po.Extensions)
	if len(files) == 0 {
		printWarning("No %v files in %s", po.Extensions, path)
		return nil
	}

	if opts.dryRun {
		for _, f := range files {
			out := opts.output
			if out == "" {
				out = pkgio.OutputPath(f)
			}
			printInfo("%s %s %s", f, StyleDim.Render(iconArrow), out)
		}
		printDetail("%d file(s), nothing written", len(files))
		return nil
	}

	runner, store, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	var results []pipeline.FileResult
	switch {
	case opts.output != "":
		po.Output = opts.output
		res := runner.ConvertFile(ctx, files[0], po)
		printResult(res)
		results = []pipeline.FileResult{res}
	case opts.progress && isatty.IsTerminal(os.Stdout.Fd()):
		results, err = runWithProgress(ctx, runner, files, po)
		if err != nil {
			return err
		}
	default:
		var mu sync.Mutex
		results = runner.ConvertAll(ctx, files, po, func(res pipeline.FileResult) {
			mu.Lock()
			defer mu.Unlock()
			printResult(res)
		})
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	summary := pipeline.Summarize(results)
	if summary.Total > 1 {
		printSummary(summary, time.Since(start))
	}
	if summary.Failed > 0 {
		return &partialFailure{failed: summary.Failed, total: summary.Total}
	}
	return nil
}

// partialFailure is returned after a run in which some files failed. Every
// file was still attempted.
type partialFailure struct {
	failed, total int
}

func (e *partialFailure) Error() string {
	return fmt.Sprintf("%d of %d file(s) failed", e.failed, e.total)
}

// IsPartialFailure reports whether err only signals per-file failures.
func IsPartialFailure(err error) bool {
	_, ok := err.(*partialFailure)
	return ok
}

// runWithProgress converts files while the progress view is shown.
func runWithProgress(ctx context.Context, runner *pipeline.Runner, files []string, opts pipeline.Options) ([]pipeline.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := newProgressProgram(len(files), cancel)
	done := make(chan []pipeline.FileResult, 1)
	go func() {
		results := runner.ConvertAll(ctx, files, opts, func(res pipeline.FileResult) {
			prog.Send(fileDoneMsg{res})
		})
		prog.Send(batchDoneMsg{})
		done <- results
	}()

	if _, err := prog.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	results := <-done
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, res := range results {
		if res.Err != nil {
			printResult(res)
		}
	}
	return results, nil
}
