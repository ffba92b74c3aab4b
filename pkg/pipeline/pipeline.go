// Package pipeline runs image-to-SVG conversions for the CLI and the HTTP
// server.
//
// This package wraps the pure [vectorize] core with everything a real run
// needs: reading input bytes, result caching, writing sibling output files,
// logging, observability hooks and a bounded worker pool for batches. By
// centralizing this logic, the CLI and the server behave identically.
//
// # Usage
//
// Convert a single in-memory image:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	conv, err := runner.ConvertBytes(ctx, data, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(conv.SVG)
//
// Convert many files, each written next to its input:
//
//	results := runner.ConvertAll(ctx, paths, pipeline.Options{Workers: 8}, nil)
//	summary := pipeline.Summarize(results)
//
// # Failure Domains
//
// Every file is converted independently. A decode or write failure is
// recorded in that file's [FileResult] and never stops the other files.
// Cancelling the context prevents files that have not started yet from being
// converted, including files already waiting for a free worker. Images larger
// than [Options.MaxPixels] are rejected from their header alone.
//
// [vectorize]: github.com/matzehuels/png2svg/pkg/vectorize
package pipeline

import (
	"runtime"
	"time"

	"github.com/matzehuels/png2svg/pkg/cache"
	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
	"github.com/matzehuels/png2svg/pkg/vectorize"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultExtension is the raster extension accepted when none is configured.
	DefaultExtension = ".png"

	// DefaultTTL is how long converted documents stay cached.
	DefaultTTL = cache.DefaultTTL

	// DefaultMaxPixels caps the decoded size of a single input image.
	DefaultMaxPixels int64 = 1 << 26
)

// DefaultWorkers returns the default batch parallelism.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a conversion run.
type Options struct {
	// KeepEveryPoint keeps collinear lattice points in the output paths.
	KeepEveryPoint bool `json:"keep_every_point,omitempty" toml:"keep_every_point"`

	// Workers bounds how many files are converted at once.
	Workers int `json:"workers,omitempty" toml:"workers"`

	// Extensions lists the raster extensions picked up from directories.
	Extensions []string `json:"extensions,omitempty" toml:"extensions"`

	// MaxPixels rejects images whose width times height exceeds it.
	MaxPixels int64 `json:"max_pixels,omitempty" toml:"max_pixels"`

	// TTL is the cache lifetime of converted documents.
	TTL time.Duration `json:"-" toml:"-"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Output overrides the output path. Only valid for single-file runs.
	Output string `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 {
		return pkgerr.New(pkgerr.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.MaxPixels < 0 {
		return pkgerr.New(pkgerr.ErrCodeInvalidConfig, "max_pixels must not be negative, got %d", o.MaxPixels)
	}
	if o.MaxPixels == 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{DefaultExtension}
	}
	exts, err := pkgerr.ValidateExtensions(o.Extensions)
	if err != nil {
		return err
	}
	o.Extensions = exts
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	o.validated = true
	return nil
}

func (o Options) vectorizeOptions() vectorize.Options {
	return vectorize.Options{KeepEveryPoint: o.KeepEveryPoint}
}

func (o Options) keyOpts() cache.SVGKeyOpts {
	return cache.SVGKeyOpts{KeepEveryPoint: o.KeepEveryPoint}
}

// =============================================================================
// Results
// =============================================================================

// Conversion is the outcome of converting one image.
type Conversion struct {
	SVG      []byte
	Stats    vectorize.Stats
	CacheHit bool
	Duration time.Duration
}

// FileResult is the outcome of converting one file. Err is nil on success.
type FileResult struct {
	Input    string
	Output   string
	Stats    vectorize.Stats
	CacheHit bool
	Duration time.Duration
	Err      error
}

// Summary aggregates a batch.
type Summary struct {
	Total     int
	Converted int
	Cached    int
	Failed    int
	Regions   int
}

// Summarize counts the outcomes of a batch.
func Summarize(results []FileResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Converted++
		s.Regions += r.Stats.Regions
		if r.CacheHit {
			s.Cached++
		}
	}
	return s
}
