package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/png2svg/pkg/cache"
	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
	pkgio "github.com/matzehuels/png2svg/pkg/io"
	"github.com/matzehuels/png2svg/pkg/observability"
	"github.com/matzehuels/png2svg/pkg/vectorize"
)

// cacheKeyType labels cache events for observability hooks.
const cacheKeyType = "svg"

// Runner encapsulates conversion with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store conversion results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedConversion is the cache payload for one converted image.
type cachedConversion struct {
	SVG   []byte          `json:"svg"`
	Stats vectorize.Stats `json:"stats"`
}

// ConvertBytes decodes an encoded raster image and converts it to SVG.
// Results are looked up in and written to the cache; cache failures are
// logged and otherwise ignored.
func (r *Runner) ConvertBytes(ctx context.Context, data []byte, opts Options) (*Conversion, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	if _, err := pkgio.CheckSize(bytes.NewReader(data), opts.MaxPixels); err != nil {
		return nil, err
	}
	key := r.Keyer.SVGKey(cache.Hash(data), opts.keyOpts())

	if !opts.Refresh {
		if conv, ok := r.lookup(ctx, key); ok {
			conv.Duration = time.Since(start)
			return conv, nil
		}
	}

	img, err := pkgio.ReadImage(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	res := vectorize.Vectorize(vectorize.FromImage(img), opts.vectorizeOptions())

	r.store(ctx, key, cachedConversion{SVG: res.SVG, Stats: res.Stats}, opts.TTL)

	return &Conversion{
		SVG:      res.SVG,
		Stats:    res.Stats,
		Duration: time.Since(start),
	}, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Conversion, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	var cached cachedConversion
	if err := json.Unmarshal(data, &cached); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &Conversion{SVG: cached.SVG, Stats: cached.Stats, CacheHit: true}, true
}

func (r *Runner) store(ctx context.Context, key string, entry cachedConversion, ttl time.Duration) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// ConvertFile converts the image at path and writes the SVG next to it (or
// to opts.Output when set). The returned result carries any error.
func (r *Runner) ConvertFile(ctx context.Context, path string, opts Options) FileResult {
	res := FileResult{Input: path, Output: opts.Output}
	if res.Output == "" {
		res.Output = pkgio.OutputPath(path)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		res.Err = err
		return res
	}

	name := filepath.Base(path)
	observability.Convert().OnConvertStart(ctx, name)
	start := time.Now()

	res.Err = r.convertFile(ctx, path, opts, &res)
	res.Duration = time.Since(start)

	observability.Convert().OnConvertComplete(ctx, name, res.Stats.Regions, res.Duration, res.Err)
	if res.Err != nil {
		r.Logger.Error("conversion failed", "file", path, "err", pkgerr.UserMessage(res.Err))
	} else {
		r.Logger.Info("converted",
			"file", path,
			"output", res.Output,
			"regions", res.Stats.Regions,
			"cached", res.CacheHit,
			"duration", res.Duration.Round(time.Millisecond))
	}
	return res
}

func (r *Runner) convertFile(ctx context.Context, path string, opts Options, res *FileResult) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return pkgerr.Wrap(pkgerr.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return pkgerr.Wrap(pkgerr.ErrCodeDecode, err, "read %s", path)
	}

	conv, err := r.ConvertBytes(ctx, data, opts)
	if err != nil {
		return err
	}
	res.Stats = conv.Stats
	res.CacheHit = conv.CacheHit

	return pkgio.ExportSVG(res.Output, conv.SVG)
}

// ConvertAll converts every path with at most opts.Workers conversions in
// flight. Results are returned in input order. onDone, when non-nil, is
// called from worker goroutines as each file finishes and must be safe for
// concurrent use.
func (r *Runner) ConvertAll(ctx context.Context, paths []string, opts Options, onDone func(FileResult)) []FileResult {
	results := make([]FileResult, len(paths))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		for i, p := range paths {
			results[i] = FileResult{Input: p, Err: err}
		}
		return results
	}
	opts.Output = ""

	runID := uuid.NewString()
	batch := &Runner{Cache: r.Cache, Keyer: r.Keyer, Logger: r.Logger.With("run", runID[:8])}
	batch.Logger.Debug("starting batch", "files", len(paths), "workers", opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, path := range paths {
		i, path := i, path
		if gctx.Err() != nil {
			results[i] = FileResult{Input: path, Output: pkgio.OutputPath(path), Err: gctx.Err()}
			continue
		}
		g.Go(func() error {
			// Files queued behind SetLimit may start after cancellation.
			var res FileResult
			if err := gctx.Err(); err != nil {
				res = FileResult{Input: path, Output: pkgio.OutputPath(path), Err: err}
			} else {
				res = batch.ConvertFile(gctx, path, opts)
			}
			results[i] = res
			if onDone != nil {
				onDone(res)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return results
}
