// Package pkg provides the libraries behind png2svg.
//
// # Overview
//
// png2svg turns raster images into SVG documents made of one filled path per
// contiguous colour region. Pixel edges are kept exactly, so the output is a
// lossless vector rendition of the input. The pkg directory is organized
// into these areas:
//
//  1. [vectorize] - Core tracing (segmentation, boundaries, contours, SVG)
//  2. [io] - Image decoding, input discovery and atomic SVG writes
//  3. [pipeline] - Orchestration (decode → trace → cache → write, batches)
//  4. [cache] - File and Redis result caches
//  5. [server] - HTTP API over the pipeline
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The data flow through png2svg:
//
//	PNG/WebP/... bytes
//	         ↓
//	    [io] package (decode to image.Image)
//	         ↓
//	    [vectorize] package (regions → edges → contours → SVG)
//	         ↓
//	    [pipeline] package (cache, per-file results, worker pool)
//	         ↓
//	    sibling .svg files or HTTP responses
//
// # Quick Start
//
//	img, err := io.ImportImage("sprite.png")
//	if err != nil {
//	    return err
//	}
//	res := vectorize.Vectorize(vectorize.FromImage(img), vectorize.Options{})
//	err = io.ExportSVG("sprite.svg", res.SVG)
//
// For batches with caching use [pipeline.Runner.ConvertAll].
//
// [vectorize]: github.com/matzehuels/png2svg/pkg/vectorize
// [io]: github.com/matzehuels/png2svg/pkg/io
// [pipeline]: github.com/matzehuels/png2svg/pkg/pipeline
// [pipeline.Runner.ConvertAll]: github.com/matzehuels/png2svg/pkg/pipeline#Runner.ConvertAll
// [cache]: github.com/matzehuels/png2svg/pkg/cache
// [server]: github.com/matzehuels/png2svg/pkg/server
// [errors]: github.com/matzehuels/png2svg/pkg/errors
// [observability]: github.com/matzehuels/png2svg/pkg/observability
// [buildinfo]: github.com/matzehuels/png2svg/pkg/buildinfo
package pkg
