// Package vectorize converts raster pixel grids into flat-colour SVG documents.
//
// # Overview
//
// The conversion is a four-stage pipeline over immutable inputs:
//
//  1. [Segment]: partition opaque pixels into maximal 4-connected regions of
//     one exact RGBA colour.
//  2. [Boundary]: collect the unit edges separating each region from
//     everything that is not a member of it.
//  3. [Join]: walk each region's edges into closed point loops (contours).
//  4. [WriteSVG]: emit one filled path per region.
//
// [Vectorize] runs all four stages and returns the document together with
// statistics. [Trace] stops after stage 3 and returns the geometry.
//
// # Coordinates
//
// Pixels are addressed as (x, y) with (0,0) at the top-left and y growing
// downward. Contour points live on the corner lattice: pixel (x, y) occupies
// the unit square with corners (x,y) and (x+1,y+1). Boundary edges wind
// counter-clockwise on screen around the filled area.
//
// # Transparency
//
// Pixels with alpha 0 belong to no region and are treated as exterior. Every
// other alpha value is kept verbatim and becomes the region's fill-opacity.
//
// # Concurrency
//
// All functions are pure and keep no state between calls. Independent grids
// may be converted concurrently from multiple goroutines.
package vectorize
