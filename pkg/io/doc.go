// Package io reads raster images from disk and writes SVG documents back.
//
// # Input
//
// [ImportImage] and [ReadImage] decode PNG, JPEG, GIF, BMP, TIFF and WebP
// sources through github.com/disintegration/imaging. EXIF orientation is
// ignored so output coordinates always match the stored pixel grid.
// [CheckSize] reads only the header, so oversized images are refused with
// INPUT_TOO_LARGE before any pixels are decoded.
//
// # Discovery
//
// [Discover] turns a user-supplied path into the list of files to convert:
//
//   - A regular file must carry one of the allowed extensions, otherwise an
//     INVALID_EXTENSION error is returned.
//   - A directory yields every regular file directly inside it whose
//     extension matches (case-insensitively), sorted by name. Symlinks count
//     when their target is a regular file. Subdirectories are not entered.
//   - A missing path yields FILE_NOT_FOUND.
//
// # Output
//
// [OutputPath] replaces the raster extension with ".svg", producing a sibling
// of the input. [ExportSVG] writes through a temporary file in the target
// directory and renames it into place, so a failed write never leaves a
// truncated document behind.
package io
