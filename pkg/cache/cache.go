// Package cache stores finished conversions so unchanged inputs are not
// traced twice.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several workers or server instances
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] and are derived from the SHA-256 of the raw input
// bytes plus every option that changes the output, so a cache hit always
// returns byte-identical SVG.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// DefaultTTL is how long converted documents are kept.
const DefaultTTL = 7 * 24 * time.Hour

// FormatVersion is mixed into every key. Bump it whenever the emitted SVG
// changes for the same input so stale documents are never served.
const FormatVersion = 1

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SVGKeyOpts lists the options that influence a conversion's output.
type SVGKeyOpts struct {
	KeepEveryPoint bool `json:"keep_every_point,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	SVGKey(inputHash string, opts SVGKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form "svg:v1:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SVGKey generates the key for a converted document.
func (DefaultKeyer) SVGKey(inputHash string, opts SVGKeyOpts) string {
	h := sha256.New()
	h.Write([]byte(inputHash))
	h.Write([]byte{0, byte(FormatVersion)})
	if opts.KeepEveryPoint {
		h.Write([]byte("keep"))
	}
	return "svg:v" + strconv.Itoa(FormatVersion) + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data, used to identify raw inputs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
