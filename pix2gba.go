/*
Package pix2gba is a library for converting images into packed tile data
for the Game Boy Advance.

Each image is a unit: it is given a palette of at most 2^bpp hardware colors
with the transparent color in slot 0, padded out to whole 8x8 tiles, packed
into 32-bit words in metatile order and then optionally deduplicated and LZ77
compressed before being written out as C source or a binary asset.
*/
package pix2gba

import (
	"log"
	"runtime"
	"time"

	"github.com/bodgit/pix2gba/lz77"
)

// Compressor compresses packed tile data.
type Compressor interface {
	Compress(src []byte) ([]byte, error)
}

// CompressorFunc adapts an ordinary function to the Compressor interface.
type CompressorFunc func([]byte) ([]byte, error)

// Compress calls f(src).
func (f CompressorFunc) Compress(src []byte) ([]byte, error) {
	return f(src)
}

// Builder converts units and writes their output.
type Builder struct {
	cache      *Cache
	logger     *log.Logger
	compressor Compressor
	jobs       int
	now        func() time.Time
}

// New returns a Builder. If cache is not empty it names a sqlite database
// used to skip units that have not changed since they were last converted.
func New(cache string, logger *log.Logger) (*Builder, error) {
	b := &Builder{
		logger:     logger,
		compressor: CompressorFunc(lz77.Compress),
		jobs:       runtime.NumCPU(),
		now:        time.Now,
	}

	if cache != "" {
		c, err := NewCache(cache)
		if err != nil {
			return nil, err
		}
		b.cache = c
	}

	return b, nil
}

// SetJobs sets how many units are converted at once.
func (b *Builder) SetJobs(n int) {
	if n < 1 {
		n = 1
	}
	b.jobs = n
}

// Close closes the cache, if any.
func (b *Builder) Close() error {
	if b.cache != nil {
		return b.cache.Close()
	}
	return nil
}
