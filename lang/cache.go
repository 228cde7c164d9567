package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// parseCache maps a cacheKey to the *cacheEntry holding the parse result of
// one source text under one set of options.
//
//nolint:gochecknoglobals
var parseCache sync.Map

type cacheKey struct {
	source xxh3.Uint128
	opts   uint64
}

type cacheEntry struct {
	once sync.Once
	file *File
	err  error
}

// hashOptions encodes the options that affect parsing using gob and hashes
// them with xxh3.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(o.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader parses a JAMAL program read from r.
// Read failures match [ErrFileRead] with [errors.Is].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*File, error) {
	// Wrap reader with async read-ahead so large inputs are fetched while
	// earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrFileRead.Wrap(err)
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return parseCached(ctx, string(data), o)
}

// parseCached parses src, reusing the result of any earlier parse of the
// same text with equivalent options.
func parseCached(ctx context.Context, src string, o options) (*File, error) {
	key := cacheKey{
		source: xxh3.Hash128([]byte(src)),
		opts:   hashOptions(o),
	}

	value, hit := parseCache.LoadOrStore(key, new(cacheEntry))

	entry, ok := value.(*cacheEntry)
	if !ok {
		return parse(ctx, src, o)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.source.Lo, 16)),
		slog.String("opts_hash", strconv.FormatUint(key.opts, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.file, entry.err = parse(ctx, src, o)
	})

	return entry.file, entry.err
}

// ClearCache removes all cached parse trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	parseCache.Clear()
}
