package dbflat

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxDecodedSize bounds the memory a single zstd payload may expand into.
const maxDecodedSize = 64 << 20

var (
	zstdOnce sync.Once
	zstdDec  *zstd.Decoder
	zstdErr  error
)

// zstdDecoder returns the shared decoder. DecodeAll is safe for concurrent
// use, so one instance serves every record.
func zstdDecoder() (*zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdDec, zstdErr = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(0),
			zstd.WithDecoderMaxMemory(maxDecodedSize),
		)
	})
	return zstdDec, zstdErr
}

// decompressData expands a payload according to the compressor ID in
// compFlags. Raw payloads are returned as is.
func decompressData(compFlags uint16, blob []byte) ([]byte, error) {
	switch compFlags & CompressionMask {
	case CompRaw:
		return blob, nil
	case CompZstd:
		dec, err := zstdDecoder()
		if err != nil {
			return nil, err
		}
		out, err := dec.DecodeAll(blob, nil)
		if err != nil {
			return nil, fmt.Errorf("dbflat: zstd: %w", err)
		}
		return out, nil
	default:
		// RLE, Huffman and LZ4 IDs are reserved but have no codec yet.
		return nil, fmt.Errorf("%w: %#x", ErrUnknownCompression, compFlags&CompressionMask)
	}
}
