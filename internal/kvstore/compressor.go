package kvstore

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor packs backup snapshots. Encoder and decoder are reused
// across calls and are safe for concurrent use.
type ZstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZstdCompressor() (*ZstdCompressor, error) {
	// Snapshots are written at most once per backup interval.
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ZstdCompressor{encoder: encoder, decoder: decoder}, nil
}

func (z *ZstdCompressor) Compress(snapshot []byte) ([]byte, error) {
	return z.encoder.EncodeAll(snapshot, nil), nil
}

func (z *ZstdCompressor) Decompress(packed []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

func (z *ZstdCompressor) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}
