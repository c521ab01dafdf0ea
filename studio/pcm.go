package studio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodePCM16 splits interleaved little-endian signed 16-bit samples into
// one float32 slice per channel, scaled to [-1, 1).
func DecodePCM16(data []byte, channels int) ([][]float32, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if len(data)%(2*channels) != 0 {
		return nil, fmt.Errorf("truncated PCM16 data: %d bytes for %d channels", len(data), channels)
	}
	frames := len(data) / (2 * channels)
	res := make([][]float32, channels)
	for c := range res {
		res[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			off := 2 * (i*channels + c)
			sample := int16(binary.LittleEndian.Uint16(data[off:]))
			res[c][i] = float32(sample) / 32768
		}
	}
	return res, nil
}

// EncodePCM16 converts mono samples in [-1, 1] to little-endian signed 16-bit PCM.
func EncodePCM16(samples []float32) []byte {
	res := make([]byte, 2*len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32768)
		v = max(math.MinInt16, min(math.MaxInt16, v))
		binary.LittleEndian.PutUint16(res[2*i:], uint16(int16(v)))
	}
	return res
}
