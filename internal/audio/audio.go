// Package audio loads WAV tracks and slices them into clip-sized segments.
// Tracks are normalised once on load: mono, 16-bit, at the target sample
// rate. All later slicing works on the normalised samples.
package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Track is a mono 16-bit PCM buffer at a known sample rate.
type Track struct {
	samples []int
	rate    int
}

// New wraps existing mono 16-bit samples in a Track.
func New(samples []int, rate int) *Track {
	return &Track{samples: samples, rate: rate}
}

// Load reads a WAV file and normalises it to mono 16-bit at targetRate.
// Downmix and resampling are lossy and deterministic, applied once here.
func Load(path string, targetRate int) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("wav missing format info: %s", path)
	}

	samples := buf.Data
	if buf.Format.NumChannels > 1 {
		samples = downmix(samples, buf.Format.NumChannels)
	}
	if depth := buf.SourceBitDepth; depth != 0 && depth != 16 {
		samples = rescaleBitDepth(samples, depth)
	}
	if buf.Format.SampleRate != targetRate {
		samples = resample(samples, buf.Format.SampleRate, targetRate)
	}
	return &Track{samples: samples, rate: targetRate}, nil
}

// Rate returns the track's sample rate in Hz.
func (t *Track) Rate() int { return t.rate }

// Len returns the number of samples.
func (t *Track) Len() int { return len(t.samples) }

// DurationMs returns the track duration in milliseconds.
func (t *Track) DurationMs() float64 {
	return float64(len(t.samples)) * 1000 / float64(t.rate)
}

// Slice returns the sub-track covering [startMs, endMs). Bounds are
// clamped to the track; an inverted or out-of-range window yields an
// empty track.
func (t *Track) Slice(startMs, endMs float64) *Track {
	lo := int(startMs * float64(t.rate) / 1000)
	hi := int(endMs * float64(t.rate) / 1000)
	if lo < 0 {
		lo = 0
	}
	if hi > len(t.samples) {
		hi = len(t.samples)
	}
	if lo >= hi {
		return &Track{rate: t.rate}
	}
	return &Track{samples: t.samples[lo:hi], rate: t.rate}
}

// Export writes the track as a mono 16-bit PCM WAV file.
func (t *Track) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio: %w", err)
	}
	enc := wav.NewEncoder(f, t.rate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: t.rate},
		Data:           t.samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("write audio: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalise audio: %w", err)
	}
	return f.Close()
}

// downmix averages interleaved channels into mono.
func downmix(samples []int, channels int) []int {
	frames := len(samples) / channels
	out := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		out[i] = sum / channels
	}
	return out
}

// rescaleBitDepth shifts samples from the source bit depth to 16-bit.
func rescaleBitDepth(samples []int, sourceDepth int) []int {
	shift := sourceDepth - 16
	if shift == 0 {
		return samples
	}
	out := make([]int, len(samples))
	if shift > 0 {
		for i, s := range samples {
			out[i] = s >> uint(shift)
		}
	} else {
		for i, s := range samples {
			out[i] = s << uint(-shift)
		}
	}
	return out
}

// resample converts samples from srcRate to dstRate by linear
// interpolation.
func resample(samples []int, srcRate, dstRate int) []int {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	outLen := int(int64(len(samples)) * int64(dstRate) / int64(srcRate))
	if outLen == 0 {
		return nil
	}
	out := make([]int, outLen)
	ratio := float64(srcRate) / float64(dstRate)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = int(float64(samples[j])*(1-frac) + float64(samples[j+1])*frac)
	}
	return out
}
