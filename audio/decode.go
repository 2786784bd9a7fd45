package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/go-audio/wav"
)

const (
	formatMP3 = ".mp3"
	formatWAV = ".wav"
)

// fetch reads an asset from http(s), file:// or a local path
func (e *Engine) fetch(ctx context.Context, locator string) ([]byte, error) {
	u, err := url.Parse(locator)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", locator, err)
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", locator, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", locator, resp.Status)
		}
		return readLimited(locator, resp.Body, e.maxBytes)
	}

	p := locator
	if err == nil && u.Scheme == "file" {
		p = u.Path
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", locator, err)
	}
	defer f.Close()
	return readLimited(locator, f, e.maxBytes)
}

func readLimited(locator string, r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", locator, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", locator, ErrTooLarge, max)
	}
	return data, nil
}

// formatOf picks a decoder from the extension, falling back to magic bytes
func formatOf(locator string, data []byte) string {
	p := locator
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		p = u.Path
	}
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case formatMP3, formatWAV:
		return ext
	}

	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return formatWAV
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return formatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return formatMP3 // frame sync
	}
	return ""
}

// decode converts an asset into a buffer at the engine's format
func (e *Engine) decode(locator string, data []byte) (*beep.Buffer, error) {
	var (
		s      beep.Streamer
		format beep.Format
	)

	switch formatOf(locator, data) {
	case formatMP3:
		ss, f, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", locator, err)
		}
		defer ss.Close()
		s, format = ss, f
	case formatWAV:
		p, f, err := decodeWAV(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", locator, err)
		}
		s, format = p, f
	default:
		return nil, fmt.Errorf("%s: %w", locator, ErrUnsupportedFormat)
	}

	// a zero rate never drains the resampler and a tiny one inflates the clip
	if format.SampleRate < MinSampleRate || format.SampleRate > MaxSampleRate {
		return nil, fmt.Errorf("decode %s: %w (%d Hz)", locator, ErrSampleRate, format.SampleRate)
	}
	if format.SampleRate != e.format.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, e.format.SampleRate, s)
	}
	buf := beep.NewBuffer(e.format)
	buf.Append(beep.Take(e.format.SampleRate.N(e.maxClip), s))
	return buf, nil
}

// decodeWAV reads integer PCM with go-audio and converts it to stereo floats
func decodeWAV(data []byte) (*pcm, beep.Format, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, beep.Format{}, errors.New("invalid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, beep.Format{}, err
	}

	channels := buf.Format.NumChannels
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(d.BitDepth)
	}
	if channels <= 0 || depth <= 0 {
		return nil, beep.Format{}, errors.New("wav header missing channels or bit depth")
	}

	scale := float64(int(1) << (depth - 1))
	offset := 0
	if depth == 8 {
		offset = 128 // 8-bit PCM is unsigned
	}
	sample := func(v int) float64 {
		return float64(v-offset) / scale
	}

	frames := len(buf.Data) / channels
	out := make([][2]float64, frames)
	for i := 0; i < frames; i++ {
		l := sample(buf.Data[i*channels])
		r := l
		if channels > 1 {
			r = sample(buf.Data[i*channels+1])
		}
		out[i] = [2]float64{l, r}
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(buf.Format.SampleRate),
		NumChannels: 2,
		Precision:   (depth + 7) / 8,
	}
	return &pcm{samples: out}, format, nil
}

// pcm streams decoded samples once
type pcm struct {
	samples [][2]float64
	pos     int
}

func (p *pcm) Stream(samples [][2]float64) (int, bool) {
	if p.pos >= len(p.samples) {
		return 0, false
	}
	n := copy(samples, p.samples[p.pos:])
	p.pos += n
	return n, true
}

func (p *pcm) Err() error {
	return nil
}
