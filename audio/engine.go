// Package audio plays pad samples through the beep speaker.
//
// Every loaded sample becomes a Voice: a streamer that is added to the speaker
// once and plays silence until triggered. Triggering swaps in a fresh read of
// the decoded buffer, so replays always start from the first sample.
package audio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"go-drummer/debug"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrTooLarge          = errors.New("audio asset too large")
	ErrSampleRate        = errors.New("sample rate out of range")
)

// Audio output defaults
const (
	DefaultSampleRate = 44100
	DefaultBuffer     = 50 * time.Millisecond
	DefaultMaxBytes   = 16 << 20
	DefaultMaxClip    = 30 * time.Second
	MinSampleRate     = 8000
	MaxSampleRate     = 192000
	resampleQuality   = 4
)

// Options configures the engine
type Options struct {
	SampleRate int
	Buffer     time.Duration // speaker buffer; latency vs. underruns
	MaxBytes   int64         // per-asset download limit
	MaxClip    time.Duration // decoded clips are cut at this length
	Client     *http.Client
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Buffer <= 0 {
		o.Buffer = DefaultBuffer
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxClip <= 0 {
		o.MaxClip = DefaultMaxClip
	}
	if o.Client == nil {
		o.Client = &http.Client{Timeout: 30 * time.Second}
	}
	return o
}

// Engine decodes assets into voices and mixes them on the speaker
type Engine struct {
	format   beep.Format
	lock     sync.Locker
	play     func(...beep.Streamer)
	clear    func()
	client   *http.Client
	maxBytes int64
	maxClip  time.Duration
}

// NewEngine opens the default audio device
func NewEngine(opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	sr := beep.SampleRate(opts.SampleRate)
	if err := speaker.Init(sr, sr.N(opts.Buffer)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	debug.Log("audio", "speaker %dHz buffer=%s", opts.SampleRate, opts.Buffer)
	return newEngine(opts, speakerLock{}, speaker.Play, speaker.Clear), nil
}

func newEngine(opts Options, lock sync.Locker, play func(...beep.Streamer), clear func()) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		format: beep.Format{
			SampleRate:  beep.SampleRate(opts.SampleRate),
			NumChannels: 2,
			Precision:   2,
		},
		lock:     lock,
		play:     play,
		clear:    clear,
		client:   opts.Client,
		maxBytes: opts.MaxBytes,
		maxClip:  opts.MaxClip,
	}
}

// Format is the output format every clip is converted to
func (e *Engine) Format() beep.Format {
	return e.format
}

// Load fetches and decodes locator and attaches a new voice to the output
func (e *Engine) Load(ctx context.Context, locator string) (*Voice, error) {
	data, err := e.fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	clip, err := e.decode(locator, data)
	if err != nil {
		return nil, err
	}

	v := newVoice(e.lock, clip)
	e.play(v)
	debug.Log("audio", "loaded %s (%d samples)", locator, clip.Len())
	return v, nil
}

// Close removes all voices from the output
func (e *Engine) Close() {
	if e.clear != nil {
		e.clear()
	}
}

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }
