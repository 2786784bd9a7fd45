package cmd

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"go-drummer/audio"
	"go-drummer/debug"
	"go-drummer/pads"
)

// loadLimit caps concurrent asset fetches
const loadLimit = 4

// loader fetches and decodes one pad source
type loader func(ctx context.Context, src string) (pads.Sink, error)

func engineLoader(e *audio.Engine) loader {
	return func(ctx context.Context, src string) (pads.Sink, error) {
		v, err := e.Load(ctx, src)
		if err != nil {
			return nil, err // never a typed-nil Sink
		}
		return v, nil
	}
}

// loadAll attaches every pad it can load and returns how many loaded.
// A failing pad is logged and stays silent.
func loadAll(ctx context.Context, load loader, machine *pads.Machine, timeout time.Duration, limit int) int {
	var g errgroup.Group
	g.SetLimit(limit)

	var loaded atomic.Int32
	for _, e := range machine.Registry().Entries() {
		g.Go(func() error {
			lctx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				lctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			sink, err := load(lctx, e.Source)
			if err != nil {
				debug.Log("audio", "load %s (%s): %v", e.Key, e.Label, err)
				return nil
			}
			if err := machine.Attach(e.Key, sink); err != nil {
				debug.Log("audio", "attach %s: %v", e.Key, err)
				return nil
			}
			loaded.Add(1)
			debug.Log("audio", "loaded %s in %s", e.Key, time.Since(start).Round(time.Millisecond))
			return nil
		})
	}
	_ = g.Wait()
	return int(loaded.Load())
}
