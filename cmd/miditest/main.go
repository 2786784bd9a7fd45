package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-drummer/control"
	dmidi "go-drummer/midi"
	"go-drummer/pads"
	"go-drummer/theme"
)

const baseNote = 36

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect()
	case "leds":
		testLEDs()
	case "pads":
		watchPads()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  detect  - Show the controllers drummer would open")
	fmt.Println("  leds    - Light the drum layout on a Launchpad")
	fmt.Println("  pads    - Print what each pad, button and note maps to")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

// connect runs a device manager until the first scan settles and returns
// what is connected, sorted by ID. Cancel the context to close the controllers.
func connect(ctx context.Context) []dmidi.Controller {
	dm := dmidi.NewDeviceManager(time.Second, true, baseNote)
	go dm.Run(ctx)

	settle := time.After(1500 * time.Millisecond)
	for {
		select {
		case <-dm.Events():
			// drained so the scan never blocks; the settled set is read below
		case <-settle:
			found := slices.Collect(maps.Values(dm.Controllers()))
			slices.SortFunc(found, func(a, b dmidi.Controller) int {
				return strings.Compare(a.ID(), b.ID())
			})
			return found
		}
	}
}

func detect() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	found := connect(ctx)
	if len(found) == 0 {
		fmt.Println("No controllers found")
		return
	}
	for _, c := range found {
		fmt.Printf("  %-10s %s\n", c.Type(), c.ID())
	}
}

func newMachine() *pads.Machine {
	reg, err := pads.GetKit(pads.DefaultKit).Registry()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return pads.NewMachine(pads.Options{Registry: reg, Volume: float64(pads.DefaultVolume) / 100})
}

func testLEDs() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	machine := newMachine()
	defer machine.Close()
	leds := control.RenderLEDs(machine.Snapshot(), theme.New(nil))

	var updates []dmidi.LEDUpdate
	for _, l := range leds {
		updates = append(updates, dmidi.LEDUpdate{Row: l.Row, Col: l.Col, Color: l.Color})
	}

	lit := 0
	for _, c := range connect(ctx) {
		if c.Type() != dmidi.ControllerLaunchpad {
			continue
		}
		if err := c.SetLEDBatch(updates); err != nil {
			fmt.Printf("Error: %s: %v\n", c.ID(), err)
			continue
		}
		fmt.Printf("Lit %d LEDs on %s\n", len(updates), c.ID())
		lit++
	}
	if lit == 0 {
		fmt.Println("No Launchpad found")
		return
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	fmt.Println("Done!")
}

func watchPads() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg, _ := pads.GetKit(pads.DefaultKit).Registry()
	found := connect(ctx)
	if len(found) == 0 {
		fmt.Println("No controllers found")
		return
	}
	fmt.Println("Press pads or play notes. Ctrl+C to exit.")

	for _, c := range found {
		go func() {
			for a := range c.Actions() {
				switch a.Type {
				case dmidi.ActionPad:
					fmt.Printf("[%s] pad %d -> %s\n", c.ID(), a.Pad, reg.At(a.Pad).Label)
				case dmidi.ActionPower:
					fmt.Printf("[%s] power\n", c.ID())
				case dmidi.ActionBank:
					fmt.Printf("[%s] bank\n", c.ID())
				case dmidi.ActionVolume:
					fmt.Printf("[%s] volume %d\n", c.ID(), a.Value)
				}
			}
		}()
	}

	<-ctx.Done()
}
