// Hardware diagnostic for grid controllers. Run the subcommands with a
// Launchpad attached to verify ports, programmer mode, LED batches, and
// pad press/release forwarding without starting the full TUI.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	gmidi "github.com/kukuen/gridseq/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectController()
	case "leds":
		testLEDs()
	case "events":
		watchEvents()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("gridseq hardware diagnostic")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - list all MIDI ports")
	fmt.Println("  detect  - find a Launchpad")
	fmt.Println("  leds    - enter programmer mode and draw a test pattern")
	fmt.Println("  events  - print pad presses and releases")
}

func listPorts() {
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
		fmt.Println("=== Inputs ===")
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("=== Outputs ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("timeout enumerating ports; the MIDI backend is hung")
	}
}

func findLaunchpad() (drivers.In, drivers.Out) {
	var in drivers.In
	var out drivers.Out
	for _, p := range midi.GetInPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			in = p
			break
		}
	}
	for _, p := range midi.GetOutPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			out = p
			break
		}
	}
	return in, out
}

func detectController() {
	in, out := findLaunchpad()
	if in == nil || out == nil {
		fmt.Println("no Launchpad found")
		return
	}
	fmt.Printf("input:  %s\noutput: %s\n", in.String(), out.String())
}

func connect() *gmidi.LaunchpadController {
	in, out := findLaunchpad()
	if in == nil || out == nil {
		fmt.Println("no Launchpad found")
		os.Exit(1)
	}
	lp, err := gmidi.NewLaunchpadController(in.String(), in, out)
	if err != nil {
		fmt.Printf("connect: %v\n", err)
		os.Exit(1)
	}
	return lp
}

func testLEDs() {
	lp := connect()
	defer lp.Close()

	fmt.Println("drawing diagonal...")
	var updates []gmidi.LEDUpdate
	for i := 0; i < 8; i++ {
		updates = append(updates, gmidi.LEDUpdate{
			Row: i, Col: i, Color: [3]uint8{0, 255, 0}, Channel: gmidi.ChannelStatic,
		})
	}
	if err := lp.SetLEDBatch(updates); err != nil {
		fmt.Printf("batch: %v\n", err)
		return
	}

	fmt.Println("press Enter to clear...")
	fmt.Scanln()
}

func watchEvents() {
	lp := connect()
	defer lp.Close()

	fmt.Println("press pads; Ctrl+C to exit")
	for ev := range lp.PadEvents() {
		kind := "press"
		if ev.Velocity == 0 {
			kind = "release"
		}
		fmt.Printf("%s row=%d col=%d vel=%d\n", kind, ev.Row, ev.Col, ev.Velocity)
	}
}
