package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kukuen/gridseq/clip"
	"github.com/kukuen/gridseq/config"
	"github.com/kukuen/gridseq/debug"
	"github.com/kukuen/gridseq/midi"
	"github.com/kukuen/gridseq/scale"
	"github.com/kukuen/gridseq/sequencer"
	"github.com/kukuen/gridseq/theme"
	"github.com/kukuen/gridseq/tui"
)

func main() {
	if os.Getenv("GRIDSEQ_DEBUG") != "" {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Scale selection
	scales := scale.New()
	for _, sc := range scale.All {
		if sc.Name == cfg.Edit.Scale {
			scales.SetScale(sc)
			break
		}
	}
	scales.SetChromatic(cfg.Edit.Chromatic)

	// Clip and engine
	stepLen := sequencer.ResolutionValue(cfg.Edit.ResolutionIndex)
	nc := clip.New(cfg.Grid.Cols, cfg.Grid.Pages, stepLen)

	engCfg := &sequencer.Config{
		EditChannel:      cfg.Edit.Channel,
		FixedAccentValue: cfg.Edit.AccentValue,
		ResolutionIndex:  cfg.Edit.ResolutionIndex,
		UseDawColors:     cfg.Edit.UseDawColors,
	}
	surface := sequencer.NewPadSurface()
	sched := sequencer.NewScheduler()
	engine := sequencer.NewEngine(nc, scales, surface, sched, engCfg, cfg.Grid.Cols, cfg.Grid.SeqRows)

	manager := sequencer.NewManager(engine, surface, nc, cfg.UI.LastTempo)

	// Theme
	palette := theme.Default()
	if cfg.UI.PalettePath != "" {
		if p, err := theme.LoadGPL(cfg.UI.PalettePath); err == nil {
			palette = p
		} else {
			fmt.Fprintf(os.Stderr, "palette %s: %v (using built-in)\n", cfg.UI.PalettePath, err)
		}
	}
	th := theme.New(palette)
	manager.SetPalette(th.PadColor)

	engine.OnActivate()
	manager.StartRuntime()
	defer manager.Shutdown()
	defer sched.Stop()

	// MIDI hot-plug, restricted to the configured controllers
	deviceMgr := midi.NewDeviceManager()
	if auto := cfg.AutoConnectControllers(); len(auto) > 0 {
		deviceMgr.SetPortFilter(func(portName string) bool {
			for _, ctrl := range auto {
				if strings.Contains(strings.ToLower(portName), strings.ToLower(ctrl.PortName)) {
					return true
				}
			}
			return false
		})
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	m := tui.NewModel(manager, deviceMgr, th, scales)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Persist session settings for next launch
	cfg.Edit.Channel = engine.EditChannel()
	cfg.Edit.ResolutionIndex = engine.ResolutionIndex()
	cfg.Edit.UseDawColors = engCfg.UseDawColors
	cfg.Edit.Chromatic = scales.IsChromatic()
	cfg.Edit.Scale = scales.Scale().Name
	cfg.UI.LastTempo = manager.Tempo()
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "config save: %v\n", err)
	}
}
