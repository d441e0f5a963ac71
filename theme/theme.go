package theme

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/kukuen/gridseq/midi"
	"github.com/kukuen/gridseq/sequencer"
)

// Theme maps the engine's logical color tokens to concrete colors, both
// for the Launchpad LEDs and the terminal mirror.
type Theme struct {
	Palette *Palette

	mu         sync.Mutex
	trackColor RGB
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette:    palette,
		trackColor: RGB{30, 12, 48},
	}
}

// SetTrackColor sets the tint used for ColorBackgroundTrack cells when
// DAW coloring is enabled.
func (t *Theme) SetTrackColor(c RGB) {
	t.mu.Lock()
	t.trackColor = c
	t.mu.Unlock()
}

// Color roles mapped to palette positions (0-1)
const (
	roleBG       = 0.0
	roleMuted    = 0.15
	roleLoop     = 0.3
	roleContent  = 0.45
	roleSelected = 0.6
	rolePage     = 0.75
	roleAccent   = 0.85
	roleHilite   = 1.0
)

// PadColor resolves a token to an RGB value and a Launchpad channel mode.
// Playhead tokens pulse, everything else is static.
func (t *Theme) PadColor(c sequencer.Color) ([3]uint8, uint8) {
	p := t.Palette
	switch c {
	case sequencer.ColorHiliteStart:
		return p.Lookup(roleHilite), midi.ChannelPulse
	case sequencer.ColorHiliteContinue:
		return dim(p.Lookup(roleHilite), 0.6), midi.ChannelPulse
	case sequencer.ColorHiliteEmpty:
		return dim(p.Lookup(roleHilite), 0.3), midi.ChannelPulse
	case sequencer.ColorSelected:
		return p.Lookup(roleSelected), midi.ChannelStatic
	case sequencer.ColorMutedStart:
		return dim(p.Lookup(roleContent), 0.35), midi.ChannelStatic
	case sequencer.ColorMutedContinue:
		return dim(p.Lookup(roleContent), 0.2), midi.ChannelStatic
	case sequencer.ColorContentStart:
		return p.Lookup(roleContent), midi.ChannelStatic
	case sequencer.ColorContentContinue:
		return dim(p.Lookup(roleContent), 0.5), midi.ChannelStatic
	case sequencer.ColorBackground:
		return dim(p.Lookup(roleBG), 0.6), midi.ChannelStatic
	case sequencer.ColorBackgroundTrack:
		t.mu.Lock()
		tc := t.trackColor
		t.mu.Unlock()
		return tc, midi.ChannelStatic
	case sequencer.ColorPageOff:
		return dim(p.Lookup(rolePage), 0.15), midi.ChannelStatic
	case sequencer.ColorPageInLoop:
		return dim(p.Lookup(roleLoop), 0.7), midi.ChannelStatic
	case sequencer.ColorPagePlay:
		return p.Lookup(roleAccent), midi.ChannelPulse
	case sequencer.ColorPageEdit:
		return p.Lookup(rolePage), midi.ChannelStatic
	default:
		return RGB{0, 0, 0}, midi.ChannelStatic
	}
}

func dim(c RGB, f float64) RGB {
	return RGB{uint8(float64(c[0]) * f), uint8(float64(c[1]) * f), uint8(float64(c[2]) * f)}
}

// Terminal styles

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(roleSelected))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(roleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(roleMuted))
}

// CellColor returns the terminal color for a grid cell token.
func (t *Theme) CellColor(c sequencer.Color) lipgloss.Color {
	rgb, _ := t.PadColor(c)
	return rgbToLipgloss(rgb)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
