package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kukuen/gridseq/midi"
	"github.com/kukuen/gridseq/scale"
	"github.com/kukuen/gridseq/sequencer"
	"github.com/kukuen/gridseq/theme"
	"github.com/kukuen/gridseq/widgets"
)

// keyMap defines the TUI bindings. Terminal keys have no release events,
// so the hardware's hold-modifiers become toggles here.
type keyMap struct {
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Shift      key.Binding
	Select     key.Binding
	Duplicate  key.Binding
	Mute       key.Binding
	Accent     key.Binding
	Resolution key.Binding
	Chromatic  key.Binding
	Scale      key.Binding
	Play       key.Binding
	TempoUp    key.Binding
	TempoDown  key.Binding
	Track      key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "octave up")),
		ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "octave down")),
		Shift:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shift (toggle)")),
		Select:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "select (toggle)")),
		Duplicate:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate (toggle)")),
		Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute (toggle)")),
		Accent:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accent")),
		Resolution: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resolution")),
		Chromatic:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chromatic")),
		Scale:      key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "next scale")),
		Play:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/stop")),
		TempoUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "tempo up")),
		TempoDown:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "tempo down")),
		Track:      key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "track")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ScrollUp, k.ScrollDown, k.Play, k.Resolution, k.Scale, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScrollUp, k.ScrollDown, k.Play, k.TempoUp, k.TempoDown},
		{k.Shift, k.Select, k.Duplicate, k.Mute, k.Accent},
		{k.Resolution, k.Chromatic, k.Scale, k.Track, k.Quit},
	}
}

type Model struct {
	Manager   *sequencer.Manager
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	Scales    *scale.Scales

	keys       keyMap
	help       help.Model
	quitting   bool
	controller midi.Controller // current controller (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(manager *sequencer.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme, scales *scale.Scales) Model {
	th.SetTrackColor(theme.RGB(manager.CurrentTrack().Color))
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Scales:    scales,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		engine := m.Manager.Engine()
		surface := m.Manager.Surface()

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Manager.Stop()
			return m, tea.Quit

		case key.Matches(msg, m.keys.ScrollUp):
			engine.OnScrollUp()

		case key.Matches(msg, m.keys.ScrollDown):
			engine.OnScrollDown()

		case key.Matches(msg, m.keys.Shift):
			surface.ToggleModifier(sequencer.ModShift)

		case key.Matches(msg, m.keys.Select):
			surface.ToggleModifier(sequencer.ModSelect)

		case key.Matches(msg, m.keys.Duplicate):
			surface.ToggleModifier(sequencer.ModDuplicate)

		case key.Matches(msg, m.keys.Mute):
			surface.ToggleModifier(sequencer.ModMute)

		case key.Matches(msg, m.keys.Accent):
			engine.ToggleAccent()

		case key.Matches(msg, m.keys.Resolution):
			m.Manager.CycleResolution()

		case key.Matches(msg, m.keys.Chromatic):
			m.Scales.SetChromatic(!m.Scales.IsChromatic())
			engine.ScaleChanged()

		case key.Matches(msg, m.keys.Scale):
			m.Scales.CycleScale()
			engine.ScaleChanged()

		case key.Matches(msg, m.keys.Play):
			if m.Manager.IsPlaying() {
				m.Manager.Stop()
			} else {
				m.Manager.Play()
			}

		case key.Matches(msg, m.keys.TempoUp):
			m.Manager.SetTempo(m.Manager.Tempo() + 5)

		case key.Matches(msg, m.keys.TempoDown):
			m.Manager.SetTempo(m.Manager.Tempo() - 5)

		case key.Matches(msg, m.keys.Track):
			idx := int(msg.String()[0] - '1')
			m.Manager.SelectTrack(idx)
			m.Theme.SetTrackColor(theme.RGB(m.Manager.CurrentTrack().Color))
			m.Manager.Refresh()
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.controller = event.Controller
			m.Manager.SetController(event.Controller)
		} else if event.Type == midi.DeviceDisconnected {
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				m.Manager.SetController(nil)
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	engine := m.Manager.Engine()
	surface := m.Manager.Surface()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := "STOP"
	if m.Manager.IsPlaying() {
		playState = "PLAY"
	}

	deviceStatus := ""
	if m.controller != nil {
		deviceStatus = "  LP:X"
	}

	scaleName := m.Scales.Scale().Name
	if m.Scales.IsChromatic() {
		scaleName = "Chromatic"
	}

	header := headerStyle.Render(fmt.Sprintf("gridseq  %s  %3dbpm  %s  %s  %s  %s%s",
		playState, m.Manager.Tempo(), m.Manager.CurrentTrack().Name, scaleName,
		sequencer.ResolutionNames[engine.ResolutionIndex()],
		engine.RangeText(), deviceStatus))

	// Grid mirror
	frame := engine.Render()
	grid := widgets.RenderGrid(frame.Cols, frame.Rows, func(x, y int) widgets.GridCell {
		rgb, _ := m.Theme.PadColor(frame.At(x, y))
		return widgets.GridCell{Color: rgb}
	})

	// Color legend
	legend := make([]string, 0, 4)
	for _, item := range []struct {
		c    sequencer.Color
		name string
	}{
		{sequencer.ColorContentStart, "note"},
		{sequencer.ColorHiliteStart, "playhead"},
		{sequencer.ColorSelected, "selected"},
		{sequencer.ColorPageInLoop, "loop"},
	} {
		rgb, _ := m.Theme.PadColor(item.c)
		legend = append(legend, widgets.RenderLegendItem(rgb, item.name))
	}
	legendLine := strings.Join(legend, "  ")

	// Modifier line
	var mods []string
	for _, mod := range []struct {
		m     sequencer.Modifier
		label string
	}{
		{sequencer.ModShift, "SHIFT"},
		{sequencer.ModSelect, "SELECT"},
		{sequencer.ModDuplicate, "DUP"},
		{sequencer.ModMute, "MUTE"},
	} {
		if surface.ModifierHeld(mod.m) {
			mods = append(mods, mod.label)
		}
	}
	if engine.AccentActive() {
		mods = append(mods, fmt.Sprintf("ACCENT:%d", engine.AccentValue()))
	}
	modLine := dimStyle.Render("mods: " + strings.Join(mods, " "))

	notice := ""
	if n := m.Manager.Notice(); n != "" {
		notice = dimStyle.Render("range: " + n)
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid)
	out.WriteString("\n\n")
	out.WriteString(legendLine)
	out.WriteString("\n")
	out.WriteString(modLine)
	if notice != "" {
		out.WriteString("\n")
		out.WriteString(notice)
	}
	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}
