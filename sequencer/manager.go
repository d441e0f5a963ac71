package sequencer

import (
	"sync"
	"time"

	"github.com/kukuen/gridseq/debug"
	"github.com/kukuen/gridseq/midi"
)

// LED refresh rate
const ledFPS = 30

// ClockClip is the slice of the clip contract the transport clock and
// resolution switching need.
type ClockClip interface {
	Advance()
	StepLength() float64
	SetStepLength(beats float64)
}

// Manager connects the engine to the outside world: it routes pad events
// from the controller, runs the playhead clock, and flushes diffed LED
// frames at a fixed rate. Engine and clip carry their own locks; the
// manager's mutex covers only its transport and LED bookkeeping.
type Manager struct {
	engine  *Engine
	surface *PadSurface
	clip    ClockClip

	controller midi.Controller
	palette    PadPalette

	mu       sync.Mutex
	tempo    int
	playing  bool
	notice   string // last range notification, for the TUI status line
	tracks   []Track
	trackIdx int

	ledDirty bool
	prevLEDs map[[2]int]midi.LEDUpdate

	stopChan  chan struct{}
	clockStop chan struct{}

	// Notify TUI of updates
	UpdateChan chan struct{}
}

func NewManager(engine *Engine, surface *PadSurface, c ClockClip, tempo int) *Manager {
	m := &Manager{
		engine:     engine,
		surface:    surface,
		clip:       c,
		tempo:      tempo,
		tracks:     DefaultTracks(),
		prevLEDs:   make(map[[2]int]midi.LEDUpdate),
		stopChan:   make(chan struct{}),
		UpdateChan: make(chan struct{}, 1),
	}
	engine.SetUpdateNotify(m.markLEDsDirty)
	engine.SetRangeNotify(m.setNotice)
	return m
}

func (m *Manager) Engine() *Engine      { return m.engine }
func (m *Manager) Surface() *PadSurface { return m.surface }

func (m *Manager) Tracks() []Track { return m.tracks }

// CurrentTrack returns the track whose channel is being edited.
func (m *Manager) CurrentTrack() Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracks[m.trackIdx]
}

// SelectTrack switches editing to another track's channel. The edit
// selection belongs to the old channel, so it is dropped.
func (m *Manager) SelectTrack(i int) {
	m.mu.Lock()
	if i < 0 || i >= len(m.tracks) || i == m.trackIdx {
		m.mu.Unlock()
		return
	}
	m.trackIdx = i
	track := m.tracks[i]
	m.mu.Unlock()

	m.engine.SetEditChannel(track.Channel)
	m.engine.ClearEditNotes()
	debug.Log("track", "edit channel -> %d (%s)", track.Channel, track.Name)
	m.notifyUpdate()
}

// SetPalette installs the token-to-RGB mapping used for LED output.
func (m *Manager) SetPalette(p PadPalette) {
	m.mu.Lock()
	m.palette = p
	m.mu.Unlock()
}

// StartRuntime starts the LED flush loop (called once at startup).
func (m *Manager) StartRuntime() {
	go m.ledLoop()
}

// Shutdown stops all runtime goroutines.
func (m *Manager) Shutdown() {
	m.Stop()
	close(m.stopChan)
}

// SetController attaches a grid controller and starts consuming its pad
// events. Passing nil detaches.
func (m *Manager) SetController(c midi.Controller) {
	m.mu.Lock()
	m.controller = c
	m.prevLEDs = make(map[[2]int]midi.LEDUpdate) // reset diff state
	m.ledDirty = true
	m.mu.Unlock()

	if c == nil {
		return
	}
	debug.Log("ctrl", "controller attached: %s", c.ID())
	go func() {
		for ev := range c.PadEvents() {
			m.HandlePad(ev)
		}
	}()
}

// Pad layout on the hardware grid: rows 0-7 are the engine's display
// grid (row 7 is the header band), row 8 is the top control row, col 8
// the right-hand scene column used for modifier holds.
const (
	controlRow = 8
	sceneCol   = 8

	ctrlScrollUp   = 0
	ctrlScrollDown = 1

	sceneShift     = 7
	sceneSelect    = 6
	sceneDuplicate = 5
	sceneMute      = 4
	sceneAccent    = 3
)

// HandlePad routes one controller pad event.
func (m *Manager) HandlePad(ev midi.PadEvent) {
	switch {
	case ev.Row == controlRow:
		m.handleControl(ev.Col, ev.Velocity)
	case ev.Col == sceneCol:
		m.handleScene(ev.Row, ev.Velocity)
	default:
		index := ev.Row*m.engine.Cols() + ev.Col
		if ev.Velocity > 0 {
			m.surface.Press(index, ev.Velocity)
		} else {
			m.surface.Release(index)
		}
		m.engine.OnGridEvent(index, ev.Velocity)
	}
	m.notifyUpdate()
}

func (m *Manager) handleControl(col int, velocity uint8) {
	if velocity == 0 {
		return
	}
	switch col {
	case ctrlScrollUp:
		m.engine.OnScrollUp()
	case ctrlScrollDown:
		m.engine.OnScrollDown()
	}
}

func (m *Manager) handleScene(row int, velocity uint8) {
	held := velocity > 0
	switch row {
	case sceneShift:
		m.surface.SetModifier(ModShift, held)
	case sceneSelect:
		m.surface.SetModifier(ModSelect, held)
	case sceneDuplicate:
		m.surface.SetModifier(ModDuplicate, held)
	case sceneMute:
		m.surface.SetModifier(ModMute, held)
	case sceneAccent:
		if held {
			m.engine.ToggleAccent()
		}
	}
}

// CycleResolution advances to the next grid resolution and keeps the
// clip's step length in sync with it.
func (m *Manager) CycleResolution() {
	idx := m.engine.CycleResolution()
	m.clip.SetStepLength(ResolutionValue(idx))
	debug.Log("edit", "resolution -> %s", ResolutionNames[idx])
	m.notifyUpdate()
}

// Transport

// Play starts the playhead clock.
func (m *Manager) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		return
	}
	m.playing = true
	m.clockStop = make(chan struct{})
	go m.clockLoop(m.clockStop)
	debug.Log("transport", "play tempo=%d", m.tempo)
}

// Stop halts the playhead clock.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		return
	}
	m.playing = false
	close(m.clockStop)
	debug.Log("transport", "stop")
}

func (m *Manager) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// SetTempo sets the BPM, clamped to a sane range.
func (m *Manager) SetTempo(bpm int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 300 {
		bpm = 300
	}
	m.tempo = bpm
}

func (m *Manager) Tempo() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo
}

// clockLoop advances the clip playhead one step at a time. The interval
// is re-derived every tick so tempo and resolution changes apply live.
func (m *Manager) clockLoop(stop chan struct{}) {
	for {
		m.mu.Lock()
		tempo := m.tempo
		m.mu.Unlock()
		stepSeconds := m.clip.StepLength() * 60.0 / float64(tempo)

		select {
		case <-stop:
			return
		case <-m.stopChan:
			return
		case <-time.After(time.Duration(stepSeconds * float64(time.Second))):
			m.clip.Advance()
			m.notifyUpdate()
		}
	}
}

// Refresh forces an LED flush and a TUI repaint, for state changes that
// bypass the engine (theme swap).
func (m *Manager) Refresh() {
	m.notifyUpdate()
}

// Notifications

func (m *Manager) setNotice(text string) {
	m.mu.Lock()
	m.notice = text
	m.mu.Unlock()
	m.notifyUpdate()
}

// Notice returns the last deferred notification text (pitch range).
func (m *Manager) Notice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notice
}

// notifyUpdate refreshes LEDs and nudges the TUI.
func (m *Manager) notifyUpdate() {
	m.markLEDsDirty()
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

func (m *Manager) markLEDsDirty() {
	m.mu.Lock()
	m.ledDirty = true
	m.mu.Unlock()
}

// ledLoop runs at fixed FPS and flushes LED updates when dirty.
func (m *Manager) ledLoop() {
	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.mu.Lock()
			dirty := m.ledDirty
			m.ledDirty = false
			m.mu.Unlock()
			if dirty {
				m.flushLEDs()
			}
		}
	}
}

// flushLEDs renders a frame and sends only changed LEDs (diff + batch).
func (m *Manager) flushLEDs() {
	m.mu.Lock()
	ctrl := m.controller
	pal := m.palette
	prev := m.prevLEDs
	m.mu.Unlock()
	if ctrl == nil || pal == nil {
		return
	}

	frame := m.engine.Render()
	newMap := make(map[[2]int]midi.LEDUpdate, frame.Cols*frame.Rows)
	var updates []midi.LEDUpdate

	for y := 0; y < frame.Rows; y++ {
		for x := 0; x < frame.Cols; x++ {
			rgb, channel := pal(frame.At(x, y))
			led := midi.LEDUpdate{Row: y, Col: x, Color: rgb, Channel: channel}
			key := [2]int{y, x}
			newMap[key] = led
			if old, ok := prev[key]; !ok || old != led {
				updates = append(updates, led)
			}
		}
	}

	if len(updates) > 0 {
		debug.LogEvery(50, "led", "flush batch=%d", len(updates))
		ctrl.SetLEDBatch(updates)
	}

	m.mu.Lock()
	m.prevLEDs = newMap
	m.mu.Unlock()
}
