package sequencer

import (
	"sync"
	"time"
)

// Modifier identifies a held modifier control on the surface.
type Modifier int

const (
	ModShift Modifier = iota
	ModSelect
	ModDuplicate
	ModMute
)

// Surface is what the engine needs from the hardware/UI layer: per-pad
// pressed state and the modifier keys.
type Surface interface {
	IsLongPressed(pad int) bool
	Consumed(pad int) bool
	SetConsumed(pad int)
	PressedVelocity(pad int) uint8
	ModifierHeld(m Modifier) bool
}

// DefaultLongPress is how long a pad must be held before it counts as
// long-pressed for the length-change gesture.
const DefaultLongPress = 400 * time.Millisecond

type padState struct {
	pressed   bool
	pressedAt time.Time
	velocity  uint8
	consumed  bool
}

// PadSurface tracks pad press state and modifier keys. Press/Release are
// fed by the MIDI layer (or the TUI); the engine reads through the
// Surface interface.
type PadSurface struct {
	mu        sync.Mutex
	pads      map[int]*padState
	modifiers map[Modifier]bool
	longPress time.Duration
	now       func() time.Time
}

func NewPadSurface() *PadSurface {
	return &PadSurface{
		pads:      make(map[int]*padState),
		modifiers: make(map[Modifier]bool),
		longPress: DefaultLongPress,
		now:       time.Now,
	}
}

// SetLongPressThreshold overrides the long-press duration.
func (s *PadSurface) SetLongPressThreshold(d time.Duration) {
	s.mu.Lock()
	s.longPress = d
	s.mu.Unlock()
}

// Press records a pad going down. Clears any stale consumed flag.
func (s *PadSurface) Press(pad int, velocity uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pads[pad] = &padState{
		pressed:   true,
		pressedAt: s.now(),
		velocity:  velocity,
	}
}

// Release records a pad coming up. The press velocity and consumed flag
// are retained so the release handler can still read them.
func (s *PadSurface) Release(pad int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pads[pad]; ok {
		p.pressed = false
	}
}

// SetModifier updates a modifier's held state.
func (s *PadSurface) SetModifier(m Modifier, held bool) {
	s.mu.Lock()
	s.modifiers[m] = held
	s.mu.Unlock()
}

// ToggleModifier flips a modifier and reports the new state. Used by the
// TUI, where key-up events do not exist.
func (s *PadSurface) ToggleModifier(m Modifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modifiers[m] = !s.modifiers[m]
	return s.modifiers[m]
}

func (s *PadSurface) ModifierHeld(m Modifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modifiers[m]
}

// IsLongPressed reports whether the pad is still held, unconsumed, and
// past the long-press threshold.
func (s *PadSurface) IsLongPressed(pad int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pads[pad]
	if !ok || !p.pressed || p.consumed {
		return false
	}
	return s.now().Sub(p.pressedAt) >= s.longPress
}

func (s *PadSurface) Consumed(pad int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pads[pad]
	return ok && p.consumed
}

func (s *PadSurface) SetConsumed(pad int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pads[pad]; ok {
		p.consumed = true
	}
}

func (s *PadSurface) PressedVelocity(pad int) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pads[pad]; ok {
		return p.velocity
	}
	return 0
}
