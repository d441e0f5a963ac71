package sequencer

import (
	"testing"
	"time"
)

func TestSurfaceLongPress(t *testing.T) {
	s := NewPadSurface()
	base := time.Now()
	now := base
	s.now = func() time.Time { return now }

	s.Press(3, 100)
	if s.IsLongPressed(3) {
		t.Fatalf("fresh press should not be long yet")
	}

	now = base.Add(DefaultLongPress)
	if !s.IsLongPressed(3) {
		t.Fatalf("press past the threshold should be long")
	}

	s.Release(3)
	if s.IsLongPressed(3) {
		t.Fatalf("released pad should not be long-pressed")
	}
}

func TestSurfaceConsumedNotLongPressed(t *testing.T) {
	s := NewPadSurface()
	s.SetLongPressThreshold(0)

	s.Press(1, 100)
	s.SetConsumed(1)
	if s.IsLongPressed(1) {
		t.Fatalf("consumed pad should not count as long-pressed")
	}
}

func TestSurfaceReleaseRetainsState(t *testing.T) {
	s := NewPadSurface()

	s.Press(5, 99)
	s.SetConsumed(5)
	s.Release(5)

	if s.PressedVelocity(5) != 99 {
		t.Fatalf("release should retain the press velocity")
	}
	if !s.Consumed(5) {
		t.Fatalf("release should retain the consumed flag")
	}

	// A new press starts clean
	s.Press(5, 50)
	if s.Consumed(5) {
		t.Fatalf("new press should clear the consumed flag")
	}
	if s.PressedVelocity(5) != 50 {
		t.Fatalf("new press should replace the velocity")
	}
}

func TestSurfaceModifiers(t *testing.T) {
	s := NewPadSurface()

	if s.ModifierHeld(ModShift) {
		t.Fatalf("modifiers start released")
	}
	s.SetModifier(ModShift, true)
	if !s.ModifierHeld(ModShift) {
		t.Fatalf("shift should be held")
	}

	if on := s.ToggleModifier(ModMute); !on {
		t.Fatalf("toggle should report the new state")
	}
	if on := s.ToggleModifier(ModMute); on || s.ModifierHeld(ModMute) {
		t.Fatalf("second toggle should release")
	}
}
