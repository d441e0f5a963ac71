package sequencer

import (
	"sync"
	"testing"

	"github.com/kukuen/gridseq/clip"
	"github.com/kukuen/gridseq/scale"
)

func newTestEngine() (*Engine, *clip.NoteClip, *PadSurface) {
	c := clip.New(8, 8, 0.25)
	scales := scale.New()
	scales.SetChromatic(true)
	surf := NewPadSurface()
	cfg := &Config{EditChannel: 0, FixedAccentValue: 127, ResolutionIndex: 4}
	e := NewEngine(c, scales, surf, NewScheduler(), cfg, 8, 7)
	e.OnActivate()
	flushKeys(e)
	return e, c, surf
}

// flushKeys applies the key table synchronously so tests do not depend on
// the debounce timer having fired.
func flushKeys(e *Engine) {
	e.keys.SetTable(e.scales.SequencerMatrix(e.seqRows+1, e.offsetY))
}

func pad(x, y int) int { return y*8 + x }

func tap(e *Engine, surf *PadSurface, index int, velocity uint8) {
	surf.Press(index, velocity)
	e.OnGridEvent(index, velocity)
	surf.Release(index)
	e.OnGridEvent(index, 0)
}

func TestPressNeverMutates(t *testing.T) {
	e, c, surf := newTestEngine()

	surf.Press(pad(2, 1), 100)
	e.OnGridEvent(pad(2, 1), 100)

	if got := c.GetStep(0, 2, 37); got.State != clip.StepOff {
		t.Fatalf("press alone created a note: state %v", got.State)
	}
}

func TestTapTogglesStep(t *testing.T) {
	e, c, surf := newTestEngine()

	// Row 1 maps to pitch 37 with the chromatic table at offset 36
	tap(e, surf, pad(2, 1), 100)
	got := c.GetStep(0, 2, 37)
	if got.State != clip.StepStart {
		t.Fatalf("state %v, want StepStart", got.State)
	}
	if got.Velocity != 100 {
		t.Fatalf("velocity %d, want the press velocity", got.Velocity)
	}

	tap(e, surf, pad(2, 1), 100)
	if got := c.GetStep(0, 2, 37); got.State != clip.StepOff {
		t.Fatalf("second tap should remove the note: state %v", got.State)
	}
}

func TestAccentOverridesVelocity(t *testing.T) {
	e, c, surf := newTestEngine()
	e.cfg.AccentActive = true
	e.cfg.FixedAccentValue = 120

	tap(e, surf, pad(0, 0), 40)
	if got := c.GetStep(0, 0, 36); got.Velocity != 120 {
		t.Fatalf("velocity %d, want the fixed accent value", got.Velocity)
	}
}

func TestLengthChangeAddsNote(t *testing.T) {
	e, c, surf := newTestEngine()
	surf.SetLongPressThreshold(0)

	// Hold step 1, release step 4 on the same row: a 4-step note
	surf.Press(pad(1, 0), 90)
	e.OnGridEvent(pad(1, 0), 90)
	surf.Press(pad(4, 0), 90)
	e.OnGridEvent(pad(4, 0), 90)
	surf.Release(pad(4, 0))
	e.OnGridEvent(pad(4, 0), 0)

	got := c.GetStep(0, 1, 36)
	if got.State != clip.StepStart {
		t.Fatalf("state %v, want StepStart at the held step", got.State)
	}
	if got.Duration != 4*0.25 {
		t.Fatalf("duration %v, want 4 steps at 1/16", got.Duration)
	}
	for x := 2; x <= 4; x++ {
		if c.GetStep(0, x, 36).State != clip.StepContinue {
			t.Fatalf("step %d should sustain", x)
		}
	}
	if !e.isEdit(0, 1, 36) {
		t.Fatalf("lengthened note should join the edit selection")
	}

	// The held pad was consumed; its release must not toggle the note away
	surf.Release(pad(1, 0))
	e.OnGridEvent(pad(1, 0), 0)
	if c.GetStep(0, 1, 36).State != clip.StepStart {
		t.Fatalf("consumed pad release removed the note")
	}
}

func TestLengthChangeOnExistingNote(t *testing.T) {
	e, c, surf := newTestEngine()
	surf.SetLongPressThreshold(0)

	c.AddNote(0, 0, 36, 77, 0.25)

	surf.Press(pad(0, 0), 90)
	e.OnGridEvent(pad(0, 0), 90)
	surf.Press(pad(3, 0), 90)
	e.OnGridEvent(pad(3, 0), 90)
	surf.Release(pad(3, 0))
	e.OnGridEvent(pad(3, 0), 0)

	got := c.GetStep(0, 0, 36)
	if got.Duration != 1.0 {
		t.Fatalf("duration %v, want 1.0", got.Duration)
	}
	if got.Velocity != 77 {
		t.Fatalf("length change should keep the note's velocity, got %d", got.Velocity)
	}
}

func TestDuplicateCopyFidelity(t *testing.T) {
	e, c, surf := newTestEngine()

	c.AddNote(0, 0, 36, 99, 1.0)
	c.UpdateMuteState(0, 0, 36, true)

	surf.SetModifier(ModDuplicate, true)
	tap(e, surf, pad(0, 0), 100) // capture
	tap(e, surf, pad(5, 0), 100) // paste

	got := c.GetStep(0, 5, 36)
	if got.State != clip.StepStart {
		t.Fatalf("paste target state %v", got.State)
	}
	if got.Velocity != 99 || got.Duration != 1.0 || !got.Muted {
		t.Fatalf("paste lost note fields: %+v", got)
	}
	if !e.isEdit(0, 0, 36) {
		t.Fatalf("capture should select the source note")
	}
}

func TestDuplicateWithEmptyBuffer(t *testing.T) {
	e, c, surf := newTestEngine()

	surf.SetModifier(ModDuplicate, true)
	tap(e, surf, pad(3, 2), 100)

	if got := c.GetStep(0, 3, 38); got.State != clip.StepOff {
		t.Fatalf("paste without a captured note created something: %v", got.State)
	}
}

func TestMuteGesture(t *testing.T) {
	e, c, surf := newTestEngine()
	c.ToggleStep(0, 2, 36, 100)

	surf.SetModifier(ModMute, true)
	tap(e, surf, pad(2, 0), 100)
	if !c.GetStep(0, 2, 36).Muted {
		t.Fatalf("note should be muted")
	}
	tap(e, surf, pad(2, 0), 100)
	if c.GetStep(0, 2, 36).Muted {
		t.Fatalf("note should be unmuted")
	}

	// Mute on an empty slot stays a no-op, never a toggle
	tap(e, surf, pad(6, 0), 100)
	if c.GetStep(0, 6, 36).State != clip.StepOff {
		t.Fatalf("mute tap on empty slot created a note")
	}
}

func TestInactiveEngineIgnoresEvents(t *testing.T) {
	e, c, surf := newTestEngine()
	e.OnDeactivate()

	tap(e, surf, pad(0, 0), 100)
	if got := c.GetStep(0, 0, 36); got.State != clip.StepOff {
		t.Fatalf("inactive engine edited the clip")
	}
}

func TestDeactivateResetsEditState(t *testing.T) {
	e, c, surf := newTestEngine()

	c.AddNote(0, 0, 36, 99, 1.0)
	surf.SetModifier(ModDuplicate, true)
	tap(e, surf, pad(0, 0), 100)
	surf.SetModifier(ModDuplicate, false)

	e.OnDeactivate()
	if e.copyNote != nil {
		t.Fatalf("copy buffer should be dropped on deactivate")
	}
	if len(e.editNotes) != 0 {
		t.Fatalf("edit selection should be dropped on deactivate")
	}
}

func TestUnmappedRowIsInert(t *testing.T) {
	e, c, surf := newTestEngine()
	e.offsetY = 125
	flushKeys(e)

	// Rows past MIDI 127 map to the negative sentinel
	tap(e, surf, pad(0, 5), 100)
	for p := 0; p < 128; p++ {
		if c.GetStep(0, 0, p).State != clip.StepOff {
			t.Fatalf("unmapped row created a note at pitch %d", p)
		}
	}
}

func TestKeyMapperBounds(t *testing.T) {
	k := NewKeyMapper()
	if k.Map(0) != -1 {
		t.Fatalf("empty table should map to the sentinel")
	}
	k.SetTable([]int{36, 38, 40})
	if k.Map(1) != 38 {
		t.Fatalf("Map(1) = %d", k.Map(1))
	}
	if k.Map(-1) != -1 || k.Map(3) != -1 {
		t.Fatalf("out-of-range rows should map to the sentinel")
	}
}

// The runtime drives the engine from several goroutines at once: pad
// events, the LED flush's Render, the TUI, and octave scrolling. Run
// them together so the race detector can see any unguarded state.
func TestConcurrentEditsAndRender(t *testing.T) {
	e, c, surf := newTestEngine()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(stop)
		for i := 0; i < 300; i++ {
			tap(e, surf, pad(i%8, i%7), 100)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				e.Render()
				c.Advance()
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			e.OnScrollUp()
			e.OnScrollDown()
			e.ToggleAccent()
		}
	}()

	wg.Wait()
}
