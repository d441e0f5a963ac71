package clip

import (
	"sync"
	"testing"
)

func newTestClip() *NoteClip {
	// 8 steps per page, 8 pages, 1/16th steps
	return New(8, 8, 0.25)
}

func TestToggleStepIdempotent(t *testing.T) {
	c := newTestClip()

	c.ToggleStep(0, 3, 60, 100)
	if got := c.GetStep(0, 3, 60); got.State != StepStart {
		t.Fatalf("after toggle on: state %v", got.State)
	}

	c.ToggleStep(0, 3, 60, 100)
	if got := c.GetStep(0, 3, 60); got.State != StepOff {
		t.Fatalf("after toggle off: state %v", got.State)
	}
}

func TestGetStepDerivesContinue(t *testing.T) {
	c := newTestClip()

	// One beat = 4 steps at 1/16th resolution
	c.AddNote(0, 2, 60, 110, 1.0)

	if got := c.GetStep(0, 2, 60); got.State != StepStart {
		t.Fatalf("start slot: state %v", got.State)
	}
	for step := 3; step <= 5; step++ {
		got := c.GetStep(0, step, 60)
		if got.State != StepContinue {
			t.Fatalf("step %d: state %v, want StepContinue", step, got.State)
		}
		if got.Velocity != 110 {
			t.Fatalf("step %d: sustained slot should carry the note info", step)
		}
	}
	if got := c.GetStep(0, 6, 60); got.State != StepOff {
		t.Fatalf("step past note end: state %v", got.State)
	}
	// Other pitches unaffected
	if got := c.GetStep(0, 3, 61); got.State != StepOff {
		t.Fatalf("other pitch: state %v", got.State)
	}
}

func TestUpdateStepDuration(t *testing.T) {
	c := newTestClip()
	c.ToggleStep(0, 0, 60, 100)

	c.UpdateStepDuration(0, 0, 60, 4*0.25)
	if got := c.GetStep(0, 0, 60); got.Duration != 1.0 {
		t.Fatalf("duration %v, want 1.0", got.Duration)
	}
	if got := c.GetStep(0, 3, 60); got.State != StepContinue {
		t.Fatalf("lengthened note should sustain: state %v", got.State)
	}

	// No-op on an empty slot
	c.UpdateStepDuration(0, 5, 60, 1.0)
	if got := c.GetStep(0, 5, 60); got.State != StepOff {
		t.Fatalf("empty slot grew a note")
	}
}

func TestUpdateMuteState(t *testing.T) {
	c := newTestClip()
	c.ToggleStep(0, 1, 48, 90)

	c.UpdateMuteState(0, 1, 48, true)
	if got := c.GetStep(0, 1, 48); !got.Muted {
		t.Fatalf("note should be muted")
	}
	c.UpdateMuteState(0, 1, 48, false)
	if got := c.GetStep(0, 1, 48); got.Muted {
		t.Fatalf("note should be unmuted")
	}
}

func TestEditPageAddressing(t *testing.T) {
	c := newTestClip()
	c.ScrollToPage(2)
	c.ToggleStep(0, 0, 60, 100)

	if got := c.GetStep(0, 0, 60); got.State != StepStart {
		t.Fatalf("note on page 2: state %v", got.State)
	}
	c.ScrollToPage(0)
	if got := c.GetStep(0, 0, 60); got.State != StepOff {
		t.Fatalf("page 0 should not see page 2's note")
	}
}

func TestScrollToPageClamps(t *testing.T) {
	c := newTestClip()
	c.ScrollToPage(99)
	if c.EditPage() != c.NumPages()-1 {
		t.Fatalf("edit page %d", c.EditPage())
	}
	c.ScrollToPage(-1)
	if c.EditPage() != 0 {
		t.Fatalf("edit page %d", c.EditPage())
	}
}

func TestTranspose(t *testing.T) {
	c := newTestClip()
	c.ToggleStep(0, 0, 60, 100)
	c.ToggleStep(0, 1, 127, 100)

	c.Transpose(2)
	if got := c.GetStep(0, 0, 62); got.State != StepStart {
		t.Fatalf("transposed note missing")
	}
	if got := c.GetStep(0, 0, 60); got.State != StepOff {
		t.Fatalf("original pitch should be empty")
	}
	// 127 + 2 falls off the top
	for p := 0; p < 128; p++ {
		if got := c.GetStep(0, 1, p); got.State == StepStart {
			t.Fatalf("out-of-range note survived at pitch %d", p)
		}
	}
}

func TestAdvanceWrapsAtPlayRange(t *testing.T) {
	c := newTestClip()
	// Play pages 1..2: beats [2, 6)
	c.SetPlayRange(2, 6)

	if c.CurrentStep() != 8 {
		t.Fatalf("playhead should snap into range, got %d", c.CurrentStep())
	}
	for i := 0; i < 15; i++ {
		c.Advance()
	}
	if c.CurrentStep() != 23 {
		t.Fatalf("playhead %d, want 23", c.CurrentStep())
	}
	c.Advance()
	if c.CurrentStep() != 8 {
		t.Fatalf("playhead should wrap to 8, got %d", c.CurrentStep())
	}
}

func TestDefensiveBounds(t *testing.T) {
	c := newTestClip()
	c.ToggleStep(0, -1, 60, 100)
	c.ToggleStep(0, 0, -5, 100)
	c.ToggleStep(0, 99, 60, 100)
	if got := c.GetStep(0, -1, 60); got.State != StepOff {
		t.Fatalf("out-of-range read should be empty")
	}
}

// The clock advances the playhead while the pad handler edits notes and
// the renderer reads them; every accessor must hold the clip's lock.
func TestConcurrentEditAndPlayback(t *testing.T) {
	c := New(8, 8, 0.25)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(stop)
		for i := 0; i < 500; i++ {
			c.ToggleStep(0, i%8, 36+i%12, 100)
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
				c.Advance()
				c.GetStep(0, c.CurrentStep()%c.NumSteps(), 36)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			c.SetStepLength(0.25)
			c.Transpose(1)
			c.Transpose(-1)
		}
	}()

	wg.Wait()
}
