package sequencer

import (
	"testing"

	"github.com/kukuen/gridseq/clip"
	"github.com/kukuen/gridseq/scale"
)

// pagerClip counts page scrolls so tests can tell a no-op from a jump
// back to the same page.
type pagerClip struct {
	*clip.NoteClip
	scrolls int
}

func (p *pagerClip) ScrollToPage(page int) {
	p.scrolls++
	p.NoteClip.ScrollToPage(page)
}

func newPagerEngine() (*Engine, *pagerClip, *PadSurface) {
	c := &pagerClip{NoteClip: clip.New(8, 8, 0.25)}
	scales := scale.New()
	scales.SetChromatic(true)
	surf := NewPadSurface()
	cfg := &Config{ResolutionIndex: 4}
	e := NewEngine(c, scales, surf, NewScheduler(), cfg, 8, 7)
	e.OnActivate()
	flushKeys(e)
	return e, c, surf
}

// headerTap presses and releases a single header pad.
func headerTap(e *Engine, p int) {
	e.OnGridEvent(pad(p, 7), 100)
	e.OnGridEvent(pad(p, 7), 0)
}

func TestPagerPageJump(t *testing.T) {
	e, c, _ := newPagerEngine()

	headerTap(e, 3)
	if c.EditPage() != 3 {
		t.Fatalf("edit page %d, want 3", c.EditPage())
	}
	if c.scrolls != 1 {
		t.Fatalf("scroll count %d, want 1", c.scrolls)
	}
}

func TestPagerSamePageNoOp(t *testing.T) {
	e, c, _ := newPagerEngine()
	c.ScrollToPage(3)
	c.scrolls = 0

	headerTap(e, 3)
	if c.scrolls != 0 {
		t.Fatalf("tapping the current page should not scroll")
	}
}

func TestPagerLoopSpan(t *testing.T) {
	e, c, _ := newPagerEngine()

	// One page is 8 steps of 1/16 = 2 beats
	e.OnGridEvent(pad(1, 7), 100)
	e.OnGridEvent(pad(4, 7), 100)
	e.OnGridEvent(pad(4, 7), 0)

	if got := c.LoopStart(); got != 2.0 {
		t.Fatalf("loop start %v, want 2.0", got)
	}
	if got := c.LoopLength(); got != 8.0 {
		t.Fatalf("loop length %v, want 4 pages", got)
	}
	start, end := c.PlayRange()
	if start != 2.0 || end != 10.0 {
		t.Fatalf("play range [%v, %v), want [2, 10)", start, end)
	}
	if c.CurrentStep() != 8 {
		t.Fatalf("playhead %d, want snapped to the range start", c.CurrentStep())
	}

	// The gesture ended; the pager must be idle again
	e.OnGridEvent(pad(1, 7), 0)
	if c.LoopStart() != 2.0 || c.LoopLength() != 8.0 {
		t.Fatalf("stray release changed the loop")
	}
}

func TestPagerLoopSpanReversed(t *testing.T) {
	e, c, _ := newPagerEngine()

	// Higher pad first: the span still runs low to high
	e.OnGridEvent(pad(5, 7), 100)
	e.OnGridEvent(pad(2, 7), 100)
	e.OnGridEvent(pad(2, 7), 0)

	if c.LoopStart() != 4.0 || c.LoopLength() != 8.0 {
		t.Fatalf("loop [%v, len %v], want start 4.0 len 8.0", c.LoopStart(), c.LoopLength())
	}
}

func TestPagerFirstPressWins(t *testing.T) {
	e, c, _ := newPagerEngine()

	// A second press while armed is ignored; releasing the armed pad
	// itself is a plain page jump.
	e.OnGridEvent(pad(1, 7), 100)
	e.OnGridEvent(pad(4, 7), 100)
	e.OnGridEvent(pad(1, 7), 0)

	if c.EditPage() != 1 {
		t.Fatalf("edit page %d, want 1", c.EditPage())
	}
	// The leftover release finds the pager idle
	c.scrolls = 0
	e.OnGridEvent(pad(4, 7), 0)
	if c.scrolls != 0 || c.EditPage() != 1 {
		t.Fatalf("idle release should be a no-op")
	}
}

func TestPagerIdleReleaseNoOp(t *testing.T) {
	e, c, _ := newPagerEngine()

	e.OnGridEvent(pad(6, 7), 0)
	if c.scrolls != 0 || c.EditPage() != 0 {
		t.Fatalf("release without press changed state")
	}
}
