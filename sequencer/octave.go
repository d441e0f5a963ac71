package sequencer

import (
	"github.com/kukuen/gridseq/debug"
	"github.com/kukuen/gridseq/scale"
)

// OnScrollDown moves the visible pitch window down, or transposes the
// clip when a modifier is held (shift: semitone, select: octave).
func (e *Engine) OnScrollDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}
	if e.surface.ModifierHeld(ModShift) {
		e.clip.Transpose(-1)
		return
	}
	if e.surface.ModifierHeld(ModSelect) {
		e.clip.Transpose(-12)
		return
	}
	next := e.offsetY - e.scrollOffset()
	if next < 0 {
		next = 0
	}
	e.updateOctave(next)
}

// OnScrollUp is the upward counterpart of OnScrollDown. Scrolling past
// the clip's pitch row count is a no-op.
func (e *Engine) OnScrollUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}
	if e.surface.ModifierHeld(ModShift) {
		e.clip.Transpose(1)
		return
	}
	if e.surface.ModifierHeld(ModSelect) {
		e.clip.Transpose(12)
		return
	}
	offset := e.scrollOffset()
	if e.offsetY+offset < e.clip.NumRows() {
		e.updateOctave(e.offsetY + offset)
	}
}

// scrollOffset is how many semitones lie between the bottom and top note
// rows. Chromatic mode spans exactly the row count; scale mode walks the
// interval table so the scroll always lands on a scale-valid pitch.
func (e *Engine) scrollOffset() int {
	if e.scales.IsChromatic() {
		return e.seqRows
	}

	sc := e.scales.Scale()
	lower := sc.IndexInScale(e.offsetY)
	if lower < 0 {
		lower = 0
	}
	upper := lower + e.seqRows
	intervals := sc.Intervals

	lowerNote := intervals[lower]
	upperNote := upper/len(intervals)*12 + intervals[upper%len(intervals)]
	return upperNote - lowerNote
}

// updateOctave applies a new vertical offset: rebuild the key table
// (debounced), drop the edit selection, and defer the audible-range
// notification so rapid scrolling reports only the final range.
func (e *Engine) updateOctave(value int) {
	e.offsetY = value
	e.updateScale()
	e.clearEditNotes()
	debug.Log("octave", "offsetY=%d", value)
	e.sched.Schedule("range", rangeNotifyDelay, func() {
		if e.onRange != nil {
			e.onRange(e.RangeText())
		}
	})
}

// RangeText describes the audible pitch span of the note area.
func (e *Engine) RangeText() string {
	return scale.RangeText(e.keys.Map(0), e.keys.Map(e.seqRows-1))
}
