package sequencer

import "github.com/kukuen/gridseq/debug"

// loopPager runs the press-and-hold interaction on the header band: a
// single pad tap jumps to that clip page, two pads held define a loop
// span. State machine over pressedPad: -1 idle, otherwise the first pad
// of a potential two-pad gesture is currently down.
type loopPager struct {
	engine     *Engine
	pressedPad int
}

func newLoopPager(e *Engine) *loopPager {
	return &loopPager{engine: e, pressedPad: -1}
}

func (p *loopPager) reset() {
	p.pressedPad = -1
}

// pageLength is the span of one clip page in beats.
func (p *loopPager) pageLength() float64 {
	return float64(p.engine.cols) * ResolutionValue(p.engine.cfg.ResolutionIndex)
}

// handle processes a header pad event. While armed, further presses are
// ignored; the armed pad pairs with whichever pad releases first.
func (p *loopPager) handle(pad int, velocity uint8) {
	if velocity > 0 {
		if p.pressedPad == -1 {
			p.pressedPad = pad
		}
		return
	}

	// Release with no matching press is a no-op.
	if p.pressedPad == -1 {
		return
	}

	c := p.engine.clip
	if pad == p.pressedPad {
		// Single pad: page jump, unless already on that page.
		if pad != c.EditPage() {
			c.ScrollToPage(pad)
			debug.Log("pager", "page jump -> %d", pad)
		}
	} else {
		// Two pads: loop span between the lower and higher pad.
		start, end := p.pressedPad, pad
		if start > end {
			start, end = end, start
		}
		end++
		pageLen := p.pageLength()
		newStart := float64(start) * pageLen
		c.SetLoopStart(newStart)
		c.SetLoopLength(float64(end-start) * pageLen)
		c.SetPlayRange(newStart, float64(end)*pageLen)
		debug.Log("pager", "loop pages [%d,%d)", start, end)
	}

	p.pressedPad = -1
}
