package sequencer

import (
	"math"

	"github.com/kukuen/gridseq/clip"
)

// Render derives the full grid image from current clip, scale, and edit
// state. Pure repaint, no diffing: callers get an idempotent frame for
// every invocation. An inactive view renders all-off.
func (e *Engine) Render() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := NewFrame(e.cols, e.dispRows)
	if !e.active {
		return f
	}

	step := e.clip.CurrentStep()
	pageStart := e.clip.EditPage() * e.cols
	hiStep := -1
	if step >= pageStart && step < pageStart+e.cols {
		hiStep = step - pageStart
	}

	channel := e.cfg.EditChannel
	for x := 0; x < e.cols; x++ {
		for y := 0; y < e.seqRows; y++ {
			pitch := e.keys.Map(y)
			var info *clip.StepInfo
			if pitch >= 0 {
				si := e.clip.GetStep(channel, x, pitch)
				info = &si
			}
			f.set(x, y, e.stepColor(info, x == hiStep, channel, x, pitch))
		}
	}

	if e.dispRows <= e.seqRows {
		return f
	}

	// Header band: loop pages
	pageLen := float64(e.cols) * ResolutionValue(e.cfg.ResolutionIndex)
	loopStartPad := int(math.Ceil(e.clip.LoopStart() / pageLen))
	loopEndPad := int(math.Ceil((e.clip.LoopStart() + e.clip.LoopLength()) / pageLen))
	playPage := step / e.cols
	editPage := e.clip.EditPage()
	for pad := 0; pad < e.cols; pad++ {
		f.set(pad, e.seqRows, pageColor(loopStartPad, loopEndPad, playPage, editPage, pad))
	}
	return f
}

// stepColor picks the token for one note-area cell. Precedence, highest
// first: playhead with content, edit selection, mute, plain content,
// playhead without content, background.
func (e *Engine) stepColor(info *clip.StepInfo, hilite bool, channel, step, pitch int) Color {
	state := clip.StepOff
	if info != nil {
		state = info.State
	}

	switch state {
	case clip.StepStart:
		if hilite {
			return ColorHiliteStart
		}
		if e.isEdit(channel, step, pitch) {
			return ColorSelected
		}
		if info.Muted {
			return ColorMutedStart
		}
		return ColorContentStart

	case clip.StepContinue:
		if hilite {
			return ColorHiliteContinue
		}
		if e.isEdit(channel, step, pitch) {
			return ColorSelected
		}
		if info.Muted {
			return ColorMutedContinue
		}
		return ColorContentContinue

	default:
		if hilite {
			return ColorHiliteEmpty
		}
		if e.cfg.UseDawColors {
			return ColorBackgroundTrack
		}
		return ColorBackground
	}
}

// pageColor picks the header token for one page pad. Precedence: edit
// page, playback page, inside the loop, outside.
func pageColor(loopStartPad, loopEndPad, playPage, editPage, pad int) Color {
	switch {
	case pad == editPage:
		return ColorPageEdit
	case pad == playPage:
		return ColorPagePlay
	case pad >= loopStartPad && pad < loopEndPad:
		return ColorPageInLoop
	default:
		return ColorPageOff
	}
}
