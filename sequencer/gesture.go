package sequencer

import (
	"github.com/kukuen/gridseq/clip"
	"github.com/kukuen/gridseq/debug"
)

// handleNoteArea disambiguates taps, long presses, and modifier
// combinations for pads in the note area. Edits fire only on release so
// a long hold can be reinterpreted as a length drag instead of a toggle;
// a press never mutates the clip.
func (e *Engine) handleNoteArea(index, x, y int, velocity uint8) {
	if velocity != 0 {
		return
	}
	// A pad consumed by an earlier gesture must not fire its tap.
	if e.surface.Consumed(index) {
		return
	}

	pitch := e.keys.Map(y)
	channel := e.cfg.EditChannel
	vel := e.editVelocity(index)

	if e.handleButtonCombinations(channel, x, y, pitch, vel) {
		return
	}

	if pitch >= 0 {
		e.clip.ToggleStep(channel, x, pitch, vel)
		debug.Log("gesture", "toggle step=%d pitch=%d vel=%d", x, pitch, vel)
	}
}

// handleButtonCombinations evaluates the modifier and long-press intents
// in priority order: duplicate, mute, then the length-change scan. A true
// return short-circuits the plain toggle.
func (e *Engine) handleButtonCombinations(channel, step, row, pitch int, velocity uint8) bool {
	if e.surface.ModifierHeld(ModDuplicate) {
		e.handleDuplicate(channel, step, pitch)
		return true
	}

	if e.surface.ModifierHeld(ModMute) {
		info := e.clip.GetStep(channel, step, pitch)
		if info.State == clip.StepStart {
			e.clip.UpdateMuteState(channel, step, pitch, !info.Muted)
			debug.Log("gesture", "mute step=%d pitch=%d muted=%v", step, pitch, !info.Muted)
		}
		return true
	}

	// Length change: the first still-held, unconsumed pad left of the
	// released step wins; later held pads are ignored for this release.
	offset := row * e.cols
	for s := 0; s < step; s++ {
		if !e.surface.IsLongPressed(offset + s) {
			continue
		}
		e.surface.SetConsumed(offset + s)
		length := step - s + 1
		duration := float64(length) * ResolutionValue(e.cfg.ResolutionIndex)
		state := clip.StepOff
		if pitch >= 0 {
			state = e.clip.GetStep(channel, s, pitch).State
		}
		if state == clip.StepStart {
			e.clip.UpdateStepDuration(channel, s, pitch, duration)
		} else if pitch >= 0 {
			e.clip.AddNote(channel, s, pitch, velocity, duration)
		}
		if pitch >= 0 {
			e.selectNote(channel, s, pitch)
		}
		debug.Log("gesture", "length start=%d steps=%d dur=%v", s, length, duration)
		return true
	}

	return false
}

// handleDuplicate captures a note start into the copy buffer, or stamps
// the buffered note onto an empty slot. Missing buffer is a no-op.
func (e *Engine) handleDuplicate(channel, step, pitch int) {
	if pitch < 0 {
		return
	}
	info := e.clip.GetStep(channel, step, pitch)
	if info.State == clip.StepStart {
		captured := info
		e.copyNote = &captured
		e.selectNote(channel, step, pitch)
		debug.Log("gesture", "copy step=%d pitch=%d", step, pitch)
		return
	}
	if e.copyNote != nil {
		e.clip.SetStep(channel, step, pitch, *e.copyNote)
		debug.Log("gesture", "paste step=%d pitch=%d", step, pitch)
	}
}
