package clip

import "sync"

// StepState describes what a step slot holds.
type StepState int

const (
	StepOff      StepState = iota // no note
	StepStart                     // a note begins here
	StepContinue                  // a note from an earlier step sustains through
)

// StepInfo is the readout for one (channel, step, pitch) slot.
type StepInfo struct {
	State    StepState
	Duration float64 // beats
	Velocity uint8
	Muted    bool
}

type noteKey struct {
	channel int
	step    int // absolute step across all pages
	pitch   int
}

// NoteClip stores note starts per (channel, absolute step, pitch) and
// derives sustain states from note durations. Loop bounds and play range
// are in beats; one step's span in beats is the clip's step length.
// The clock, the pad handler, the LED flush, and the TUI all touch the
// clip from their own goroutines, so every accessor locks.
type NoteClip struct {
	stepsPerPage int
	numPages     int

	mu         sync.RWMutex
	stepLength float64

	notes map[noteKey]StepInfo

	editPage   int
	playPos    int // absolute step (playhead)
	loopStart  float64
	loopLength float64
	playStart  float64
	playEnd    float64
}

// NumRowsDefault is the full MIDI pitch span.
const NumRowsDefault = 128

func New(stepsPerPage, numPages int, stepLength float64) *NoteClip {
	total := float64(stepsPerPage*numPages) * stepLength
	return &NoteClip{
		stepsPerPage: stepsPerPage,
		numPages:     numPages,
		stepLength:   stepLength,
		notes:        make(map[noteKey]StepInfo),
		loopLength:   total,
		playEnd:      total,
	}
}

// NumSteps returns the number of steps in one page.
func (c *NoteClip) NumSteps() int { return c.stepsPerPage }

// NumPages returns how many pages the clip spans.
func (c *NoteClip) NumPages() int { return c.numPages }

// NumRows returns the pitch row count.
func (c *NoteClip) NumRows() int { return NumRowsDefault }

func (c *NoteClip) StepLength() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stepLength
}

func (c *NoteClip) SetStepLength(beats float64) {
	if beats <= 0 {
		return
	}
	c.mu.Lock()
	c.stepLength = beats
	c.mu.Unlock()
}

func (c *NoteClip) EditPage() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editPage
}

// ScrollToPage moves the visible edit page. Out-of-range pages are clamped.
func (c *NoteClip) ScrollToPage(page int) {
	if page < 0 {
		page = 0
	}
	if page >= c.numPages {
		page = c.numPages - 1
	}
	c.mu.Lock()
	c.editPage = page
	c.mu.Unlock()
}

// CurrentStep returns the absolute playback step.
func (c *NoteClip) CurrentStep() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playPos
}

func (c *NoteClip) SetCurrentStep(step int) {
	if step < 0 || step >= c.stepsPerPage*c.numPages {
		return
	}
	c.mu.Lock()
	c.playPos = step
	c.mu.Unlock()
}

// abs converts a page-relative step to the absolute step index.
func (c *NoteClip) abs(step int) int {
	return c.editPage*c.stepsPerPage + step
}

func (c *NoteClip) validSlot(step, pitch int) bool {
	return step >= 0 && step < c.stepsPerPage && pitch >= 0 && pitch < c.NumRows()
}

// GetStep reads the slot at a page-relative step. A slot covered by an
// earlier note's duration reads as StepContinue carrying that note's info.
func (c *NoteClip) GetStep(channel, step, pitch int) StepInfo {
	if !c.validSlot(step, pitch) {
		return StepInfo{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	at := c.abs(step)
	if n, ok := c.notes[noteKey{channel, at, pitch}]; ok {
		n.State = StepStart
		return n
	}
	for s := at - 1; s >= 0; s-- {
		n, ok := c.notes[noteKey{channel, s, pitch}]
		if !ok {
			continue
		}
		covered := int(n.Duration/c.stepLength + 1e-9)
		if s+covered > at {
			n.State = StepContinue
			return n
		}
	}
	return StepInfo{}
}

// SetStep writes a full note snapshot onto a slot (used by duplicate).
func (c *NoteClip) SetStep(channel, step, pitch int, info StepInfo) {
	if !c.validSlot(step, pitch) {
		return
	}
	c.mu.Lock()
	c.setStep(channel, step, pitch, info)
	c.mu.Unlock()
}

func (c *NoteClip) setStep(channel, step, pitch int, info StepInfo) {
	info.State = StepStart
	if info.Duration <= 0 {
		info.Duration = c.stepLength
	}
	c.notes[noteKey{channel, c.abs(step), pitch}] = info
}

// AddNote creates a note start with the given velocity and duration.
func (c *NoteClip) AddNote(channel, step, pitch int, velocity uint8, duration float64) {
	if !c.validSlot(step, pitch) {
		return
	}
	c.mu.Lock()
	c.setStep(channel, step, pitch, StepInfo{Velocity: velocity, Duration: duration})
	c.mu.Unlock()
}

// ToggleStep creates a one-step note if the slot has no start, or removes
// the note start if it has one.
func (c *NoteClip) ToggleStep(channel, step, pitch int, velocity uint8) {
	if !c.validSlot(step, pitch) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := noteKey{channel, c.abs(step), pitch}
	if _, ok := c.notes[key]; ok {
		delete(c.notes, key)
		return
	}
	c.notes[key] = StepInfo{State: StepStart, Duration: c.stepLength, Velocity: velocity}
}

// UpdateStepDuration changes the duration of an existing note start.
func (c *NoteClip) UpdateStepDuration(channel, step, pitch int, duration float64) {
	if !c.validSlot(step, pitch) || duration <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := noteKey{channel, c.abs(step), pitch}
	if n, ok := c.notes[key]; ok {
		n.Duration = duration
		c.notes[key] = n
	}
}

// UpdateMuteState sets the mute flag of an existing note start.
func (c *NoteClip) UpdateMuteState(channel, step, pitch int, muted bool) {
	if !c.validSlot(step, pitch) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := noteKey{channel, c.abs(step), pitch}
	if n, ok := c.notes[key]; ok {
		n.Muted = muted
		c.notes[key] = n
	}
}

// Transpose shifts every note by the given semitones. Notes pushed out of
// the MIDI range are dropped.
func (c *NoteClip) Transpose(semitones int) {
	if semitones == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	shifted := make(map[noteKey]StepInfo, len(c.notes))
	for k, n := range c.notes {
		p := k.pitch + semitones
		if p < 0 || p >= c.NumRows() {
			continue
		}
		shifted[noteKey{k.channel, k.step, p}] = n
	}
	c.notes = shifted
}

func (c *NoteClip) LoopStart() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loopStart
}

func (c *NoteClip) LoopLength() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loopLength
}

func (c *NoteClip) SetLoopStart(beats float64) {
	if beats < 0 {
		return
	}
	c.mu.Lock()
	c.loopStart = beats
	c.mu.Unlock()
}

func (c *NoteClip) SetLoopLength(beats float64) {
	if beats <= 0 {
		return
	}
	c.mu.Lock()
	c.loopLength = beats
	c.mu.Unlock()
}

// SetPlayRange bounds playback to [start, end) beats.
func (c *NoteClip) SetPlayRange(start, end float64) {
	if start < 0 || end <= start {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playStart = start
	c.playEnd = end
	// Snap the playhead into the new range
	if !c.inPlayRange(c.playPos) {
		c.playPos = int(start / c.stepLength)
	}
}

func (c *NoteClip) PlayRange() (start, end float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playStart, c.playEnd
}

func (c *NoteClip) inPlayRange(step int) bool {
	beat := float64(step) * c.stepLength
	return beat >= c.playStart && beat < c.playEnd
}

// Advance moves the playhead one step, wrapping at the play range end.
func (c *NoteClip) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.playPos + 1
	if next >= c.stepsPerPage*c.numPages || !c.inPlayRange(next) {
		next = int(c.playStart / c.stepLength)
	}
	c.playPos = next
}
