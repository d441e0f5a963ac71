package sequencer

import (
	"sync"
	"time"

	"github.com/kukuen/gridseq/clip"
	"github.com/kukuen/gridseq/debug"
	"github.com/kukuen/gridseq/scale"
)

// Clip is the note store the engine reads and edits. Implemented by
// clip.NoteClip; the DAW side owns the data, the engine only goes
// through these operations.
type Clip interface {
	GetStep(channel, step, pitch int) clip.StepInfo
	SetStep(channel, step, pitch int, info clip.StepInfo)
	AddNote(channel, step, pitch int, velocity uint8, duration float64)
	ToggleStep(channel, step, pitch int, velocity uint8)
	UpdateStepDuration(channel, step, pitch int, duration float64)
	UpdateMuteState(channel, step, pitch int, muted bool)
	CurrentStep() int
	EditPage() int
	ScrollToPage(page int)
	LoopStart() float64
	LoopLength() float64
	SetLoopStart(beats float64)
	SetLoopLength(beats float64)
	SetPlayRange(start, end float64)
	Transpose(semitones int)
	NumSteps() int
	NumRows() int
}

// Config carries the edit-time settings the engine consults. Runtime
// mutations go through the engine's accessors so they ride its lock.
type Config struct {
	EditChannel      int
	AccentActive     bool
	FixedAccentValue uint8
	ResolutionIndex  int
	UseDawColors     bool
}

// GridStep addresses one note cell in the edit selection.
type GridStep struct {
	Channel, Step, Pitch int
}

const (
	defaultStartKey  = 36
	noteMapDelay     = 10 * time.Millisecond
	rangeNotifyDelay = 100 * time.Millisecond
)

// Engine is the grid sequencer core: it turns pad events into clip edits
// and derives the full grid image from clip, scale, and edit state. One
// engine per grid view; all per-view state lives here, never in globals,
// so several grids can run side by side. Pad events, the TUI, and the
// LED flush call in from different goroutines; mu serializes them.
type Engine struct {
	clip    Clip
	scales  *scale.Scales
	surface Surface
	sched   *Scheduler

	mu  sync.Mutex
	cfg *Config

	keys    *KeyMapper
	cols    int
	seqRows int
	// seqRows note rows plus a header row for the loop/page band
	dispRows int

	offsetY   int
	pager     *loopPager
	copyNote  *clip.StepInfo
	editNotes map[GridStep]struct{}
	active    bool

	// canHoldNotes mirrors whether the addressed track accepts notes; a
	// false value degrades the whole note area to blank.
	canHoldNotes bool

	onRange  func(text string) // deferred range notification sink
	onUpdate func()            // repaint request sink
}

// NewEngine wires an engine over its collaborators. cols is the page
// width in steps, seqRows the number of note rows (the header band adds
// one display row on top).
func NewEngine(c Clip, scales *scale.Scales, surf Surface, sched *Scheduler, cfg *Config, cols, seqRows int) *Engine {
	e := &Engine{
		clip:         c,
		scales:       scales,
		surface:      surf,
		sched:        sched,
		cfg:          cfg,
		keys:         NewKeyMapper(),
		cols:         cols,
		seqRows:      seqRows,
		dispRows:     seqRows + 1,
		offsetY:      defaultStartKey,
		editNotes:    make(map[GridStep]struct{}),
		canHoldNotes: true,
	}
	e.pager = newLoopPager(e)
	return e
}

func (e *Engine) Cols() int        { return e.cols }
func (e *Engine) Rows() int        { return e.dispRows }
func (e *Engine) SeqRows() int     { return e.seqRows }
func (e *Engine) Keys() *KeyMapper { return e.keys }

func (e *Engine) OffsetY() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offsetY
}

func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Config accessors: the settings are read inside locked engine paths, so
// outside writers come through here instead of poking the struct.

func (e *Engine) ToggleAccent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.AccentActive = !e.cfg.AccentActive
	return e.cfg.AccentActive
}

func (e *Engine) AccentActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.AccentActive
}

func (e *Engine) AccentValue() uint8 { return e.cfg.FixedAccentValue }

func (e *Engine) EditChannel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.EditChannel
}

func (e *Engine) SetEditChannel(ch int) {
	e.mu.Lock()
	e.cfg.EditChannel = ch
	e.mu.Unlock()
}

func (e *Engine) ResolutionIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.ResolutionIndex
}

// CycleResolution advances to the next grid resolution and returns the
// new index. The caller keeps the clip's step length in sync.
func (e *Engine) CycleResolution() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.ResolutionIndex = (e.cfg.ResolutionIndex + 1) % NumResolutions()
	return e.cfg.ResolutionIndex
}

// SetRangeNotify registers the sink for the deferred pitch-range text.
func (e *Engine) SetRangeNotify(fn func(string)) { e.onRange = fn }

// SetUpdateNotify registers the repaint request sink.
func (e *Engine) SetUpdateNotify(fn func()) { e.onUpdate = fn }

// SetCanHoldNotes switches between the real key table and the empty one.
func (e *Engine) SetCanHoldNotes(ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canHoldNotes = ok
	e.updateScale()
}

// OnActivate marks the view active and rebuilds the key table.
func (e *Engine) OnActivate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = true
	e.updateScale()
}

// OnDeactivate resets the per-view edit state to idle.
func (e *Engine) OnDeactivate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.pager.reset()
	e.copyNote = nil
	e.clearEditNotes()
}

// OnGridEvent handles one pad event. Velocity 0 is a release, anything
// else a press.
func (e *Engine) OnGridEvent(index int, velocity uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || index < 0 || index >= e.cols*e.dispRows {
		return
	}
	x := index % e.cols
	y := index / e.cols
	if y < e.seqRows {
		e.handleNoteArea(index, x, y, velocity)
		return
	}
	e.pager.handle(x, velocity)
}

// ScaleChanged re-derives the key table after a scale or chromatic-flag
// change.
func (e *Engine) ScaleChanged() {
	e.mu.Lock()
	e.updateScale()
	e.mu.Unlock()
}

// updateScale schedules the (debounced) key table rebuild. Rapid octave
// scrolling collapses into one recompute.
func (e *Engine) updateScale() {
	rows := e.seqRows + 1
	offset := e.offsetY
	hold := e.canHoldNotes
	e.sched.Schedule("notemap", noteMapDelay, func() {
		if hold {
			e.keys.SetTable(e.scales.SequencerMatrix(rows, offset))
		} else {
			e.keys.SetTable(scale.EmptyMatrix(rows))
		}
		debug.Log("keymap", "table rebuilt offset=%d chromatic=%v", offset, e.scales.IsChromatic())
		e.requestUpdate()
	})
}

func (e *Engine) requestUpdate() {
	if e.onUpdate != nil {
		e.onUpdate()
	}
}

// Edit selection

func (e *Engine) selectNote(channel, step, pitch int) {
	e.editNotes[GridStep{channel, step, pitch}] = struct{}{}
}

func (e *Engine) isEdit(channel, step, pitch int) bool {
	_, ok := e.editNotes[GridStep{channel, step, pitch}]
	return ok
}

// ClearEditNotes empties the edit selection.
func (e *Engine) ClearEditNotes() {
	e.mu.Lock()
	e.clearEditNotes()
	e.mu.Unlock()
}

func (e *Engine) clearEditNotes() {
	e.editNotes = make(map[GridStep]struct{})
}

// editVelocity resolves the velocity for an edit: the fixed accent value
// when accent is active, otherwise the recorded press velocity of the pad.
func (e *Engine) editVelocity(pad int) uint8 {
	if e.cfg.AccentActive {
		return e.cfg.FixedAccentValue
	}
	return e.surface.PressedVelocity(pad)
}
