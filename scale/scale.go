package scale

import (
	"fmt"
	"sync"
)

// Scale is a named set of semitone intervals within one octave.
type Scale struct {
	Name      string
	Intervals []int
}

var (
	Major           = Scale{"Major", []int{0, 2, 4, 5, 7, 9, 11}}
	Minor           = Scale{"Minor", []int{0, 2, 3, 5, 7, 8, 10}}
	Dorian          = Scale{"Dorian", []int{0, 2, 3, 5, 7, 9, 10}}
	Mixolydian      = Scale{"Mixolydian", []int{0, 2, 4, 5, 7, 9, 10}}
	MajorPentatonic = Scale{"Major Pentatonic", []int{0, 2, 4, 7, 9}}
	MinorPentatonic = Scale{"Minor Pentatonic", []int{0, 3, 5, 7, 10}}
	Blues           = Scale{"Blues", []int{0, 3, 5, 6, 7, 10}}
)

// All lists the selectable scales in display order.
var All = []Scale{Major, Minor, Dorian, Mixolydian, MajorPentatonic, MinorPentatonic, Blues}

// IndexInScale returns the position of the pitch's class within the
// interval table, or -1 when the pitch is not in the scale.
func (s Scale) IndexInScale(pitch int) int {
	if pitch < 0 {
		return -1
	}
	pc := pitch % 12
	for i, iv := range s.Intervals {
		if iv == pc {
			return i
		}
	}
	return -1
}

// Scales tracks the active scale selection and chromatic flag. The UI
// changes the selection while the engine reads it, so access is locked.
type Scales struct {
	mu        sync.Mutex
	scale     Scale
	chromatic bool
}

func New() *Scales {
	return &Scales{scale: Major}
}

func (s *Scales) Scale() Scale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *Scales) SetScale(sc Scale) {
	s.mu.Lock()
	s.scale = sc
	s.mu.Unlock()
}

// CycleScale advances to the next scale in All, wrapping around.
func (s *Scales) CycleScale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sc := range All {
		if sc.Name == s.scale.Name {
			s.scale = All[(i+1)%len(All)]
			return
		}
	}
	s.scale = All[0]
}

func (s *Scales) IsChromatic() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chromatic
}

func (s *Scales) SetChromatic(on bool) {
	s.mu.Lock()
	s.chromatic = on
	s.mu.Unlock()
}

// SequencerMatrix builds a row -> pitch lookup of the given size starting
// at offset. Chromatic mode walks consecutive semitones; scale mode walks
// the scale degrees upward from the nearest degree at or below offset.
// Rows past the MIDI range map to -1.
func (s *Scales) SequencerMatrix(rows, offset int) []int {
	s.mu.Lock()
	chromatic, sc := s.chromatic, s.scale
	s.mu.Unlock()

	m := make([]int, rows)
	if chromatic {
		for i := range m {
			p := offset + i
			if p < 0 || p > 127 {
				p = -1
			}
			m[i] = p
		}
		return m
	}

	// Walk degrees upward from the nearest degree at or below offset, so
	// an off-scale offset still yields only scale-valid pitches.
	iv := sc.Intervals
	pc := offset % 12
	start := 0
	for i, v := range iv {
		if v > pc {
			break
		}
		start = i
	}
	base := offset - pc
	for i := range m {
		idx := start + i
		p := base + idx/len(iv)*12 + iv[idx%len(iv)]
		if p < 0 || p > 127 {
			p = -1
		}
		m[i] = p
	}
	return m
}

// EmptyMatrix is the lookup used when the current track cannot hold
// notes; every row renders as empty.
func EmptyMatrix(rows int) []int {
	m := make([]int, rows)
	for i := range m {
		m[i] = -1
	}
	return m
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchName formats a MIDI pitch as note name plus octave number.
func PitchName(pitch int) string {
	if pitch < 0 || pitch > 127 {
		return "-"
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], pitch/12)
}

// RangeText describes the audible span between two pitches, used for the
// post-scroll notification.
func RangeText(low, high int) string {
	return fmt.Sprintf("%s to %s", PitchName(low), PitchName(high))
}
