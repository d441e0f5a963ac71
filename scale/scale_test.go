package scale

import "testing"

func TestSequencerMatrixChromatic(t *testing.T) {
	s := New()
	s.SetChromatic(true)

	m := s.SequencerMatrix(8, 36)
	for i := 0; i < 8; i++ {
		if m[i] != 36+i {
			t.Fatalf("row %d: got %d, want %d", i, m[i], 36+i)
		}
	}

	// Monotonically non-decreasing over valid rows
	for i := 1; i < len(m); i++ {
		if m[i] >= 0 && m[i-1] >= 0 && m[i] < m[i-1] {
			t.Fatalf("chromatic matrix not monotonic at row %d: %v", i, m)
		}
	}
}

func TestSequencerMatrixScaleStrictlyIncreasing(t *testing.T) {
	s := New()
	s.SetScale(Major)

	m := s.SequencerMatrix(8, 36)
	want := []int{36, 38, 40, 41, 43, 45, 47, 48}
	for i := range want {
		if m[i] != want[i] {
			t.Fatalf("row %d: got %d, want %d (matrix %v)", i, m[i], want[i], m)
		}
	}
	for i := 1; i < len(m); i++ {
		if m[i] >= 0 && m[i-1] >= 0 && m[i] <= m[i-1] {
			t.Fatalf("scale matrix not strictly increasing at row %d: %v", i, m)
		}
	}
}

func TestSequencerMatrixOffsetOffScale(t *testing.T) {
	s := New()
	s.SetScale(Major)

	// 37 (C#) is not in C major; the walk snaps down to C.
	m := s.SequencerMatrix(3, 37)
	if m[0] != 36 || m[1] != 38 {
		t.Fatalf("off-scale offset: got %v", m)
	}

	// Mid-octave: 42 (F#) snaps down to F, not to the octave root.
	m = s.SequencerMatrix(3, 42)
	if m[0] != 41 || m[1] != 43 || m[2] != 45 {
		t.Fatalf("off-scale mid-octave offset: got %v", m)
	}

	// Every produced row must be a scale degree.
	for i, p := range m {
		if p >= 0 && Major.IndexInScale(p) < 0 {
			t.Fatalf("row %d pitch %d is not in the scale", i, p)
		}
	}
}

func TestSequencerMatrixClampsAtRange(t *testing.T) {
	s := New()
	s.SetChromatic(true)

	m := s.SequencerMatrix(8, 125)
	if m[0] != 125 || m[2] != 127 {
		t.Fatalf("got %v", m)
	}
	for i := 3; i < 8; i++ {
		if m[i] != -1 {
			t.Fatalf("row %d beyond range should be -1, got %d", i, m[i])
		}
	}
}

func TestIndexInScale(t *testing.T) {
	if got := Major.IndexInScale(36); got != 0 {
		t.Fatalf("C in major: got %d", got)
	}
	if got := Major.IndexInScale(43); got != 4 {
		t.Fatalf("G in major: got %d", got)
	}
	if got := Major.IndexInScale(37); got != -1 {
		t.Fatalf("C# in major: got %d", got)
	}
	if got := Major.IndexInScale(-1); got != -1 {
		t.Fatalf("negative pitch: got %d", got)
	}
}

func TestEmptyMatrix(t *testing.T) {
	for _, v := range EmptyMatrix(8) {
		if v != -1 {
			t.Fatalf("empty matrix should be all -1")
		}
	}
}

func TestPitchName(t *testing.T) {
	if got := PitchName(60); got != "C5" {
		t.Fatalf("got %q", got)
	}
	if got := PitchName(-1); got != "-" {
		t.Fatalf("got %q", got)
	}
	if got := RangeText(36, 59); got != "C3 to B4" {
		t.Fatalf("got %q", got)
	}
}

func TestCycleScale(t *testing.T) {
	s := New()
	first := s.Scale().Name
	for range All {
		s.CycleScale()
	}
	if s.Scale().Name != first {
		t.Fatalf("cycling through all scales should wrap to %q, got %q", first, s.Scale().Name)
	}
}
