package sequencer

// Track is one editable lane of the clip: a MIDI channel with a display
// name and the color used for its grid background when DAW colors are on.
type Track struct {
	Name    string
	Channel int
	Color   [3]uint8
}

// DefaultTracks is the out-of-the-box four-track layout.
func DefaultTracks() []Track {
	return []Track{
		{Name: "Track 1", Channel: 0, Color: [3]uint8{0, 120, 200}},
		{Name: "Track 2", Channel: 1, Color: [3]uint8{200, 90, 0}},
		{Name: "Track 3", Channel: 2, Color: [3]uint8{60, 180, 60}},
		{Name: "Track 4", Channel: 3, Color: [3]uint8{170, 60, 170}},
	}
}
