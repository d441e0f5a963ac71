package sequencer

// Color is a logical pad color token. The engine only decides tokens;
// mapping to RGB (Launchpad palette or terminal) happens in theme.
type Color int

const (
	ColorOff Color = iota

	// Note area
	ColorHiliteStart    // playhead on a note start
	ColorHiliteContinue // playhead on a sustained step
	ColorHiliteEmpty    // playhead on an empty step
	ColorSelected       // cell is part of the edit selection
	ColorMutedStart
	ColorMutedContinue
	ColorContentStart
	ColorContentContinue
	ColorBackground
	ColorBackgroundTrack // background tinted with the track color

	// Header band (loop/page row)
	ColorPageOff
	ColorPageInLoop
	ColorPagePlay
	ColorPageEdit
)

// PadPalette maps a color token to an RGB value and a Launchpad channel
// mode (static or pulse).
type PadPalette func(c Color) (rgb [3]uint8, channel uint8)
