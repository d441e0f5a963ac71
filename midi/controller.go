package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
)

// PadEvent is one pad transition on a grid controller. Velocity 0 is a
// release; the engine depends on seeing both edges.
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// LEDUpdate is one LED change in a batch.
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8 // 0=static, 2=pulse
}

// Controller is the interface for grid input/output devices.
type Controller interface {
	ID() string
	Type() ControllerType

	// Input events from the controller, presses and releases both
	PadEvents() <-chan PadEvent

	// Output to the controller; the driver maps RGB to its palette
	SetLEDBatch(updates []LEDUpdate) error

	// Lifecycle
	Close() error
}

// Channel modes for LED updates
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)
