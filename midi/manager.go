package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of MIDI grid controllers
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	match       func(portName string) bool
}

// NewDeviceManager creates a device manager that watches for Launchpads.
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		match:       isLaunchpad,
	}
}

// SetPortFilter overrides which port names count as grid controllers
// (used when the config pins a specific device).
func (dm *DeviceManager) SetPortFilter(match func(portName string) bool) {
	if match != nil {
		dm.match = match
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	snapshot := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		snapshot[k] = v
	}
	return snapshot
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		// MIDI backend is hung - skip this scan
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		name := strings.ToLower(inPort.String())
		if !dm.match(name) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		// Find matching output port
		var outPort drivers.Out
		for j, op := range outPorts {
			if strings.ToLower(op.String()) == name {
				outPort = outPorts[j]
				break
			}
		}

		lp, err := NewLaunchpadController(id, inPorts[i], outPort)
		if err != nil {
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = lp
		dm.mu.Unlock()

		dm.events <- DeviceEvent{
			Type:       DeviceConnected,
			Controller: lp,
			ID:         id,
		}
	}

	// Check for disconnects. The event sends happen after the lock is
	// released; a full channel must not block Controllers or closeAll.
	for _, id := range dm.removeStale(seenIDs) {
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
}

// removeStale closes and drops every controller whose port vanished from
// the last scan, reporting the removed IDs.
func (dm *DeviceManager) removeStale(seen map[string]bool) []string {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	var removed []string
	for id, c := range dm.controllers {
		if !seen[id] {
			c.Close()
			delete(dm.controllers, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
