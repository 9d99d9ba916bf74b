package simstate

import (
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when no state exists for a device instance id.
var ErrNotFound = errors.New("device state not found")

// StatePatch is a partial update. Nil members leave the stored value
// untouched; map members are merged key by key.
type StatePatch struct {
	FrameCounter      *uint64
	EmissionSequence  *uint64
	IncrementCounters map[string]int64
	LastValues        map[string]interface{}
	LastEmittedAt     *time.Time
}

// Store persists DeviceState by device instance id so a test session
// survives process restarts. Generation for a given device only ever runs on
// that device's own fire chain, so implementations need no per-device
// locking beyond their own internal consistency.
type Store interface {
	// Get returns a copy of the state for the device, or ErrNotFound.
	Get(deviceID string) (*DeviceState, error)

	// Put stores the full state, creating or replacing the record.
	Put(state *DeviceState) error

	// Update applies a partial patch to an existing state.
	Update(deviceID string, patch StatePatch) error

	// Reset zeroes the counters of an existing state, preserving identity.
	Reset(deviceID string) error

	// Delete removes the state; deleting an absent device is ErrNotFound.
	Delete(deviceID string) error

	// All lists every stored state ordered by device id.
	All() ([]*DeviceState, error)
}

func applyPatch(s *DeviceState, patch StatePatch) {
	if patch.FrameCounter != nil {
		s.FrameCounter = *patch.FrameCounter
	}
	if patch.EmissionSequence != nil {
		s.EmissionSequence = *patch.EmissionSequence
	}
	for k, v := range patch.IncrementCounters {
		s.IncrementCounters[k] = v
	}
	for k, v := range patch.LastValues {
		s.LastValues[k] = v
	}
	if patch.LastEmittedAt != nil {
		s.LastEmittedAt = *patch.LastEmittedAt
	}
	s.UpdatedAt = time.Now().UTC()
}
