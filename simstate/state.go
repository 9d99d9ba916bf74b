package simstate

import "time"

// DeviceState is the per-device simulation record threaded through every
// generation call. It is exclusively owned by the caller holding the device
// instance id; stores hand out copies, never their internal pointers.
type DeviceState struct {
	DeviceID  string `json:"device_id"`
	ProfileID string `json:"profile_id"`

	// FrameCounter and EmissionSequence each advance exactly once per
	// successful generation call. The sequence feeds the next
	// reproducibility context.
	FrameCounter     uint64 `json:"frame_counter"`
	EmissionSequence uint64 `json:"emission_sequence"`

	// IncrementCounters holds the current value of every increment-flagged
	// field. LastValues holds the last emitted value per field and is read
	// only for drift smoothing.
	IncrementCounters map[string]int64       `json:"increment_counters"`
	LastValues        map[string]interface{} `json:"last_values"`

	LastEmittedAt time.Time `json:"last_emitted_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDeviceState returns a state with all counters at zero, as created the
// first time a device instance is referenced.
func NewDeviceState(deviceID, profileID string) *DeviceState {
	now := time.Now().UTC()
	return &DeviceState{
		DeviceID:          deviceID,
		ProfileID:         profileID,
		IncrementCounters: make(map[string]int64),
		LastValues:        make(map[string]interface{}),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone deep-copies the state so callers and stores never share maps.
func (s *DeviceState) Clone() *DeviceState {
	c := *s
	c.IncrementCounters = make(map[string]int64, len(s.IncrementCounters))
	for k, v := range s.IncrementCounters {
		c.IncrementCounters[k] = v
	}
	c.LastValues = make(map[string]interface{}, len(s.LastValues))
	for k, v := range s.LastValues {
		c.LastValues[k] = v
	}
	return &c
}

// ResetCounters zeroes the simulation progress while keeping the device
// identity and CreatedAt.
func (s *DeviceState) ResetCounters() {
	s.FrameCounter = 0
	s.EmissionSequence = 0
	s.IncrementCounters = make(map[string]int64)
	s.LastValues = make(map[string]interface{})
	s.LastEmittedAt = time.Time{}
	s.UpdatedAt = time.Now().UTC()
}
