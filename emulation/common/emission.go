package common

import "time"

// SignalQuality carries reception-metadata overrides. It is applied to the
// emission envelope, never to the generated field map, and is substituted
// as-is rather than clamped.
type SignalQuality struct {
	RSSI int
	SNR  float64
}

// Emission is one generated payload handed to a serializer or an envelope
// builder.
type Emission struct {
	DeviceID string
	Category string

	Org  string
	Site string
	Unit string

	Port         int
	FrameCounter uint64
	Timestamp    time.Time

	Fields *Fields
	Signal *SignalQuality
}
