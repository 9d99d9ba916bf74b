package scheduler

import (
	"sort"
	"time"
)

// EmissionStatus is a point-in-time snapshot of one device's schedule.
type EmissionStatus struct {
	DeviceID      string
	IsRunning     bool
	Interval      time.Duration
	StartedAt     time.Time
	LastEmittedAt time.Time
	NextFireAt    time.Time
	EmissionCount uint64
	ErrorCount    uint64
}

func (sc *schedule) snapshot() EmissionStatus {
	return EmissionStatus{
		DeviceID:      sc.deviceID,
		IsRunning:     sc.running,
		Interval:      sc.interval,
		StartedAt:     sc.startedAt,
		LastEmittedAt: sc.lastEmittedAt,
		NextFireAt:    sc.nextFireAt,
		EmissionCount: sc.emissionCount,
		ErrorCount:    sc.errorCount,
	}
}

// Status returns the snapshot for one device, if it was ever scheduled.
func (s *Scheduler) Status(deviceID string) (EmissionStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[deviceID]
	if !ok {
		return EmissionStatus{}, false
	}
	return sc.snapshot(), true
}

// AllStatus returns snapshots for every known device, sorted by id.
func (s *Scheduler) AllStatus() []EmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EmissionStatus, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, sc.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}

// RunningStatus returns snapshots for currently scheduled devices only.
func (s *Scheduler) RunningStatus() []EmissionStatus {
	all := s.AllStatus()
	out := all[:0]
	for _, st := range all {
		if st.IsRunning {
			out = append(out, st)
		}
	}
	return out
}

// ActiveDevices counts the devices whose schedules are running.
func (s *Scheduler) ActiveDevices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sc := range s.schedules {
		if sc.running {
			n++
		}
	}
	return n
}

// TotalEmissions sums successful emissions across all devices.
func (s *Scheduler) TotalEmissions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n uint64
	for _, sc := range s.schedules {
		n += sc.emissionCount
	}
	return n
}

// TotalErrors sums recorded callback failures across all devices.
func (s *Scheduler) TotalErrors() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n uint64
	for _, sc := range s.schedules {
		n += sc.errorCount
	}
	return n
}
