// Package scheduler fires one independent periodic emission callback per
// device id. Each device owns a drift-corrected chain of one-shot timers:
// the next fire is computed from the previously scheduled absolute time, so
// per-fire execution jitter does not accumulate, and a host suspension
// resynchronizes instead of firing a catch-up burst.
package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Callback performs one emission for a device. A returned error or a panic
// is recorded against the device and never terminates its schedule.
type Callback func(deviceID string) error

// Scheduler owns at most one timer chain per device id. Fires for a single
// device are strictly sequential; a slow callback delays only its own
// device's next fire.
type Scheduler struct {
	mu        sync.Mutex
	schedules map[string]*schedule
}

// schedule is the explicit per-device record advanced by method calls; the
// timers themselves never capture mutable counters. The generation number is
// the liveness flag: every queued fire re-checks it before touching the
// record or invoking the callback, so a fire queued before Stop or a restart
// becomes a no-op.
type schedule struct {
	deviceID   string
	interval   time.Duration
	callback   Callback
	timer      *time.Timer
	generation uint64

	running       bool
	startedAt     time.Time
	lastEmittedAt time.Time
	nextFireAt    time.Time
	emissionCount uint64
	errorCount    uint64
}

func New() *Scheduler {
	return &Scheduler{schedules: make(map[string]*schedule)}
}

// Start schedules a device. Restarting an already-scheduled device fully
// cancels the previous chain first, so two concurrent chains for the same id
// cannot exist. Cumulative counters from an earlier schedule of the same
// device are carried over. With emitImmediately, the callback runs once
// synchronously, outside the timer chain, before the first regular fire is
// armed.
func (s *Scheduler) Start(deviceID string, interval time.Duration, cb Callback, emitImmediately bool) error {
	if deviceID == "" {
		return errors.New("empty device id")
	}
	if interval <= 0 {
		return errors.Errorf("invalid interval %v for device %s", interval, deviceID)
	}
	if cb == nil {
		return errors.Errorf("nil callback for device %s", deviceID)
	}

	s.mu.Lock()
	sc := s.schedules[deviceID]
	if sc == nil {
		sc = &schedule{deviceID: deviceID}
		s.schedules[deviceID] = sc
	}
	s.cancelLocked(sc)
	sc.generation++
	gen := sc.generation
	sc.interval = interval
	sc.callback = cb
	sc.running = true
	sc.startedAt = time.Now()
	s.mu.Unlock()

	if emitImmediately {
		s.invoke(sc, gen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !sc.running || sc.generation != gen {
		// Stopped or restarted during the immediate emission.
		return nil
	}
	sc.nextFireAt = time.Now().Add(interval)
	s.armLocked(sc, gen)
	return nil
}

// Stop cancels the device's pending timer. Idempotent; cumulative counters
// and the status record are preserved.
func (s *Scheduler) Stop(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.schedules[deviceID]
	if sc == nil || !sc.running {
		return
	}
	s.cancelLocked(sc)
	sc.generation++
	sc.running = false
	sc.nextFireAt = time.Time{}
}

// StopAll stops every scheduled device, preserving aggregate counters.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.schedules {
		if !sc.running {
			continue
		}
		s.cancelLocked(sc)
		sc.generation++
		sc.running = false
		sc.nextFireAt = time.Time{}
	}
}

// UpdateInterval re-arms a running device's chain with a new interval. The
// callback and the cumulative emission/error counters are carried over.
func (s *Scheduler) UpdateInterval(deviceID string, interval time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("invalid interval %v for device %s", interval, deviceID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.schedules[deviceID]
	if sc == nil || !sc.running {
		return errors.Errorf("device %s is not scheduled", deviceID)
	}
	s.cancelLocked(sc)
	sc.generation++
	sc.interval = interval
	sc.nextFireAt = time.Now().Add(interval)
	s.armLocked(sc, sc.generation)
	return nil
}

// cancelLocked stops the pending timer, if any. Callers hold s.mu.
func (s *Scheduler) cancelLocked(sc *schedule) {
	if sc.timer != nil {
		sc.timer.Stop()
		sc.timer = nil
	}
}

// armLocked schedules the next fire at sc.nextFireAt. Callers hold s.mu.
func (s *Scheduler) armLocked(sc *schedule, gen uint64) {
	sc.timer = time.AfterFunc(time.Until(sc.nextFireAt), func() {
		s.fire(sc, gen)
	})
}

func (s *Scheduler) fire(sc *schedule, gen uint64) {
	s.mu.Lock()
	if !sc.running || sc.generation != gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.invoke(sc, gen)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !sc.running || sc.generation != gen {
		return
	}
	// Advance from the previously scheduled time, not from now.
	sc.nextFireAt = sc.nextFireAt.Add(sc.interval)
	if !sc.nextFireAt.After(time.Now()) {
		// The deadline already passed (suspended host or a callback slower
		// than the interval). Resynchronize; never fire catch-up emissions.
		log.Printf("scheduler: drift detected for device %s, resynchronizing", sc.deviceID)
		sc.nextFireAt = time.Now().Add(sc.interval)
	}
	s.armLocked(sc, gen)
}

// invoke runs the callback once, without holding the scheduler lock, and
// records the outcome if the schedule is still the same generation.
func (s *Scheduler) invoke(sc *schedule, gen uint64) {
	s.mu.Lock()
	if !sc.running || sc.generation != gen {
		s.mu.Unlock()
		return
	}
	cb := sc.callback
	id := sc.deviceID
	s.mu.Unlock()

	err := runCallback(cb, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.generation != gen {
		return
	}
	sc.lastEmittedAt = time.Now()
	if err != nil {
		sc.errorCount++
		log.Printf("scheduler: emission for device %s failed: %v", id, err)
		return
	}
	sc.emissionCount++
}

func runCallback(cb Callback, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("callback panic: %v", r)
		}
	}()
	return cb(id)
}
