package report

import (
	"fmt"
	"sync"
)

// StatGroup collects simple streaming statistics. It is safe for concurrent
// pushes from independent device fire chains.
type StatGroup struct {
	mu sync.Mutex

	min  float64
	max  float64
	sum  float64
	mean float64

	count int64
}

// Push updates the group with a new value.
func (s *StatGroup) Push(n float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		s.min = n
		s.max = n
		s.mean = n
		s.sum = n
		s.count = 1
		return
	}

	if n < s.min {
		s.min = n
	}
	if n > s.max {
		s.max = n
	}
	s.sum += n

	// constant-space mean update:
	sum := s.mean*float64(s.count) + n
	s.mean = sum / float64(s.count+1)

	s.count++
}

func (s *StatGroup) Min() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.min
}

func (s *StatGroup) Max() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

func (s *StatGroup) Mean() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mean
}

func (s *StatGroup) Sum() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum
}

func (s *StatGroup) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// String makes a simple description of a StatGroup.
func (s *StatGroup) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("min: %f, max: %f, mean: %f, count: %d, sum: %f", s.min, s.max, s.mean, s.count, s.sum)
}
