package simstate

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps device states in process memory. It is the default
// backend for single-process emulation runs.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*DeviceState
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*DeviceState)}
}

func (m *MemoryStore) Get(deviceID string) (*DeviceState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[deviceID]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "device %s", deviceID)
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Put(state *DeviceState) error {
	if state == nil || state.DeviceID == "" {
		return errors.New("state must carry a device id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.DeviceID] = state.Clone()
	return nil
}

func (m *MemoryStore) Update(deviceID string, patch StatePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[deviceID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "device %s", deviceID)
	}
	applyPatch(s, patch)
	return nil
}

func (m *MemoryStore) Reset(deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[deviceID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "device %s", deviceID)
	}
	s.ResetCounters()
	return nil
}

func (m *MemoryStore) Delete(deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.states[deviceID]; !ok {
		return errors.Wrapf(ErrNotFound, "device %s", deviceID)
	}
	delete(m.states, deviceID)
	return nil
}

func (m *MemoryStore) All() ([]*DeviceState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*DeviceState, 0, len(m.states))
	for _, s := range m.states {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out, nil
}
