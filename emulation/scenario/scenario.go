// Package scenario layers named alarm/fault override sets on top of
// generated fields, re-clamping numeric values so a scenario can never
// escape a device's declared bounds.
package scenario

import (
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/coldchainio/fleet-emulator/emulation/common"
)

// ErrUnknownScenario is returned when composing with an id no definition
// exists for. Unlike a category mismatch, this is fatal to the compose call.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is a named override set simulating one alarm or fault condition.
type Scenario struct {
	ID   string
	Name string

	// Categories lists the device categories this scenario is written for.
	// Empty means every category.
	Categories []string

	// Fields overrides generated field values; Signal overrides reception
	// metadata on the envelope.
	Fields map[string]interface{}
	Signal *common.SignalQuality
}

// SupportsCategory reports whether the scenario declares the category.
func (sc *Scenario) SupportsCategory(category string) bool {
	if len(sc.Categories) == 0 {
		return true
	}
	for _, c := range sc.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Registry holds the scenario definitions for one emulation session. It is
// constructed explicitly and passed by reference; there is no package-level
// registry.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]*Scenario
	order     []string

	warnings uint64
}

func NewRegistry(scenarios ...*Scenario) (*Registry, error) {
	r := &Registry{scenarios: make(map[string]*Scenario)}
	for _, sc := range scenarios {
		if err := r.Add(sc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a scenario. Duplicate ids are rejected.
func (r *Registry) Add(sc *Scenario) error {
	if sc == nil || sc.ID == "" {
		return errors.New("scenario must carry an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.scenarios[sc.ID]; dup {
		return errors.Errorf("duplicate scenario id %q", sc.ID)
	}
	r.scenarios[sc.ID] = sc
	r.order = append(r.order, sc.ID)
	return nil
}

// Get resolves a scenario by id, or fails with ErrUnknownScenario.
func (r *Registry) Get(id string) (*Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sc, ok := r.scenarios[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScenario, "%q", id)
	}
	return sc, nil
}

// IDs returns the registered scenario ids sorted lexically.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}

// Warnings returns how many category mismatches were tolerated so far.
func (r *Registry) Warnings() uint64 {
	return atomic.LoadUint64(&r.warnings)
}

// Apply resolves a scenario by id and composes it for the given device. A
// category mismatch only logs a warning and proceeds: the composer is a
// best-effort testing tool and never blocks on it.
func (r *Registry) Apply(p *common.ValueProfile, category, scenarioID string, base map[string]interface{}, generated *common.Fields) (*common.Fields, *common.SignalQuality, error) {
	sc, err := r.Get(scenarioID)
	if err != nil {
		return nil, nil, err
	}
	if !sc.SupportsCategory(category) {
		atomic.AddUint64(&r.warnings, 1)
		log.Printf("scenario %q does not declare category %q, composing anyway", sc.ID, category)
	}
	return Compose(p, base, sc.Fields, generated), sc.Signal, nil
}
