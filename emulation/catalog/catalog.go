// Package catalog holds the device models available to an emulation run.
// The catalog is constructed once by the composition root and passed by
// reference; there is no module-level device index.
package catalog

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/coldchainio/fleet-emulator/emulation/common"
)

// Device is one catalog entry: a device model emulated instances are
// assigned to.
type Device struct {
	ID       string
	Category string

	// Port is the default uplink port the envelope builder uses.
	Port int

	Profile *common.ValueProfile
}

// Catalog is an immutable set of device models.
type Catalog struct {
	devices []*Device
	byID    map[string]*Device
}

// New builds a catalog, rejecting duplicate ids and structurally invalid
// profiles. Deeper semantic validation belongs to the external catalog
// tooling; definitions reaching the emulator are assumed curated.
func New(devices ...*Device) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Device, len(devices))}
	for _, d := range devices {
		if d.ID == "" {
			return nil, errors.New("device must carry an id")
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, errors.Errorf("duplicate device id %q", d.ID)
		}
		if d.Profile == nil {
			return nil, errors.Errorf("device %q has no value profile", d.ID)
		}
		if err := d.Profile.Validate(); err != nil {
			return nil, errors.Wrapf(err, "device %q", d.ID)
		}
		c.byID[d.ID] = d
		c.devices = append(c.devices, d)
	}
	return c, nil
}

// Device looks up a model by id.
func (c *Catalog) Device(id string) (*Device, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Devices returns the models in declared order.
func (c *Catalog) Devices() []*Device {
	return c.devices
}

// Len returns the number of models.
func (c *Catalog) Len() int {
	return len(c.devices)
}

// Categories returns the distinct device categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range c.devices {
		if _, ok := seen[d.Category]; ok {
			continue
		}
		seen[d.Category] = struct{}{}
		out = append(out, d.Category)
	}
	sort.Strings(out)
	return out
}
