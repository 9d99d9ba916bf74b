package scenario

import (
	"encoding/json"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/coldchainio/fleet-emulator/emulation/common"
)

type scenarioConfig struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Categories []string               `json:"categories"`
	Fields     map[string]interface{} `json:"fields"`
	Signal     *signalConfig          `json:"signal"`
}

type signalConfig struct {
	RSSI int     `json:"rssi"`
	SNR  float64 `json:"snr"`
}

// LoadTOML reads scenario definitions from a TOML file:
//
//	[[scenarios]]
//	id = "door-open"
//	name = "Door left open"
//	categories = ["fridge", "freezer"]
//	  [scenarios.fields]
//	  door_open = true
//	  temperature = 9.5
//	  [scenarios.signal]
//	  rssi = -110
//	  snr = -8.5
func LoadTOML(path string) (*Registry, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading scenario file %s", path)
	}
	obj := tree.ToMap()["scenarios"]
	if obj == nil {
		return nil, errors.Errorf("no [[scenarios]] in %s", path)
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "scenario config marshal failed")
	}
	var configs []scenarioConfig
	if err := json.Unmarshal(b, &configs); err != nil {
		return nil, errors.Wrap(err, "scenario config unmarshal failed")
	}

	reg, _ := NewRegistry()
	for i := range configs {
		c := &configs[i]
		if c.ID == "" {
			return nil, errors.Errorf("scenario %d in %s has no id", i, path)
		}
		sc := &Scenario{
			ID:         c.ID,
			Name:       c.Name,
			Categories: c.Categories,
			Fields:     c.Fields,
		}
		if c.Signal != nil {
			sc.Signal = &common.SignalQuality{RSSI: c.Signal.RSSI, SNR: c.Signal.SNR}
		}
		if err := reg.Add(sc); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
