package catalog

import (
	"encoding/json"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/coldchainio/fleet-emulator/emulation/common"
)

type deviceConfig struct {
	ID       string        `json:"id"`
	Category string        `json:"category"`
	Port     int           `json:"port"`
	Fields   []fieldConfig `json:"fields"`
}

type fieldConfig struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`

	// Pointer so an explicit `precision = 0` (whole-number floats) is
	// distinguishable from an omitted precision.
	Precision *int `json:"precision"`

	Increment bool        `json:"increment"`
	Static    bool        `json:"static"`
	Default   interface{} `json:"default"`
	Values    []string    `json:"values"`
}

// LoadTOML reads a device catalog from a TOML file:
//
//	[[devices]]
//	id = "freezer-xl"
//	category = "freezer"
//	port = 12
//
//	  [[devices.fields]]
//	  name = "temperature"
//	  type = "float"
//	  min = -30.0
//	  max = -14.0
//	  precision = 1
func LoadTOML(path string) (*Catalog, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading catalog file %s", path)
	}
	obj := tree.ToMap()["devices"]
	if obj == nil {
		return nil, errors.Errorf("no [[devices]] in %s", path)
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "catalog config marshal failed")
	}
	var configs []deviceConfig
	if err := json.Unmarshal(b, &configs); err != nil {
		return nil, errors.Wrap(err, "catalog config unmarshal failed")
	}

	devices := make([]*Device, 0, len(configs))
	for i := range configs {
		c := &configs[i]
		if c.ID == "" {
			return nil, errors.Errorf("device %d in %s has no id", i, path)
		}
		fields := make([]common.FieldSpec, 0, len(c.Fields))
		for j := range c.Fields {
			spec, err := c.Fields[j].toSpec()
			if err != nil {
				return nil, errors.Wrapf(err, "device %q", c.ID)
			}
			fields = append(fields, spec)
		}
		devices = append(devices, &Device{
			ID:       c.ID,
			Category: c.Category,
			Port:     c.Port,
			Profile:  common.NewValueProfile(fields...),
		})
	}
	return New(devices...)
}

func (f *fieldConfig) toSpec() (common.FieldSpec, error) {
	spec := common.FieldSpec{
		Name:      f.Name,
		Min:       f.Min,
		Max:       f.Max,
		Increment: f.Increment,
		Static:    f.Static,
		Default:   f.Default,
		Values:    f.Values,
	}
	if f.Precision != nil {
		spec.Precision = *f.Precision
		spec.PrecisionDeclared = true
	}
	switch f.Type {
	case "float":
		spec.Kind = common.FieldFloat
	case "int":
		spec.Kind = common.FieldInt
	case "bool":
		spec.Kind = common.FieldBool
	case "enum":
		spec.Kind = common.FieldEnum
	case "string":
		spec.Kind = common.FieldString
	default:
		return spec, errors.Errorf("field %q has unknown type %q", f.Name, f.Type)
	}
	return spec, nil
}
