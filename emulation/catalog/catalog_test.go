package catalog

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldchainio/fleet-emulator/emulation/common"
)

func TestBuiltinColdChain(t *testing.T) {
	c := BuiltinColdChain()
	require.Equal(t, 4, c.Len())
	require.Equal(t, []string{"ambient", "door", "freezer", "fridge"}, c.Categories())

	freezer, ok := c.Device("cc-freezer")
	require.True(t, ok)
	require.NoError(t, freezer.Profile.Validate())
	temp, ok := freezer.Profile.Field("temperature")
	require.True(t, ok)
	require.Equal(t, common.FieldFloat, temp.Kind)

	for _, d := range c.Devices() {
		require.NoError(t, d.Profile.Validate(), "model %s", d.ID)
	}
}

func TestNewRejectsBadDevices(t *testing.T) {
	p := common.NewValueProfile(
		common.FieldSpec{Name: "t", Kind: common.FieldFloat, Min: 0, Max: 1},
	)

	_, err := New(&Device{ID: "", Profile: p})
	require.Error(t, err)

	_, err = New(&Device{ID: "a", Profile: p}, &Device{ID: "a", Profile: p})
	require.Error(t, err)

	_, err = New(&Device{ID: "a"})
	require.Error(t, err)

	bad := common.NewValueProfile(
		common.FieldSpec{Name: "t", Kind: common.FieldFloat, Min: 5, Max: 1},
	)
	_, err = New(&Device{ID: "a", Profile: bad})
	require.Error(t, err)
}

const catalogTOML = `
[[devices]]
id = "freezer-xl"
category = "freezer"
port = 12

  [[devices.fields]]
  name = "temperature"
  type = "float"
  min = -30.0
  max = -14.0
  precision = 1

  [[devices.fields]]
  name = "setpoint"
  type = "float"
  min = -25.0
  max = -15.0
  precision = 0

  [[devices.fields]]
  name = "battery"
  type = "int"
  min = 0.0
  max = 100.0

  [[devices.fields]]
  name = "mode"
  type = "enum"
  values = ["auto", "eco"]

  [[devices.fields]]
  name = "firmware"
  type = "string"
  static = true
  default = "fw-1.0.0"
`

func TestLoadTOML(t *testing.T) {
	dir, err := ioutil.TempDir("", "catalog-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "catalog.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(catalogTOML), 0644))

	c, err := LoadTOML(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	d, ok := c.Device("freezer-xl")
	require.True(t, ok)
	require.Equal(t, "freezer", d.Category)
	require.Equal(t, 12, d.Port)
	require.Equal(t, 5, len(d.Profile.Fields))

	temp, ok := d.Profile.Field("temperature")
	require.True(t, ok)
	require.Equal(t, common.FieldFloat, temp.Kind)
	require.Equal(t, -30.0, temp.Min)
	require.Equal(t, 1, temp.EffectivePrecision())

	// precision = 0 in the file means whole-number floats, not the default.
	setpoint, ok := d.Profile.Field("setpoint")
	require.True(t, ok)
	require.True(t, setpoint.PrecisionDeclared)
	require.Equal(t, 0, setpoint.EffectivePrecision())

	fw, ok := d.Profile.Field("firmware")
	require.True(t, ok)
	require.True(t, fw.Static)
	require.Equal(t, "fw-1.0.0", fw.Default)
}

func TestLoadTOMLUnknownFieldType(t *testing.T) {
	dir, err := ioutil.TempDir("", "catalog-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	bad := `
[[devices]]
id = "x"

  [[devices.fields]]
  name = "t"
  type = "decimal"
`
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(bad), 0644))

	_, err = LoadTOML(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown type")
}
