package catalog

import (
	"math"

	"github.com/coldchainio/fleet-emulator/emulation/common"
)

// BuiltinColdChain returns the stock cold-chain device models, used when no
// catalog file is supplied.
func BuiltinColdChain() *Catalog {
	freezer := &Device{
		ID:       "cc-freezer",
		Category: "freezer",
		Port:     12,
		Profile: common.NewValueProfile(
			common.FieldSpec{Name: "temperature", Kind: common.FieldFloat, Min: -30, Max: -14, Precision: 1},
			common.FieldSpec{Name: "evaporator_temperature", Kind: common.FieldFloat, Min: -35, Max: -10, Precision: 1},
			common.FieldSpec{Name: "door_open", Kind: common.FieldBool},
			common.FieldSpec{Name: "battery", Kind: common.FieldInt, Min: 0, Max: 100},
			common.FieldSpec{Name: "defrost_cycles", Kind: common.FieldInt, Min: 0, Max: math.MaxInt32, Increment: true},
			common.FieldSpec{Name: "mode", Kind: common.FieldEnum, Values: []string{"auto", "eco", "defrost"}},
			common.FieldSpec{Name: "firmware", Kind: common.FieldString, Static: true, Default: "fw-2.4.1"},
		),
	}

	fridge := &Device{
		ID:       "cc-fridge",
		Category: "fridge",
		Port:     12,
		Profile: common.NewValueProfile(
			common.FieldSpec{Name: "temperature", Kind: common.FieldFloat, Min: 0, Max: 8, Precision: 1},
			common.FieldSpec{Name: "humidity", Kind: common.FieldFloat, Min: 40, Max: 90, Precision: 1},
			common.FieldSpec{Name: "door_open", Kind: common.FieldBool},
			common.FieldSpec{Name: "battery", Kind: common.FieldInt, Min: 0, Max: 100},
			common.FieldSpec{Name: "compressor", Kind: common.FieldEnum, Values: []string{"off", "on"}},
			common.FieldSpec{Name: "firmware", Kind: common.FieldString, Static: true, Default: "fw-2.4.1"},
		),
	}

	ambient := &Device{
		ID:       "cc-ambient",
		Category: "ambient",
		Port:     14,
		Profile: common.NewValueProfile(
			common.FieldSpec{Name: "temperature", Kind: common.FieldFloat, Min: -5, Max: 35, Precision: 1},
			common.FieldSpec{Name: "humidity", Kind: common.FieldFloat, Min: 15, Max: 95, Precision: 1},
			common.FieldSpec{Name: "pressure", Kind: common.FieldFloat, Min: 950, Max: 1050, Precision: 1},
			common.FieldSpec{Name: "battery", Kind: common.FieldInt, Min: 0, Max: 100},
		),
	}

	doorContact := &Device{
		ID:       "cc-door-contact",
		Category: "door",
		Port:     16,
		Profile: common.NewValueProfile(
			common.FieldSpec{Name: "door_open", Kind: common.FieldBool},
			common.FieldSpec{Name: "open_count", Kind: common.FieldInt, Min: 0, Max: math.MaxInt32, Increment: true},
			common.FieldSpec{Name: "battery", Kind: common.FieldInt, Min: 0, Max: 100},
		),
	}

	c, err := New(freezer, fridge, ambient, doorContact)
	if err != nil {
		// The builtin set is compile-time data; failing to assemble it is a bug.
		panic(err)
	}
	return c
}
