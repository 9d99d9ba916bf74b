// Package generator turns a device's value profile plus a reproducibility
// context into concrete field values. Every draw is seeded per field from
// the context, so repeated calls with the same context and an identically
// initialized state produce identical payloads.
package generator

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/coldchainio/fleet-emulator/emulation/common"
	"github.com/coldchainio/fleet-emulator/simstate"
)

// Mode selects between plain generation and alarm-override generation.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAlarm
)

// DefaultDriftMaxStep bounds the change between consecutive float values
// when drift smoothing is on and no step was configured.
const DefaultDriftMaxStep = 2.0

// Options tunes one generation call.
type Options struct {
	// EnableDrift clamps the change of a float field against its previous
	// emitted value to at most DriftMaxStep in either direction.
	EnableDrift  bool
	DriftMaxStep float64

	// AlarmOverrides overwrites matching generated fields unconditionally
	// when the mode is ModeAlarm. No clamping happens here; the clamped
	// path is the scenario composer.
	AlarmOverrides map[string]interface{}
}

// Generate produces one payload for the given profile in declared field
// order. It mutates state exactly once per call: frame counter, emission
// sequence, increment counters, last values and timestamps. The state is
// borrowed for the duration of the call only.
func Generate(p *common.ValueProfile, state *simstate.DeviceState, ctx common.ReproContext, mode Mode, opts Options) (*common.Fields, error) {
	if p == nil {
		return nil, errors.New("nil value profile")
	}
	if state == nil {
		return nil, errors.New("nil device state")
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid value profile")
	}

	maxStep := opts.DriftMaxStep
	if maxStep <= 0 {
		maxStep = DefaultDriftMaxStep
	}

	fields := common.NewFields(len(p.Fields))
	for i := range p.Fields {
		spec := &p.Fields[i]
		fields.Set(spec.Name, generateField(spec, state, ctx, opts.EnableDrift, maxStep))
	}

	if mode == ModeAlarm {
		for name, v := range opts.AlarmOverrides {
			if fields.Has(name) {
				fields.Set(name, v)
			}
		}
	}

	now := time.Now().UTC()
	state.FrameCounter++
	state.EmissionSequence++
	state.LastEmittedAt = now
	state.UpdatedAt = now
	return fields, nil
}

func generateField(spec *common.FieldSpec, state *simstate.DeviceState, ctx common.ReproContext, drift bool, maxStep float64) interface{} {
	// Static wins over every other flag.
	if spec.Static {
		return staticValue(spec)
	}
	if spec.Increment && spec.Kind.Numeric() {
		next := state.IncrementCounters[spec.Name] + 1
		state.IncrementCounters[spec.Name] = next
		return next
	}

	g := common.NewRand(ctx.SeedFor(spec.Name))
	switch spec.Kind {
	case common.FieldFloat:
		prec := spec.EffectivePrecision()
		v := g.NextFloat(spec.Min, spec.Max, prec)
		if drift {
			if prev, ok := lastFloat(state, spec.Name); ok {
				delta := common.Clamp(v-prev, -maxStep, maxStep)
				v = common.RoundTo(common.Clamp(prev+delta, spec.Min, spec.Max), prec)
			}
		}
		state.LastValues[spec.Name] = v
		return v
	case common.FieldInt:
		// Drift does not apply to integers.
		v := g.NextInt(int64(spec.Min), int64(spec.Max))
		state.LastValues[spec.Name] = v
		return v
	case common.FieldBool:
		v := g.NextBool()
		state.LastValues[spec.Name] = v
		return v
	case common.FieldEnum:
		v := g.NextChoice(spec.Values)
		state.LastValues[spec.Name] = v
		return v
	case common.FieldString:
		// No randomness for strings, and no drift bookkeeping.
		if s, ok := spec.Default.(string); ok {
			return s
		}
		return ""
	}
	panic(fmt.Sprintf("unhandled field kind %v", spec.Kind))
}

func staticValue(spec *common.FieldSpec) interface{} {
	if spec.Default != nil {
		return spec.Default
	}
	// A static field without a default yields its kind's zero value.
	switch spec.Kind {
	case common.FieldFloat:
		return 0.0
	case common.FieldInt:
		return int64(0)
	case common.FieldBool:
		return false
	case common.FieldEnum:
		if len(spec.Values) > 0 {
			return spec.Values[0]
		}
		return ""
	default:
		return ""
	}
}

// lastFloat reads the previous emitted value for drift smoothing. States
// reloaded from JSON carry numbers as float64, which is the only type drift
// applies to anyway.
func lastFloat(state *simstate.DeviceState, name string) (float64, bool) {
	v, ok := state.LastValues[name].(float64)
	return v, ok
}
