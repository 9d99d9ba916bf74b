package scenario

import (
	"math"
	"sort"

	"github.com/coldchainio/fleet-emulator/emulation/common"
)

// Compose layers base overrides (a device's canonical alarm example) and
// scenario overrides (highest priority) over freshly generated fields, then
// re-clamps every numeric profile field so no override can violate the
// declared bounds. Non-numeric overrides pass through untouched: scenario
// definitions are curated fixtures, not arbitrary input. Override keys the
// generator did not produce are appended in sorted order, keeping serialized
// output stable across runs.
func Compose(p *common.ValueProfile, base, overrides map[string]interface{}, generated *common.Fields) *common.Fields {
	out := common.NewFields(generated.Len())
	for _, k := range generated.Keys() {
		v, _ := generated.Get(k)
		out.Set(k, v)
	}
	for _, k := range sortedKeys(base) {
		out.Set(k, base[k])
	}
	for _, k := range sortedKeys(overrides) {
		out.Set(k, overrides[k])
	}

	for _, k := range out.Keys() {
		spec, ok := p.Field(k)
		if !ok || !spec.Kind.Numeric() {
			continue
		}
		v, _ := out.Get(k)
		out.Set(k, clampNumeric(spec, v))
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clampNumeric(spec *common.FieldSpec, v interface{}) interface{} {
	f, ok := toFloat(v)
	if !ok {
		return v
	}
	f = common.Clamp(f, spec.Min, spec.Max)
	if spec.Kind == common.FieldInt {
		return int64(math.Round(f))
	}
	return common.RoundTo(f, spec.EffectivePrecision())
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
