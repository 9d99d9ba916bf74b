package common

import (
	"hash/fnv"
	"strconv"
)

// ReproContext identifies one emission for seeding purposes. Two contexts
// that differ in any component produce unrelated seeds; the Sequence member
// is advanced once per emission so consecutive payloads differ.
type ReproContext struct {
	Org      string
	Site     string
	Unit     string
	DeviceID string
	Sequence uint64
}

// SeedFor hashes the context together with a field name into a non-zero
// 64-bit seed. Components are NUL-separated so adjacent fields cannot run
// together and collide. The per-field seed means the draw for one field is
// independent of how many other fields the profile declares.
func (c ReproContext) SeedFor(field string) int64 {
	h := fnv.New64a()
	for _, part := range []string{c.Org, c.Site, c.Unit, c.DeviceID} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(strconv.AppendUint(nil, c.Sequence, 10))
	h.Write([]byte{0})
	h.Write([]byte(field))
	sum := h.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}
