package common

import (
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Serializer writes emissions to an output stream in one backend format.
type Serializer interface {
	SerializeEmission(w io.Writer, e *Emission) error
}

var scratchBufPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 1024)
	},
}

// fastFormatAppend appends a field value to buf without going through fmt.
func fastFormatAppend(v interface{}, buf []byte) []byte {
	switch x := v.(type) {
	case int:
		return strconv.AppendInt(buf, int64(x), 10)
	case int64:
		return strconv.AppendInt(buf, x, 10)
	case uint64:
		return strconv.AppendUint(buf, x, 10)
	case float64:
		return strconv.AppendFloat(buf, x, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, x)
	case string:
		buf = append(buf, '"')
		buf = append(buf, x...)
		return append(buf, '"')
	default:
		panic(fmt.Sprintf("unknown field type for %#v", v))
	}
}
