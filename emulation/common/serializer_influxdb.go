package common

import (
	"io"
)

type serializerInflux struct {
}

func NewSerializerInflux() *serializerInflux {
	return &serializerInflux{}
}

// SerializeEmission writes the emission in InfluxDB line protocol:
//
// <category>,org=o,site=s,unit=u,device=d <field>=<value>,... <timestamp>\n
//
// Integer field values carry Influx's 'i' suffix. Signal overrides, when
// present, are appended as regular envelope fields (rssi, snr).
func (s *serializerInflux) SerializeEmission(w io.Writer, e *Emission) (err error) {
	buf := scratchBufPool.Get().([]byte)
	buf = append(buf, e.Category...)

	buf = appendTag(buf, "org", e.Org)
	buf = appendTag(buf, "site", e.Site)
	buf = appendTag(buf, "unit", e.Unit)
	buf = appendTag(buf, "device", e.DeviceID)

	buf = append(buf, ' ')
	for i, k := range e.Fields.Keys() {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, k...)
		buf = append(buf, '=')

		v, _ := e.Fields.Get(k)
		buf = fastFormatAppend(v, buf)

		// Influx uses 'i' to indicate integers:
		switch v.(type) {
		case int, int64, uint64:
			buf = append(buf, 'i')
		}
	}

	buf = append(buf, ",fcnt="...)
	buf = fastFormatAppend(e.FrameCounter, buf)
	buf = append(buf, 'i')
	if e.Signal != nil {
		buf = append(buf, ",rssi="...)
		buf = fastFormatAppend(e.Signal.RSSI, buf)
		buf = append(buf, "i,snr="...)
		buf = fastFormatAppend(e.Signal.SNR, buf)
	}

	buf = append(buf, ' ')
	buf = fastFormatAppend(e.Timestamp.UTC().UnixNano(), buf)
	buf = append(buf, '\n')
	_, err = w.Write(buf)

	buf = buf[:0]
	scratchBufPool.Put(buf)
	return err
}

func appendTag(buf []byte, key, value string) []byte {
	if value == "" {
		return buf
	}
	buf = append(buf, ',')
	buf = append(buf, key...)
	buf = append(buf, '=')
	return append(buf, value...)
}
