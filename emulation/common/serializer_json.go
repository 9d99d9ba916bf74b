package common

import (
	"encoding/json"
	"io"
	"time"
)

type serializerJson struct {
}

func NewSerializerJson() *serializerJson {
	return &serializerJson{}
}

type jsonEmission struct {
	Device    string                 `json:"device"`
	Category  string                 `json:"category"`
	Org       string                 `json:"org,omitempty"`
	Site      string                 `json:"site,omitempty"`
	Unit      string                 `json:"unit,omitempty"`
	Port      int                    `json:"port"`
	Fcnt      uint64                 `json:"fcnt"`
	Timestamp string                 `json:"timestamp"`
	Fields    map[string]interface{} `json:"fields"`
	Signal    *jsonSignal            `json:"signal,omitempty"`
}

type jsonSignal struct {
	RSSI int     `json:"rssi"`
	SNR  float64 `json:"snr"`
}

// SerializeEmission writes the emission as one JSON object per line.
func (s *serializerJson) SerializeEmission(w io.Writer, e *Emission) error {
	je := jsonEmission{
		Device:    e.DeviceID,
		Category:  e.Category,
		Org:       e.Org,
		Site:      e.Site,
		Unit:      e.Unit,
		Port:      e.Port,
		Fcnt:      e.FrameCounter,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Fields:    e.Fields.Map(),
	}
	if e.Signal != nil {
		je.Signal = &jsonSignal{RSSI: e.Signal.RSSI, SNR: e.Signal.SNR}
	}
	b, err := json.Marshal(&je)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
