package reconcile

import (
	"fmt"

	"github.com/rickgao/airq-etl/internal/location"
	"github.com/rickgao/airq-etl/internal/model"
)

// Translator maps a sensor id into the other network's identifier space.
type Translator interface {
	Translate(id string) (string, error)
}

var _ Translator = (*location.InterestSet)(nil)

type joinKey struct {
	at     int64
	sensor string
}

// Join inner-joins the normalized series on (timestamp, location). Each
// Source A sensor id is translated into the Source B space before matching.
// If several rows share a key, every combination is emitted; callers are
// expected to deduplicate beforehand. Output order is not meaningful.
func Join(a []model.ChannelReading, b []model.StationReading, tr Translator) ([]model.UnifiedRecord, error) {
	index := make(map[joinKey][]int, len(b))
	for i, row := range b {
		k := joinKey{at: model.CanonicalTime(row.Dia).UnixNano(), sensor: row.SensorID}
		index[k] = append(index[k], i)
	}

	var out []model.UnifiedRecord
	for _, left := range a {
		mapped, err := tr.Translate(left.SensorID)
		if err != nil {
			return nil, fmt.Errorf("translate log %d: %w", left.LogID, err)
		}

		k := joinKey{at: model.CanonicalTime(left.Dia).UnixNano(), sensor: mapped}
		for _, j := range index[k] {
			out = append(out, merge(left, b[j]))
		}
	}

	return out, nil
}

func merge(a model.ChannelReading, b model.StationReading) model.UnifiedRecord {
	return model.UnifiedRecord{
		LogID:           a.LogID,
		Dia:             model.CanonicalTime(a.Dia),
		PM25A:           a.PM25A,
		PM25B:           a.PM25B,
		PM25Corregido:   a.PM25Corregido,
		HumedadRelativa: a.HumedadRelativa,
		Temperatura:     a.Temperatura,
		Presion:         a.Presion,
		SensorIDA:       a.SensorID,
		PM25Promedio:    a.PM25Promedio,
		RegistrosID:     b.RegistrosID,
		PM25:            b.PM25,
		SensorIDB:       b.SensorID,
	}
}
