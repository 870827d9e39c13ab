package normalize

import (
	"math"
	"time"

	"github.com/rickgao/airq-etl/internal/location"
	"github.com/rickgao/airq-etl/internal/model"
)

// ChannelThreshold is the largest tolerated |PM25A - PM25B| for a Source A row.
const ChannelThreshold = 5.0

// Stage names, in execution order.
const (
	StageInput     = "input"
	StageLocation  = "location"
	StageNulls     = "nulls"
	StageDedup     = "dedup"
	StageValidity  = "validity"
	StageAgreement = "agreement"
)

// Count is the number of rows left after a stage.
type Count struct {
	Stage string
	Rows  int
}

// Stats records row counts after each stage of a series.
type Stats []Count

// Rows returns the count recorded for stage, or -1 if it did not run.
func (s Stats) Rows(stage string) int {
	for _, c := range s {
		if c.Stage == stage {
			return c.Rows
		}
	}
	return -1
}

// SourceA cleans the dual-channel series. The channel average is derived
// first, then rows go through location, null, duplicate, zero-minimum and
// channel-agreement filters in that order.
func SourceA(rows []model.ChannelReading, set *location.InterestSet) ([]model.ChannelReading, Stats) {
	stats := Stats{{Stage: StageInput, Rows: len(rows)}}
	record := func(stage string, out []model.ChannelReading) []model.ChannelReading {
		stats = append(stats, Count{Stage: stage, Rows: len(out)})
		return out
	}

	out := DeriveAverage(rows)
	out = record(StageLocation, FilterLocationA(out, set))
	out = record(StageNulls, DropNullA(out))
	out = record(StageDedup, DedupA(out))
	out = record(StageValidity, DropZeroMinA(out))
	out = record(StageAgreement, DropChannelDisagreement(out))
	return out, stats
}

// SourceB cleans the reference-station series: location, null, duplicate
// and non-positive filters in that order.
func SourceB(rows []model.StationReading, set *location.InterestSet) ([]model.StationReading, Stats) {
	stats := Stats{{Stage: StageInput, Rows: len(rows)}}
	record := func(stage string, out []model.StationReading) []model.StationReading {
		stats = append(stats, Count{Stage: stage, Rows: len(out)})
		return out
	}

	out := record(StageLocation, FilterLocationB(rows, set))
	out = record(StageNulls, DropNullB(out))
	out = record(StageDedup, DedupB(out))
	out = record(StageValidity, DropNonPositiveB(out))
	return out, stats
}

// -----------------------------------------------------------------------------
// Source A steps
// -----------------------------------------------------------------------------

// DeriveAverage returns copies of rows with PM25Promedio set to the mean of
// the two channels. The average is nil when either channel is nil.
func DeriveAverage(rows []model.ChannelReading) []model.ChannelReading {
	out := make([]model.ChannelReading, len(rows))
	for i, r := range rows {
		r.PM25Promedio = nil
		if r.PM25A != nil && r.PM25B != nil {
			r.PM25Promedio = model.Float((*r.PM25A + *r.PM25B) / 2)
		}
		out[i] = r
	}
	return out
}

// FilterLocationA keeps rows whose sensor is in the Source A interest set.
func FilterLocationA(rows []model.ChannelReading, set *location.InterestSet) []model.ChannelReading {
	return keep(rows, func(r model.ChannelReading) bool {
		return set.ContainsA(r.SensorID)
	})
}

// DropNullA drops rows missing either channel reading.
func DropNullA(rows []model.ChannelReading) []model.ChannelReading {
	return keep(rows, func(r model.ChannelReading) bool {
		return present(r.PM25A) && present(r.PM25B)
	})
}

// DedupA keeps the first row seen for each (timestamp, sensor) pair.
func DedupA(rows []model.ChannelReading) []model.ChannelReading {
	seen := make(map[readingKey]struct{}, len(rows))
	return keep(rows, func(r model.ChannelReading) bool {
		return firstSeen(seen, keyOf(r.Dia, r.SensorID))
	})
}

// DropZeroMinA drops rows whose smallest float field is exactly zero.
// A null float field leaves the minimum undefined and the row is kept.
func DropZeroMinA(rows []model.ChannelReading) []model.ChannelReading {
	return keep(rows, func(r model.ChannelReading) bool {
		lowest, ok := minFloat(
			r.PM25A, r.PM25B, r.PM25Corregido,
			r.HumedadRelativa, r.Temperatura, r.Presion,
			r.PM25Promedio,
		)
		return !ok || lowest != 0
	})
}

// DropChannelDisagreement drops rows whose channels differ by more than
// ChannelThreshold. Rows with a nil channel are kept.
func DropChannelDisagreement(rows []model.ChannelReading) []model.ChannelReading {
	return keep(rows, func(r model.ChannelReading) bool {
		if r.PM25A == nil || r.PM25B == nil {
			return true
		}
		return math.Abs(*r.PM25A-*r.PM25B) <= ChannelThreshold
	})
}

// -----------------------------------------------------------------------------
// Source B steps
// -----------------------------------------------------------------------------

// FilterLocationB keeps rows whose sensor is in the Source B interest set.
func FilterLocationB(rows []model.StationReading, set *location.InterestSet) []model.StationReading {
	return keep(rows, func(r model.StationReading) bool {
		return set.ContainsB(r.SensorID)
	})
}

// DropNullB drops rows missing the PM25 reading.
func DropNullB(rows []model.StationReading) []model.StationReading {
	return keep(rows, func(r model.StationReading) bool {
		return present(r.PM25)
	})
}

// DedupB keeps the first row seen for each (timestamp, sensor) pair.
func DedupB(rows []model.StationReading) []model.StationReading {
	seen := make(map[readingKey]struct{}, len(rows))
	return keep(rows, func(r model.StationReading) bool {
		return firstSeen(seen, keyOf(r.Dia, r.SensorID))
	})
}

// DropNonPositiveB drops rows with PM25 <= 0.
func DropNonPositiveB(rows []model.StationReading) []model.StationReading {
	return keep(rows, func(r model.StationReading) bool {
		return r.PM25 != nil && *r.PM25 > 0
	})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// readingKey identifies an observation: a canonical instant and a sensor.
type readingKey struct {
	at     int64
	sensor string
}

func keyOf(t time.Time, sensor string) readingKey {
	return readingKey{at: model.CanonicalTime(t).UnixNano(), sensor: sensor}
}

func firstSeen(seen map[readingKey]struct{}, k readingKey) bool {
	if _, ok := seen[k]; ok {
		return false
	}
	seen[k] = struct{}{}
	return true
}

// keep returns a new slice holding the rows for which pred is true.
func keep[T any](rows []T, pred func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

// minFloat returns the smallest value, or false if any value is missing.
func minFloat(values ...*float64) (float64, bool) {
	lowest := math.Inf(1)
	for _, v := range values {
		if !present(v) {
			return 0, false
		}
		lowest = math.Min(lowest, *v)
	}
	return lowest, true
}
