package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickgao/airq-etl/internal/model"
)

// Window bounds a snapshot: rows strictly after After, at most Limit per table.
type Window struct {
	After time.Time
	Limit int
}

// Snapshot is the raw input of one run.
type Snapshot struct {
	A []model.ChannelReading
	B []model.StationReading
}

// Source supplies raw snapshots of both networks.
type Source interface {
	Fetch(ctx context.Context, w Window) (Snapshot, error)
}

// Tables names the upstream tables.
type Tables struct {
	Schema string
	A      string
	B      string
}

// Column lists, in scan order.
var (
	columnsA = []string{"Log_id", "Dia", "PM25_A", "PM25_B", "PM25_Corregido", "Humedad_Relativa", "Temperatura", "Presion", "Sensor_id"}
	columnsB = []string{"Registros_id", "Dia", "PM10", "PM25", "O3", "Sensor_id"}
)

// scanFunc matches both pgx.Row.Scan and sql.Rows.Scan.
type scanFunc func(dest ...any) error

func scanChannel(scan scanFunc) (model.ChannelReading, error) {
	var (
		r   model.ChannelReading
		dia any
	)
	err := scan(&r.LogID, &dia, &r.PM25A, &r.PM25B, &r.PM25Corregido,
		&r.HumedadRelativa, &r.Temperatura, &r.Presion, &r.SensorID)
	if err != nil {
		return r, err
	}
	if r.Dia, err = model.TimestampValue(dia); err != nil {
		return r, fmt.Errorf("log %d: %w", r.LogID, err)
	}
	return r, nil
}

func scanStation(scan scanFunc) (model.StationReading, error) {
	var (
		r   model.StationReading
		dia any
	)
	err := scan(&r.RegistrosID, &dia, &r.PM10, &r.PM25, &r.O3, &r.SensorID)
	if err != nil {
		return r, err
	}
	if r.Dia, err = model.TimestampValue(dia); err != nil {
		return r, fmt.Errorf("registro %d: %w", r.RegistrosID, err)
	}
	return r, nil
}

// quoteIdent double-quotes an identifier for sqlite.
func quoteIdent(parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(p, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, ".")
}

func quoteColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
