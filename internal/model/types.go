package model

import "time"

// -----------------------------------------------------------------------------
// Source Types
// -----------------------------------------------------------------------------

// ChannelReading is one row from the dual-channel network (Source A).
type ChannelReading struct {
	LogID           int64     // Source row id (Log_id)
	Dia             time.Time // Observation time
	PM25A           *float64  // Channel A reading (µg/m³)
	PM25B           *float64  // Channel B reading (µg/m³)
	PM25Corregido   *float64  // Corrected reading published by the network
	HumedadRelativa *float64  // Relative humidity (%)
	Temperatura     *float64  // Temperature
	Presion         *float64  // Pressure
	SensorID        string    // Source A sensor id (e.g., "P39497")

	// PM25Promedio is derived: (PM25A + PM25B) / 2, nil when either channel is nil.
	PM25Promedio *float64
}

// StationReading is one row from the reference-station network (Source B).
type StationReading struct {
	RegistrosID int64     // Source row id (Registros_id)
	Dia         time.Time // Observation time
	PM10        *float64  // Ignored downstream
	PM25        *float64  // Primary reading (µg/m³)
	O3          *float64  // Ignored downstream
	SensorID    string    // Source B sensor id (e.g., "ANL8")
}

// -----------------------------------------------------------------------------
// Output Types
// -----------------------------------------------------------------------------

// UnifiedRecord is one reconciled observation: a Source A row and a Source B
// row that share a timestamp and a location.
type UnifiedRecord struct {
	LogID           int64
	Dia             time.Time
	PM25A           *float64
	PM25B           *float64
	PM25Corregido   *float64
	HumedadRelativa *float64
	Temperatura     *float64
	Presion         *float64
	SensorIDA       string // Sensor_id_x
	PM25Promedio    *float64
	RegistrosID     int64
	PM25            *float64
	SensorIDB       string // Sensor_id_y
}

// Columns is the fixed, ordered column list of the reconciled table.
var Columns = []string{
	"Log_id",
	"Dia",
	"PM25_A",
	"PM25_B",
	"PM25_Corregido",
	"Humedad_Relativa",
	"Temperatura",
	"Presion",
	"Sensor_id_x",
	"PM25_Promedio",
	"Registros_id",
	"PM25",
	"Sensor_id_y",
}

// Values returns the record's fields in Columns order.
func (r UnifiedRecord) Values() []any {
	return []any{
		r.LogID,
		r.Dia,
		r.PM25A,
		r.PM25B,
		r.PM25Corregido,
		r.HumedadRelativa,
		r.Temperatura,
		r.Presion,
		r.SensorIDA,
		r.PM25Promedio,
		r.RegistrosID,
		r.PM25,
		r.SensorIDB,
	}
}

// Float returns a pointer to v. Handy for building readings in code and tests.
func Float(v float64) *float64 {
	return &v
}
