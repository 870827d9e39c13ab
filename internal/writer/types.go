package writer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickgao/airq-etl/internal/model"
)

// Sink persists the reconciled table.
type Sink interface {
	// LatestTimestamp returns the newest Dia in the table. ok is false when
	// the table is missing or empty.
	LatestTimestamp(ctx context.Context) (latest time.Time, ok bool, err error)

	// Replace overwrites the whole table with records and returns the number
	// of rows written. On error the previous table is left in place.
	Replace(ctx context.Context, records []model.UnifiedRecord) (int64, error)
}

// WriterConfig names the output table.
type WriterConfig struct {
	Schema string // ignored by sqlite
	Table  string
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Table: "transformed",
	}
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Replaces int64
	Rows     int64
	Errors   int64
}

// columnDef pairs an output column with its type in each backend.
type columnDef struct {
	name     string
	postgres string
	sqlite   string
}

// columnDefs follows model.Columns order.
var columnDefs = []columnDef{
	{"Log_id", "BIGINT", "INTEGER"},
	{"Dia", "TIMESTAMPTZ NOT NULL", "TEXT NOT NULL"},
	{"PM25_A", "DOUBLE PRECISION", "REAL"},
	{"PM25_B", "DOUBLE PRECISION", "REAL"},
	{"PM25_Corregido", "DOUBLE PRECISION", "REAL"},
	{"Humedad_Relativa", "DOUBLE PRECISION", "REAL"},
	{"Temperatura", "DOUBLE PRECISION", "REAL"},
	{"Presion", "DOUBLE PRECISION", "REAL"},
	{"Sensor_id_x", "TEXT", "TEXT"},
	{"PM25_Promedio", "DOUBLE PRECISION", "REAL"},
	{"Registros_id", "BIGINT", "INTEGER"},
	{"PM25", "DOUBLE PRECISION", "REAL"},
	{"Sensor_id_y", "TEXT", "TEXT"},
}

// createTableSQL renders the CREATE TABLE statement for ident using the
// column types picked by typeOf.
func createTableSQL(ident string, typeOf func(columnDef) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", ident)
	for i, c := range columnDefs {
		fmt.Fprintf(&b, "\t%q %s", c.name, typeOf(c))
		if i < len(columnDefs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

func init() {
	if len(columnDefs) != len(model.Columns) {
		panic("writer: column definitions out of sync with model.Columns")
	}
	for i, c := range columnDefs {
		if c.name != model.Columns[i] {
			panic("writer: column " + c.name + " out of order")
		}
	}
}
