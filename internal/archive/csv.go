package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rickgao/airq-etl/internal/model"
)

// EncodeCSV writes a header row followed by one row per record, in
// model.Columns order. Missing values are written as empty fields.
func EncodeCSV(w io.Writer, records []model.UnifiedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return err
	}

	row := make([]string, len(model.Columns))
	for _, r := range records {
		for i, v := range r.Values() {
			row[i] = formatField(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(model.TextLayout)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
