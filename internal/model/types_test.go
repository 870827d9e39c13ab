package model

import (
	"testing"
	"time"
)

func TestUnifiedRecordValues(t *testing.T) {
	dia := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	r := UnifiedRecord{
		LogID:        7,
		Dia:          dia,
		PM25A:        Float(10),
		PM25B:        Float(10.5),
		SensorIDA:    "P39497",
		PM25Promedio: Float(10.25),
		RegistrosID:  42,
		PM25:         Float(12),
		SensorIDB:    "ANL8",
	}

	values := r.Values()
	if len(values) != len(Columns) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), len(Columns))
	}
	if values[0] != int64(7) {
		t.Errorf("Log_id = %v, want 7", values[0])
	}
	if values[1] != dia {
		t.Errorf("Dia = %v, want %v", values[1], dia)
	}
	if got := values[8]; got != "P39497" {
		t.Errorf("Sensor_id_x = %v, want P39497", got)
	}
	if got := *(values[9].(*float64)); got != 10.25 {
		t.Errorf("PM25_Promedio = %v, want 10.25", got)
	}
	if got := values[12]; got != "ANL8" {
		t.Errorf("Sensor_id_y = %v, want ANL8", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2022, 8, 27, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "seconds", in: "2022-08-27 23:00:00", want: want},
		{name: "minutes", in: "2022-08-27 23:00", want: want},
		{name: "iso T", in: "2022-08-27T23:00:00", want: want},
		{name: "rfc3339 utc", in: "2022-08-27T23:00:00Z", want: want},
		{name: "rfc3339 offset", in: "2022-08-27T17:00:00-06:00", want: want},
		{name: "padded", in: "  2022-08-27 23:00:00 ", want: want},
		{name: "garbage", in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) unexpected error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseTimestamp(%q) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestTimestampValue(t *testing.T) {
	local := time.FixedZone("CST", -6*3600)
	tm := time.Date(2022, 1, 1, 6, 0, 0, 0, local)

	got, err := TimestampValue(tm)
	if err != nil {
		t.Fatalf("TimestampValue(time) unexpected error: %v", err)
	}
	if got != tm.UTC() {
		t.Errorf("TimestampValue(time) = %v, want %v", got, tm.UTC())
	}

	got, err = TimestampValue([]byte("2022-01-01 12:00"))
	if err != nil {
		t.Fatalf("TimestampValue([]byte) unexpected error: %v", err)
	}
	if !got.Equal(tm) {
		t.Errorf("TimestampValue([]byte) = %v, want %v", got, tm)
	}

	if _, err := TimestampValue(nil); err == nil {
		t.Error("TimestampValue(nil) expected error")
	}
	if _, err := TimestampValue(42); err == nil {
		t.Error("TimestampValue(int) expected error")
	}
}
