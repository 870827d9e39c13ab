package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/airq-etl/internal/location"
	"github.com/rickgao/airq-etl/internal/model"
)

var t0 = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func interest(t *testing.T, names ...string) *location.InterestSet {
	t.Helper()
	set, err := location.Default().Resolve(location.NamedSubset(names...))
	require.NoError(t, err)
	return set
}

func TestJoin_SingleMatch(t *testing.T) {
	a := []model.ChannelReading{{
		LogID:        1,
		Dia:          t0,
		PM25A:        model.Float(10),
		PM25B:        model.Float(10.5),
		PM25Promedio: model.Float(10.25),
		SensorID:     "P39497",
	}}
	b := []model.StationReading{{
		RegistrosID: 9,
		Dia:         t0,
		PM25:        model.Float(12),
		SensorID:    "ANL8",
	}}

	out, err := Join(a, b, interest(t))
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, int64(1), got.LogID)
	assert.Equal(t, int64(9), got.RegistrosID)
	assert.Equal(t, "P39497", got.SensorIDA)
	assert.Equal(t, "ANL8", got.SensorIDB)
	assert.Equal(t, 10.25, *got.PM25Promedio)
	assert.Equal(t, 12.0, *got.PM25)
	assert.True(t, got.Dia.Equal(t0))
}

func TestJoin_MatchesAcrossZones(t *testing.T) {
	cst := time.FixedZone("CST", -6*3600)
	a := []model.ChannelReading{{LogID: 1, Dia: t0.In(cst), SensorID: "P39497"}}
	b := []model.StationReading{{RegistrosID: 2, Dia: t0, SensorID: "ANL8"}}

	out, err := Join(a, b, interest(t))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, time.UTC, out[0].Dia.Location())
}

func TestJoin_RequiresBothKeys(t *testing.T) {
	a := []model.ChannelReading{
		// ANL8 at t0: matches.
		{LogID: 1, Dia: t0, SensorID: "P39497"},
		// No B row at this time.
		{LogID: 2, Dia: t0.Add(time.Hour), SensorID: "P39497"},
		// ANL4 missing in B.
		{LogID: 3, Dia: t0, SensorID: "P39355"},
	}
	b := []model.StationReading{
		{RegistrosID: 10, Dia: t0, SensorID: "ANL8"},
		// No A row for this location.
		{RegistrosID: 11, Dia: t0, SensorID: "ANL3"},
		{RegistrosID: 12, Dia: t0.Add(2 * time.Hour), SensorID: "ANL8"},
	}

	out, err := Join(a, b, interest(t))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].LogID)
	assert.Equal(t, int64(10), out[0].RegistrosID)
	assert.LessOrEqual(t, len(out), min(len(a), len(b)))
}

func TestJoin_IdentifierEqualityIsNotEnough(t *testing.T) {
	// Raw ids never match across networks; only translated ids do.
	a := []model.ChannelReading{{LogID: 1, Dia: t0, SensorID: "P39497"}}
	b := []model.StationReading{{RegistrosID: 2, Dia: t0, SensorID: "ANL4"}}

	out, err := Join(a, b, interest(t))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJoin_DuplicateKeysEmitAllCombinations(t *testing.T) {
	a := []model.ChannelReading{
		{LogID: 1, Dia: t0, SensorID: "P39497"},
		{LogID: 2, Dia: t0, SensorID: "P39497"},
	}
	b := []model.StationReading{
		{RegistrosID: 10, Dia: t0, SensorID: "ANL8"},
		{RegistrosID: 11, Dia: t0, SensorID: "ANL8"},
	}

	out, err := Join(a, b, interest(t))
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestJoin_UnmappedSensor(t *testing.T) {
	a := []model.ChannelReading{{LogID: 5, Dia: t0, SensorID: "P39497"}}

	_, err := Join(a, nil, interest(t, "Juarez"))
	require.ErrorIs(t, err, location.ErrUnmappedSensorIdentifier)
	assert.Contains(t, err.Error(), "log 5")
}

func TestJoin_Empty(t *testing.T) {
	out, err := Join(nil, nil, interest(t))
	require.NoError(t, err)
	assert.Empty(t, out)
}
