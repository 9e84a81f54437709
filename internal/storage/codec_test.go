package storage

import (
	"testing"

	"github.com/pakalnivut/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A table as written by the web client into local storage.
const legacyTable = `[{"navigatorNum":"1","number":"3","name":"Avi","distance":5.5,"spots":2,"extraTime":10,"delivering":"09:15","arrival":"11:37","timeGap":"2:22"}]`

func TestJSONCodec_ReadsLegacyTables(t *testing.T) {
	entries, err := JSONCodec{}.Decode([]byte(legacyTable))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, models.Navigator1, e.Navigator)
	assert.Equal(t, "3", e.SquadNumber)
	assert.Equal(t, "Avi", e.SquadName)
	assert.Equal(t, 5.5, e.DistanceKm)
	assert.Equal(t, 2, e.Spots)
	assert.Equal(t, 10, e.ExtraMinutes)
	assert.Equal(t, "09:15", e.DispatchTime)
	assert.Equal(t, "11:37", e.ArrivalTime)
	assert.Empty(t, e.ID)
}

func TestJSONCodec_WritesLegacyShape(t *testing.T) {
	entries, err := JSONCodec{}.Decode([]byte(legacyTable))
	require.NoError(t, err)

	out, err := JSONCodec{}.Encode(entries)
	require.NoError(t, err)
	assert.JSONEq(t, legacyTable, string(out))
}

func TestJSONCodec_NumericNavigator(t *testing.T) {
	entries, err := JSONCodec{}.Decode([]byte(`[{"navigatorNum":2,"number":"1","name":"x","distance":1,"spots":0,"extraTime":0,"delivering":"10:00","arrival":"10:24"}]`))
	require.NoError(t, err)
	assert.Equal(t, models.Navigator2, entries[0].Navigator)
}

func TestCodecs_EmptyTable(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encode(nil)
			require.NoError(t, err)
			got, err := c.Decode(data)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestMsgpackCodec_PreservesEntries(t *testing.T) {
	in := []models.DispatchEntry{
		{ID: "a", Navigator: models.Navigator2, SquadNumber: "7", SquadName: "Dana", DistanceKm: 3.2, Spots: 1, DispatchTime: "22:10", ArrivalTime: "23:27"},
		{Navigator: models.Navigator2, SquadNumber: "8", SquadName: "Eli", DistanceKm: 4, ExtraMinutes: 5, DispatchTime: "22:12", ArrivalTime: "23:53"},
	}
	data, err := MsgpackCodec{}.Encode(in)
	require.NoError(t, err)

	out, err := MsgpackCodec{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCodecs_RejectGarbage(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`{not json`))
	assert.Error(t, err)
	_, err = MsgpackCodec{}.Decode([]byte{0xc1})
	assert.Error(t, err)
}

func TestCodecByName(t *testing.T) {
	c, err := CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = CodecByName("msgpack")
	require.NoError(t, err)
	assert.Equal(t, ".msgpack", c.Ext())

	_, err = CodecByName("xml")
	assert.Error(t, err)
}
