package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/stationbridge/internal/domain"
)

func TestParse(t *testing.T) {
	t.Run("json document resolves scalar and list targets", func(t *testing.T) {
		table, err := Parse([]byte(`{"temp": "tempf", "hum": ["humidity", "relativeHumidity"]}`))
		require.NoError(t, err)

		entries := table.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "temp", entries[0].Source)
		assert.False(t, entries[0].Target.IsMulti())
		assert.Equal(t, []string{"tempf"}, entries[0].Target.Names())
		assert.Equal(t, "hum", entries[1].Source)
		assert.True(t, entries[1].Target.IsMulti())
		assert.Equal(t, []string{"humidity", "relativeHumidity"}, entries[1].Target.Names())
	})

	t.Run("yaml document keeps document order", func(t *testing.T) {
		table, err := Parse([]byte("wind_speed_last: windspeedmph\nbar_sea_level: baromin\ndew_point: dewptf\n"))
		require.NoError(t, err)

		var sources []string
		for _, e := range table.Entries() {
			sources = append(sources, e.Source)
		}
		assert.Equal(t, []string{"wind_speed_last", "bar_sea_level", "dew_point"}, sources)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		cases := map[string]string{
			"empty":            "",
			"not a mapping":    `["temp"]`,
			"nested mapping":   `{"temp": {"to": "tempf"}}`,
			"empty name":       `{"temp": ""}`,
			"empty list":       `{"temp": []}`,
			"empty list entry": `{"temp": ["tempf", ""]}`,
			"duplicate source": "temp: tempf\ntemp: indoortempf\n",
			"empty mapping":    `{}`,
		}
		for name, doc := range cases {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, domain.ErrConfiguration, name)
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sensor_map.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"temp": "tempf"}`), 0o600))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRemap(t *testing.T) {
	table := MustNew(
		Entry{Source: "temp", Target: SingleTarget("tempf")},
		Entry{Source: "hum", Target: MultiTarget("humidity", "relativeHumidity")},
		Entry{Source: "pressure", Target: SingleTarget("baromin")},
	)

	t.Run("single and multi targets", func(t *testing.T) {
		got := table.Remap(domain.RawObservation{"temp": 72.0, "hum": 55.0, "pressure": nil})
		assert.Equal(t, domain.MappedObservation{
			"tempf":            72.0,
			"humidity":         55.0,
			"relativeHumidity": 55.0,
		}, got)
	})

	t.Run("unmapped fields are dropped", func(t *testing.T) {
		got := table.Remap(domain.RawObservation{"temp": 70.0, "solar_rad": 400.0})
		assert.Equal(t, domain.MappedObservation{"tempf": 70.0}, got)
	})

	t.Run("values pass through without coercion", func(t *testing.T) {
		got := table.Remap(domain.RawObservation{"temp": "72.1", "hum": true})
		assert.Equal(t, "72.1", got["tempf"])
		assert.Equal(t, true, got["humidity"])
	})

	t.Run("no expected fields yields empty observation", func(t *testing.T) {
		got := table.Remap(domain.RawObservation{"ts": 1700000000.0})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("later entry wins on shared destination", func(t *testing.T) {
		shared := MustNew(
			Entry{Source: "temp_out", Target: SingleTarget("tempf")},
			Entry{Source: "temp", Target: SingleTarget("tempf")},
		)
		got := shared.Remap(domain.RawObservation{"temp_out": 60.0, "temp": 61.0})
		assert.Equal(t, 61.0, got["tempf"])
	})
}

func TestTableIsImmutable(t *testing.T) {
	names := []string{"humidity", "relativeHumidity"}
	table := MustNew(Entry{Source: "hum", Target: MultiTarget(names...)})

	names[0] = "mutated"
	table.Entries()[0].Target.names[0] = "mutated too"

	got := table.Remap(domain.RawObservation{"hum": 40.0})
	assert.Equal(t, domain.MappedObservation{"humidity": 40.0, "relativeHumidity": 40.0}, got)
}

func TestNewRejectsZeroTarget(t *testing.T) {
	_, err := New(Entry{Source: "temp"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
