package domain

// RawObservation is one data record as reported by the station provider.
// Values are numeric, nil, or another JSON scalar (string/bool).
type RawObservation map[string]any

// MappedObservation is a RawObservation re-keyed onto the destination
// provider's field names. Null source fields never appear in it.
type MappedObservation map[string]any

// Envelope is the WeatherLink "current conditions" payload for one station.
type Envelope struct {
	StationID   int           `json:"station_id"`
	GeneratedAt int64         `json:"generated_at"`
	Sensors     []SensorGroup `json:"sensors"`
}

// SensorGroup is one sensor suite attached to the station.
type SensorGroup struct {
	LSID              int              `json:"lsid"`
	SensorType        int              `json:"sensor_type"`
	DataStructureType int              `json:"data_structure_type"`
	Data              []RawObservation `json:"data"`
}

// Numeric reports the float value of v when v holds a Go number.
func Numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
