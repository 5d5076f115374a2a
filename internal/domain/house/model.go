package house

// House is a census-like population point. Records arrive from the
// shared public registry and from per-user private registries, with
// inconsistent field naming between sources; FromRaw is the single
// place where those variants are reconciled.
type House struct {
	HouseID   string  `json:"houseId,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"long"`
	Residents int     `json:"residents"`
	Students  int     `json:"students"`
}

// FromRaw coerces a raw registry record into a House. Legacy records
// use lat/long, newer imports use latitude/longitude; lat/long wins
// when both are present. Returns false when no coordinate pair can be
// resolved.
func FromRaw(raw map[string]any) (House, bool) {
	h := House{
		HouseID:   stringField(raw, "houseId"),
		Residents: intField(raw, "residents"),
		Students:  intField(raw, "students"),
	}

	lat, latOK := floatField(raw, "lat")
	if !latOK {
		lat, latOK = floatField(raw, "latitude")
	}
	lng, lngOK := floatField(raw, "long")
	if !lngOK {
		lng, lngOK = floatField(raw, "longitude")
	}
	if !latOK || !lngOK {
		return House{}, false
	}

	h.Lat = lat
	h.Lng = lng
	return h, true
}

// FromRawAll normalizes a slice of raw records, dropping those without
// resolvable coordinates.
func FromRawAll(raws []map[string]any) []House {
	houses := make([]House, 0, len(raws))
	for _, raw := range raws {
		if h, ok := FromRaw(raw); ok {
			houses = append(houses, h)
		}
	}
	return houses
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func floatField(raw map[string]any, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func intField(raw map[string]any, key string) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
