package resource

import "fmt"

// Type identifies the kind of a placed facility. The set is closed and
// shared with the map UI for icon and color lookup.
type Type string

const (
	TypeSchool      Type = "school"
	TypeWater       Type = "water"
	TypeHouse       Type = "house"
	TypeRoad        Type = "road"
	TypeHospital    Type = "hospital"
	TypeFireStation Type = "fireStation"
	TypePolice      Type = "police"
	TypePark        Type = "park"
	TypeMall        Type = "mall"
	TypeRestaurant  Type = "restaurant"
	TypeBusStop     Type = "busStop"
	TypeGasStation  Type = "gasStation"
	TypeParking     Type = "parking"
	TypePowerPlant  Type = "powerPlant"
	TypeRecycling   Type = "recycling"
	TypeTower       Type = "tower"
)

// Types lists every recognized resource type.
var Types = []Type{
	TypeSchool, TypeWater, TypeHouse, TypeRoad,
	TypeHospital, TypeFireStation, TypePolice,
	TypePark, TypeMall, TypeRestaurant,
	TypeBusStop, TypeGasStation, TypeParking,
	TypePowerPlant, TypeRecycling, TypeTower,
}

// Position is a WGS84 coordinate pair in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Resource is a facility or dwelling placed on the map. Radius is the
// service coverage radius in meters and is only meaningful for
// coverage-relevant types. Residents and Students are populated for
// house-type resources only.
type Resource struct {
	Type      Type      `json:"type"`
	Name      string    `json:"name,omitempty"`
	Position  *Position `json:"position,omitempty"`
	Radius    float64   `json:"radius,omitempty"`
	Residents int       `json:"residents,omitempty"`
	Students  int       `json:"students,omitempty"`
}

var displayNames = map[Type]string{
	TypeSchool:      "School",
	TypeWater:       "Tank",
	TypeHouse:       "House",
	TypeRoad:        "Road",
	TypeHospital:    "Hospital",
	TypeFireStation: "Fire Station",
	TypePolice:      "Police Station",
	TypePark:        "Park",
	TypeMall:        "Mall",
	TypeRestaurant:  "Restaurant",
	TypeBusStop:     "Bus Stop",
	TypeGasStation:  "Gas Station",
	TypeParking:     "Parking",
	TypePowerPlant:  "Power Plant",
	TypeRecycling:   "Recycling Center",
	TypeTower:       "Tower",
}

// Default service radii in meters. Houses and roads have no service
// coverage of their own.
var defaultRadii = map[Type]float64{
	TypeSchool:      800,
	TypeWater:       500,
	TypeHospital:    1200,
	TypeFireStation: 1000,
	TypePolice:      1500,
	TypePark:        600,
	TypeMall:        400,
	TypeBusStop:     300,
	TypeRestaurant:  200,
	TypeGasStation:  250,
	TypeParking:     150,
	TypePowerPlant:  2000,
	TypeRecycling:   500,
	TypeTower:       3000,
}

// Valid reports whether t is one of the recognized types.
func (t Type) Valid() bool {
	_, ok := displayNames[t]
	return ok
}

// DisplayName returns the human-readable label for a type, falling
// back to the raw type string for unrecognized values.
func DisplayName(t Type) string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// DefaultRadius returns the default service radius in meters, or 0 for
// types without service coverage.
func DefaultRadius(t Type) float64 {
	return defaultRadii[t]
}

// DefaultName builds the default display label for the idx-th resource
// of a type, e.g. "School 1".
func DefaultName(t Type, idx int) string {
	return fmt.Sprintf("%s %d", DisplayName(t), idx+1)
}
