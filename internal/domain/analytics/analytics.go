// Package analytics derives plan-level metrics and qualitative
// recommendations from a plan's placed resources. The JSON field names
// of Summary are a stable contract with the PDF/JSON export layer.
package analytics

import "github.com/twinvillage/planner/internal/domain/resource"

// Counts buckets resources by type for scoring. Only the seven
// trackable buckets are distinguished; the remaining nine resource
// types (fire stations, police, malls, restaurants, bus stops, gas
// stations, parking, power plants, recycling, towers) fall into Other.
// Widening the set would change infrastructureScore for existing
// consumers, so the narrow set is intentional.
type Counts struct {
	House    int `json:"house"`
	School   int `json:"school"`
	Water    int `json:"water"`
	Road     int `json:"road"`
	Hospital int `json:"hospital"`
	Park     int `json:"park"`
	Other    int `json:"other"`

	TotalResidents int `json:"totalResidents"`
	TotalStudents  int `json:"totalStudents"`
}

// Summary holds the plan-level analytics consumed by the export layer.
type Summary struct {
	Counts Counts `json:"counts"`

	TotalResidents      int     `json:"totalResidents"`
	TotalStudents       int     `json:"totalStudents"`
	AvgHouseholdSize    float64 `json:"avgHouseholdSize"`
	PopulationDensity   float64 `json:"populationDensity"`
	SchoolCoverageRatio float64 `json:"schoolCoverageRatio"`
	InfrastructureScore float64 `json:"infrastructureScore"`
}

// Count buckets the given resources and totals residents and students
// across house-type resources. These are plan-wide headcounts,
// independent of per-resource coverage.
func Count(resources []resource.Resource) Counts {
	var c Counts
	for _, res := range resources {
		switch res.Type {
		case resource.TypeHouse:
			c.House++
			c.TotalResidents += res.Residents
			c.TotalStudents += res.Students
		case resource.TypeSchool:
			c.School++
		case resource.TypeWater:
			c.Water++
		case resource.TypeRoad:
			c.Road++
		case resource.TypeHospital:
			c.Hospital++
		case resource.TypePark:
			c.Park++
		default:
			c.Other++
		}
	}
	return c
}

// Summarize computes plan-level metrics from the resource list.
//
// PopulationDensity is residents x 100, a fixed rough multiplier kept
// for output compatibility with the export consumer; it is not a true
// area-based density. Ratio denominators are floored to 1.
func Summarize(resources []resource.Resource) Summary {
	c := Count(resources)

	houses := c.House
	if houses == 0 {
		houses = 1
	}
	schools := c.School
	if schools == 0 {
		schools = 1
	}

	score := float64(c.School+c.Water+c.Hospital) * 2
	if score > 10 {
		score = 10
	}

	return Summary{
		Counts:              c,
		TotalResidents:      c.TotalResidents,
		TotalStudents:       c.TotalStudents,
		AvgHouseholdSize:    float64(c.TotalResidents) / float64(houses),
		PopulationDensity:   float64(c.TotalResidents) * 100,
		SchoolCoverageRatio: float64(c.TotalStudents) / float64(schools),
		InfrastructureScore: score,
	}
}
