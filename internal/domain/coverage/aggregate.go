package coverage

import (
	"github.com/twinvillage/planner/internal/domain/house"
	"github.com/twinvillage/planner/internal/domain/resource"
)

// Stat holds per-resource coverage counts. StudentsCovered is set only
// for school resources; the label is a presentation detail, not a key.
type Stat struct {
	Type             resource.Type `json:"type"`
	Label            string        `json:"label"`
	HousesCovered    int           `json:"housesCovered"`
	ResidentsCovered int           `json:"residentsCovered"`
	StudentsCovered  *int          `json:"studentsCovered,omitempty"`
	CoveredHouseIDs  []string      `json:"coveredHouseIds,omitempty"`
}

// AggregateStats groups resources by type, preserving encounter order,
// and computes coverage statistics for each instance against the given
// house list. Resources without a radius yield zero counts.
func AggregateStats(resources []resource.Resource, houses []house.House) []Stat {
	var order []resource.Type
	grouped := make(map[resource.Type][]resource.Resource)
	for _, res := range resources {
		if _, ok := grouped[res.Type]; !ok {
			order = append(order, res.Type)
		}
		grouped[res.Type] = append(grouped[res.Type], res)
	}

	var stats []Stat
	for _, typ := range order {
		for i, res := range grouped[typ] {
			covered := HousesCoveredBy(res, houses)

			residents := 0
			ids := make([]string, 0, len(covered))
			for _, h := range covered {
				residents += h.Residents
				ids = append(ids, h.HouseID)
			}

			stat := Stat{
				Type:             typ,
				Label:            resource.DefaultName(typ, i),
				HousesCovered:    len(covered),
				ResidentsCovered: residents,
				CoveredHouseIDs:  ids,
			}
			if typ == resource.TypeSchool {
				students := 0
				for _, h := range covered {
					students += h.Students
				}
				stat.StudentsCovered = &students
			}
			stats = append(stats, stat)
		}
	}

	return stats
}
