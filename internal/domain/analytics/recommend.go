package analytics

// Recommendation texts. Fixed strings; the export layer prints them
// verbatim.
const (
	recHousingDensity = "Consider housing density regulations as average household size is high"
	recMoreSchools    = "Additional schools may be needed to serve the student population"
	recInfrastructure = "Infrastructure development needed - focus on essential services"
	recHealthcare     = "Large population area - ensure adequate healthcare and emergency services"
	recWellBalanced   = "Plan appears well-balanced with good resource distribution"
)

// Recommendations evaluates the fixed rule set against a summary in
// order. Rules are independent and several may fire together; the
// well-balanced fallback fires only when no other rule does.
func Recommendations(s Summary) []string {
	var recs []string

	if s.AvgHouseholdSize > 6 {
		recs = append(recs, recHousingDensity)
	}
	if s.SchoolCoverageRatio > 100 {
		recs = append(recs, recMoreSchools)
	}
	if s.InfrastructureScore < 5 {
		recs = append(recs, recInfrastructure)
	}
	if s.TotalResidents > 1000 {
		recs = append(recs, recHealthcare)
	}

	if len(recs) == 0 {
		recs = append(recs, recWellBalanced)
	}

	return recs
}
