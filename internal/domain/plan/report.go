package plan

import (
	"context"
	"fmt"

	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/domain/analytics"
	"github.com/twinvillage/planner/internal/domain/coverage"
)

// Report is the data contract consumed by the PDF/JSON export layer:
// the plan, per-resource coverage statistics against the merged house
// list, plan-level analytics, and recommendations.
type Report struct {
	Plan            Plan              `json:"plan"`
	Stats           []coverage.Stat   `json:"byResource"`
	Analytics       analytics.Summary `json:"analytics"`
	Recommendations []string          `json:"recommendations"`
}

// Report assembles the export payload for a plan, enforcing view
// access. House data is merged from the public registry and the
// requester's private registries before coverage is computed.
func (s *Service) Report(ctx context.Context, id access.Identity, planID string) (*Report, error) {
	p, err := s.getChecked(ctx, id, planID)
	if err != nil {
		return nil, err
	}

	houses, err := s.houses.MergedHouses(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("merging houses: %w", err)
	}

	summary := analytics.Summarize(p.Resources)
	return &Report{
		Plan:            *p,
		Stats:           coverage.AggregateStats(p.Resources, houses),
		Analytics:       summary,
		Recommendations: analytics.Recommendations(summary),
	}, nil
}
