package plan

import (
	"time"

	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/domain/resource"
)

// Status values. Status is free-form; these are the two values the
// rest of the system recognizes.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

// Plan is the top-level saved artifact: a named set of resource
// placements around a map center, owned by one identity and optionally
// shared with collaborators or made world-viewable.
type Plan struct {
	ID             string              `json:"id"`
	Name           string              `json:"planName"`
	Center         resource.Position   `json:"center"`
	Resources      []resource.Resource `json:"resources"`
	Status         string              `json:"status"`
	UserID         string              `json:"userId"`
	UserEmail      string              `json:"userEmail"`
	Collaborators  []string            `json:"collaborators"`
	IsPublic       bool                `json:"isPublic"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastModified   time.Time           `json:"lastModified"`
	LastModifiedBy string              `json:"lastModifiedBy,omitempty"`
}

// AccessRecord projects the plan onto the fields access decisions use.
func (p *Plan) AccessRecord() access.Record {
	return access.Record{
		UserID:        p.UserID,
		UserEmail:     p.UserEmail,
		Collaborators: p.Collaborators,
		IsPublic:      p.IsPublic,
	}
}

// ListEntry is a plan as returned from listings, flagged with the
// requester's relationship to it.
type ListEntry struct {
	Plan
	IsOwner bool `json:"isOwner"`
}

// Stats summarizes a user's saved plans.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}
