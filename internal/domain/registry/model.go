package registry

import (
	"time"

	"github.com/twinvillage/planner/internal/domain/access"
)

// Registry is a named, owned collection of raw house-like records,
// uploaded as a JSON array. Records keep their original field names;
// normalization happens at read time through the house package.
type Registry struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	UserID        string           `json:"userId"`
	UserEmail     string           `json:"userEmail"`
	Collaborators []string         `json:"collaborators"`
	Data          []map[string]any `json:"data"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastModified  time.Time        `json:"lastModified"`
}

// AccessRecord projects the registry onto the fields access decisions
// use. Registries are never public; collaborator access is read-only.
func (r *Registry) AccessRecord() access.Record {
	return access.Record{
		UserID:        r.UserID,
		UserEmail:     r.UserEmail,
		Collaborators: r.Collaborators,
	}
}

// ListEntry is a registry as returned from listings, flagged with the
// requester's relationship to it.
type ListEntry struct {
	Registry
	IsOwner bool `json:"isOwner"`
}
