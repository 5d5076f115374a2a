// Package access classifies what a requester may do with a shared
// record. It is a pure predicate layer: no I/O, no errors; missing or
// malformed fields degrade to denied.
package access

// Record carries the ownership and sharing fields of a plan or
// registry, the only inputs access decisions depend on.
type Record struct {
	UserID        string
	UserEmail     string
	Collaborators []string
	IsPublic      bool
}

// Identity is the authenticated requester, or the zero value for
// anonymous access.
type Identity struct {
	ID    string
	Email string
}

// Anonymous reports whether the identity carries no credentials.
func (id Identity) Anonymous() bool {
	return id.ID == "" && id.Email == ""
}

// Role describes the resolved relationship between a requester and a
// record. Collaborators and owners may edit; public visibility grants
// view access only.
type Role struct {
	IsOwner  bool `json:"isOwner"`
	IsShared bool `json:"isShared"`
	IsPublic bool `json:"isPublic"`
	CanEdit  bool `json:"canEdit"`
	CanView  bool `json:"canView"`
}

// CanAccess reports whether the requester may view the record.
// Decision order: public records are open to anyone, anonymous
// requesters are otherwise denied, then owner match (id or email
// suffices), then collaborator email membership.
func CanAccess(rec Record, id Identity) bool {
	if rec.IsPublic {
		return true
	}
	if id.Anonymous() {
		return false
	}
	if isOwner(rec, id) {
		return true
	}
	return isCollaborator(rec, id.Email)
}

// Resolve classifies the requester's full role against the record.
func Resolve(rec Record, id Identity) Role {
	owner := isOwner(rec, id)
	shared := isCollaborator(rec, id.Email)

	return Role{
		IsOwner:  owner,
		IsShared: shared,
		IsPublic: rec.IsPublic,
		CanEdit:  owner || shared,
		CanView:  owner || shared || rec.IsPublic,
	}
}

func isOwner(rec Record, id Identity) bool {
	if id.Anonymous() {
		return false
	}
	if rec.UserID != "" && rec.UserID == id.ID {
		return true
	}
	return rec.UserEmail != "" && rec.UserEmail == id.Email
}

func isCollaborator(rec Record, email string) bool {
	if email == "" {
		return false
	}
	for _, c := range rec.Collaborators {
		if c == email {
			return true
		}
	}
	return false
}
