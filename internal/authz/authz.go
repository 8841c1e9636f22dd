// Package authz centralizes capability checks for authenticated requests.
// Handlers resolve the caller into a Requester once, then every
// owner/staff/premium decision goes through a policy method instead of
// ad-hoc attribute checks scattered across endpoints.
package authz

import "dreamdeck/internal/models"

// Action describes the kind of operation a requester wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Requester is the authenticated caller's capability context, resolved once
// per request from the stored user record.
type Requester struct {
	UserID    uint
	IsStaff   bool
	IsPremium bool
}

// FromUser builds a Requester from a user record.
func FromUser(u *models.User) Requester {
	return Requester{
		UserID:    u.ID,
		IsStaff:   u.IsStaff,
		IsPremium: u.IsPremium,
	}
}

// DreamPolicy defines authorization rules for dream records.
type DreamPolicy struct{}

// Can reports whether the requester may perform action on a dream owned by ownerID.
// Staff may act on any dream; everyone else only on their own.
func (DreamPolicy) Can(r Requester, _ Action, ownerID uint) bool {
	return r.IsStaff || r.UserID == ownerID
}

// CanListAll reports whether the requester sees every dream in the default
// listing (staff only).
func (DreamPolicy) CanListAll(r Requester) bool {
	return r.IsStaff
}

// CanBrowseAll reports whether the requester may use the community-wide
// browse endpoint (premium entitlement).
func (DreamPolicy) CanBrowseAll(r Requester) bool {
	return r.IsPremium
}
