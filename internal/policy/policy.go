// Package policy holds the pure access predicates for templates and drafts.
// Every rule is a function over an Actor snapshot so handlers and services
// never reach into user records directly.
package policy

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Actor is the identity snapshot resolved by the auth middleware.
type Actor struct {
	ID        uint64
	OrgID     uint64
	Approved  bool
	Role      string
	CanBypass bool
}

// DraftState is the subset of a draft the policy needs.
type DraftState struct {
	OrgID         uint64
	EmployeeReady bool
	AdminReady    bool
	ReadyOverride bool
}

// CanBypassOrg reports whether the actor holds the site-wide override
// capability and ignores organization scoping entirely.
func CanBypassOrg(a Actor) bool {
	return a.CanBypass
}

// IsApprovedMember reports whether the actor's organization approval flag is set.
func IsApprovedMember(a Actor) bool {
	return a.Approved
}

// IsOrgAdmin reports whether the actor's organization role is admin.
func IsOrgAdmin(a Actor) bool {
	return a.Role == RoleAdmin
}

// CanViewTemplate: global templates are visible to everyone; org-owned
// templates only to members of that org (or bypass).
func CanViewTemplate(a Actor, templateOrgID uint64) bool {
	if templateOrgID == 0 {
		return true
	}
	return templateOrgID == a.OrgID || CanBypassOrg(a)
}

// CanAccessDraft requires matching organization and membership approval,
// each independently bypassable.
func CanAccessDraft(a Actor, d DraftState) bool {
	if d.OrgID != 0 && d.OrgID != a.OrgID && !CanBypassOrg(a) {
		return false
	}
	return IsApprovedMember(a) || CanBypassOrg(a)
}

// CanApproveAsAdmin gates the org-admin approval actions.
func CanApproveAsAdmin(a Actor) bool {
	return IsOrgAdmin(a) || CanBypassOrg(a)
}

// FullyApproved is the dual-approval gate with the override escape hatch.
func FullyApproved(d DraftState) bool {
	return (d.EmployeeReady && d.AdminReady) || d.ReadyOverride
}

// CanAttachToCart: only an admin-capable actor may attach, and only once the
// draft carries both approvals or the override.
func CanAttachToCart(a Actor, d DraftState) bool {
	return CanApproveAsAdmin(a) && FullyApproved(d)
}
