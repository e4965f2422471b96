package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanViewTemplate(t *testing.T) {
	orgA := Actor{ID: 1, OrgID: 10, Approved: true, Role: RoleMember}
	orgB := Actor{ID: 2, OrgID: 20, Approved: true, Role: RoleMember}
	bypass := Actor{ID: 3, OrgID: 0, CanBypass: true}

	assert.True(t, CanViewTemplate(orgA, 0), "global template visible to everyone")
	assert.True(t, CanViewTemplate(orgA, 10), "own org template visible")
	assert.False(t, CanViewTemplate(orgB, 10), "foreign org template hidden")
	assert.True(t, CanViewTemplate(bypass, 10), "bypass sees all templates")
}

func TestCanAccessDraft(t *testing.T) {
	draft := DraftState{OrgID: 10}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"approved member, same org", Actor{OrgID: 10, Approved: true}, true},
		{"approved member, other org", Actor{OrgID: 20, Approved: true}, false},
		{"unapproved member, same org", Actor{OrgID: 10, Approved: false}, false},
		{"bypass, other org, unapproved", Actor{OrgID: 20, CanBypass: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessDraft(tt.actor, draft))
		})
	}
}

func TestCanAccessDraftOrglessDraft(t *testing.T) {
	// drafts created before org capture carry org 0 and fall back to the
	// approval check alone
	draft := DraftState{OrgID: 0}
	assert.True(t, CanAccessDraft(Actor{OrgID: 20, Approved: true}, draft))
	assert.False(t, CanAccessDraft(Actor{OrgID: 20, Approved: false}, draft))
}

// Full truth table over the three flags for an admin-capable actor, plus the
// capability requirement for everyone else.
func TestCanAttachToCart(t *testing.T) {
	admin := Actor{OrgID: 10, Approved: true, Role: RoleAdmin}
	member := Actor{OrgID: 10, Approved: true, Role: RoleMember}

	for _, emp := range []bool{false, true} {
		for _, adm := range []bool{false, true} {
			for _, ovr := range []bool{false, true} {
				d := DraftState{OrgID: 10, EmployeeReady: emp, AdminReady: adm, ReadyOverride: ovr}
				want := (emp && adm) || ovr
				assert.Equal(t, want, CanAttachToCart(admin, d),
					"admin emp=%v adm=%v ovr=%v", emp, adm, ovr)
				assert.False(t, CanAttachToCart(member, d),
					"member must never attach, emp=%v adm=%v ovr=%v", emp, adm, ovr)
			}
		}
	}
}

func TestCanApproveAsAdmin(t *testing.T) {
	assert.True(t, CanApproveAsAdmin(Actor{Role: RoleAdmin}))
	assert.True(t, CanApproveAsAdmin(Actor{Role: RoleMember, CanBypass: true}))
	assert.False(t, CanApproveAsAdmin(Actor{Role: RoleMember}))
}
