package user

import (
	"time"

	"b2b-print-designer/internal/policy"
)

type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	OrgID        uint64    `gorm:"index" json:"org_id"`
	OrgApproved  bool      `gorm:"default:false" json:"org_approved"`
	OrgRole      string    `gorm:"default:member" json:"org_role"`
	CanBypass    bool      `gorm:"default:false" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SafeUser is the representation returned by the API, password hash omitted.
type SafeUser struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	OrgID       uint64 `json:"org_id"`
	OrgApproved bool   `json:"org_approved"`
	OrgRole     string `json:"org_role"`
}

func (u User) ToSafeUser() SafeUser {
	return SafeUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		OrgID:       u.OrgID,
		OrgApproved: u.OrgApproved,
		OrgRole:     u.OrgRole,
	}
}

func (u User) ToActor() policy.Actor {
	return policy.Actor{
		ID:        u.ID,
		OrgID:     u.OrgID,
		Approved:  u.OrgApproved,
		Role:      u.OrgRole,
		CanBypass: u.CanBypass,
	}
}
