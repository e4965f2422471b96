package org

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apiError "b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/policy"
	"b2b-print-designer/internal/user"
)

type Service interface {
	GetOrg(ctx context.Context, id uint64) (*Organization, error)
	ListOrgs(ctx context.Context) ([]Organization, error)
	CreateOrg(ctx context.Context, organization *Organization) error
	UpdateOrg(ctx context.Context, organization *Organization) error
	Members(ctx context.Context, orgID uint64) ([]user.SafeUser, error)
	SetMemberApproval(ctx context.Context, actor policy.Actor, userID uint64, approved bool) error
	SetMemberRole(ctx context.Context, actor policy.Actor, userID uint64, role string) error
	DefaultQty(ctx context.Context, orgID uint64) int
	PendingContact(ctx context.Context, orgID uint64) (orgName, organizerFirst string, err error)
}

type DefaultService struct {
	repository OrgRepository
	users      user.UserRepository
}

func NewService(repository OrgRepository, users user.UserRepository) *DefaultService {
	return &DefaultService{repository: repository, users: users}
}

func (s *DefaultService) GetOrg(ctx context.Context, id uint64) (*Organization, error) {
	found, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFound("organization not found", nil)
		}
		return nil, apiError.Internal(err)
	}
	return found, nil
}

func (s *DefaultService) ListOrgs(ctx context.Context) ([]Organization, error) {
	organizations, err := s.repository.ListAll(ctx)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	return organizations, nil
}

func (s *DefaultService) CreateOrg(ctx context.Context, organization *Organization) error {
	if organization.DefaultQty < 1 {
		organization.DefaultQty = 1
	}
	if err := s.repository.Create(ctx, organization); err != nil {
		return apiError.Internal(err)
	}
	return nil
}

func (s *DefaultService) UpdateOrg(ctx context.Context, organization *Organization) error {
	if organization.DefaultQty < 1 {
		organization.DefaultQty = 1
	}
	if err := s.repository.Update(ctx, organization); err != nil {
		return apiError.Internal(err)
	}
	return nil
}

func (s *DefaultService) Members(ctx context.Context, orgID uint64) ([]user.SafeUser, error) {
	members, err := s.users.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	safe := make([]user.SafeUser, 0, len(members))
	for _, member := range members {
		safe = append(safe, member.ToSafeUser())
	}
	return safe, nil
}

// requireMember checks that the target user belongs to the acting admin's
// org. A bypass actor manages members of any org.
func (s *DefaultService) requireMember(ctx context.Context, actor policy.Actor, userID uint64) error {
	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.NotFound("user not found", nil)
		}
		return apiError.Internal(err)
	}
	if target.OrgID != actor.OrgID && !policy.CanBypassOrg(actor) {
		return apiError.Forbidden("user does not belong to this organization", nil)
	}
	return nil
}

func (s *DefaultService) SetMemberApproval(ctx context.Context, actor policy.Actor, userID uint64, approved bool) error {
	if err := s.requireMember(ctx, actor, userID); err != nil {
		return err
	}
	if err := s.users.SetApproval(ctx, userID, approved); err != nil {
		return apiError.Internal(err)
	}
	return nil
}

func (s *DefaultService) SetMemberRole(ctx context.Context, actor policy.Actor, userID uint64, role string) error {
	if role != policy.RoleMember && role != policy.RoleAdmin {
		return apiError.BadRequest("role must be member or admin", nil)
	}
	if err := s.requireMember(ctx, actor, userID); err != nil {
		return err
	}
	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return apiError.Internal(err)
	}
	return nil
}

// DefaultQty returns the org's starting quantity for new drafts, falling
// back to 1 when the org is unknown.
func (s *DefaultService) DefaultQty(ctx context.Context, orgID uint64) int {
	found, err := s.repository.FindByID(ctx, orgID)
	if err != nil || found.DefaultQty < 1 {
		return 1
	}
	return found.DefaultQty
}

// PendingContact satisfies template.OrgProvider for the pending-approval
// catalog message shown to unapproved members.
func (s *DefaultService) PendingContact(ctx context.Context, orgID uint64) (string, string, error) {
	found, err := s.repository.FindByID(ctx, orgID)
	if err != nil {
		return "", "", err
	}
	return found.Title, found.ContactFirstName, nil
}
