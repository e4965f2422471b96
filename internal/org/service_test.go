package org

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apiError "b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/policy"
	"b2b-print-designer/internal/user"
)

// MockOrgRepo is a mock implementation of the OrgRepository interface
type MockOrgRepo struct {
	mock.Mock
}

func (m *MockOrgRepo) Create(ctx context.Context, organization *Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}

func (m *MockOrgRepo) FindByID(ctx context.Context, id uint64) (*Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Organization), args.Error(1)
}

func (m *MockOrgRepo) ListAll(ctx context.Context) ([]Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Organization), args.Error(1)
}

func (m *MockOrgRepo) Update(ctx context.Context, organization *Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}

// MockUserRepo is a mock implementation of the user.UserRepository interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id uint64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) ListByOrg(ctx context.Context, orgID uint64) ([]user.User, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserRepo) SetApproval(ctx context.Context, id uint64, approved bool) error {
	args := m.Called(ctx, id, approved)
	return args.Error(0)
}

func (m *MockUserRepo) SetRole(ctx context.Context, id uint64, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

var (
	orgAdmin = policy.Actor{ID: 2, OrgID: 5, Approved: true, Role: policy.RoleAdmin}
	operator = policy.Actor{ID: 3, CanBypass: true}
)

func TestSetMemberApprovalWithinOwnOrg(t *testing.T) {
	orgs := new(MockOrgRepo)
	users := new(MockUserRepo)
	service := NewService(orgs, users)

	users.On("FindByID", mock.Anything, uint64(42)).Return(&user.User{ID: 42, OrgID: 5}, nil)
	users.On("SetApproval", mock.Anything, uint64(42), true).Return(nil)

	require.NoError(t, service.SetMemberApproval(context.Background(), orgAdmin, 42, true))
	users.AssertExpectations(t)
}

func TestSetMemberApprovalDeniedAcrossOrgs(t *testing.T) {
	orgs := new(MockOrgRepo)
	users := new(MockUserRepo)
	service := NewService(orgs, users)

	users.On("FindByID", mock.Anything, uint64(42)).Return(&user.User{ID: 42, OrgID: 7}, nil)

	err := service.SetMemberApproval(context.Background(), orgAdmin, 42, true)
	require.Error(t, err)
	appErr, ok := apiError.As(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)
	users.AssertNotCalled(t, "SetApproval", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetMemberApprovalBypassReachesAnyOrg(t *testing.T) {
	orgs := new(MockOrgRepo)
	users := new(MockUserRepo)
	service := NewService(orgs, users)

	users.On("FindByID", mock.Anything, uint64(42)).Return(&user.User{ID: 42, OrgID: 7}, nil)
	users.On("SetApproval", mock.Anything, uint64(42), true).Return(nil)

	require.NoError(t, service.SetMemberApproval(context.Background(), operator, 42, true))
	users.AssertExpectations(t)
}

func TestSetMemberRoleBypassReachesAnyOrg(t *testing.T) {
	orgs := new(MockOrgRepo)
	users := new(MockUserRepo)
	service := NewService(orgs, users)

	users.On("FindByID", mock.Anything, uint64(42)).Return(&user.User{ID: 42, OrgID: 7}, nil)
	users.On("SetRole", mock.Anything, uint64(42), policy.RoleAdmin).Return(nil)

	require.NoError(t, service.SetMemberRole(context.Background(), operator, 42, policy.RoleAdmin))

	err := service.SetMemberRole(context.Background(), operator, 42, "owner")
	require.Error(t, err)
	appErr, ok := apiError.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}
