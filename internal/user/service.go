package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"b2b-print-designer/auth"
	apiError "b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/policy"
)

type Service interface {
	Register(ctx context.Context, name, email, password string, orgID uint64) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetUserByID(ctx context.Context, id uint64) (*User, error)
	ActorByID(id uint64) (policy.Actor, error)
}

type DefaultService struct {
	repository UserRepository
	tokens     *auth.Manager
}

func NewService(repository UserRepository, tokens *auth.Manager) *DefaultService {
	return &DefaultService{repository: repository, tokens: tokens}
}

func (s *DefaultService) Register(ctx context.Context, name, email, password string, orgID uint64) (*User, error) {
	_, err := s.repository.FindByEmail(ctx, email)
	if err == nil {
		return nil, apiError.BadRequest("email already registered", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apiError.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apiError.Internal(err)
	}

	newUser := &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		IsActive:     true,
		OrgID:        orgID,
		OrgRole:      policy.RoleMember,
	}
	if err := s.repository.Create(ctx, newUser); err != nil {
		return nil, apiError.Internal(err)
	}
	return newUser, nil
}

func (s *DefaultService) Login(ctx context.Context, email, password string) (string, *User, error) {
	found, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apiError.Unauthorized("invalid email or password", nil)
		}
		return "", nil, apiError.Internal(err)
	}
	if !found.IsActive {
		return "", nil, apiError.Forbidden("account is deactivated", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
		return "", nil, apiError.Unauthorized("invalid email or password", nil)
	}

	token, err := s.tokens.GenerateJWT(found.ID)
	if err != nil {
		return "", nil, apiError.Internal(err)
	}
	return token, found, nil
}

func (s *DefaultService) GetUserByID(ctx context.Context, id uint64) (*User, error) {
	found, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFound("user not found", nil)
		}
		return nil, apiError.Internal(err)
	}
	return found, nil
}

// ActorByID satisfies middleware.ActorProvider.
func (s *DefaultService) ActorByID(id uint64) (policy.Actor, error) {
	found, err := s.GetUserByID(context.Background(), id)
	if err != nil {
		return policy.Actor{}, err
	}
	if !found.IsActive {
		return policy.Actor{}, apiError.Forbidden("account is deactivated", nil)
	}
	return found.ToActor(), nil
}
