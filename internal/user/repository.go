package user

import (
	"context"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint64) (*User, error)
	ListByOrg(ctx context.Context, orgID uint64) ([]User, error)
	SetApproval(ctx context.Context, id uint64, approved bool) error
	SetRole(ctx context.Context, id uint64, role string) error
}

type UserRepositoryImpl struct {
	database *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{database: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *User) error {
	return r.database.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.database.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint64) (*User, error) {
	var user User
	if err := r.database.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ListByOrg(ctx context.Context, orgID uint64) ([]User, error) {
	var users []User
	err := r.database.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) SetApproval(ctx context.Context, id uint64, approved bool) error {
	return r.database.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("org_approved", approved).Error
}

func (r *UserRepositoryImpl) SetRole(ctx context.Context, id uint64, role string) error {
	return r.database.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("org_role", role).Error
}
