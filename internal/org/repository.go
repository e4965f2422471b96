package org

import (
	"context"

	"gorm.io/gorm"
)

type OrgRepository interface {
	Create(ctx context.Context, organization *Organization) error
	FindByID(ctx context.Context, id uint64) (*Organization, error)
	ListAll(ctx context.Context) ([]Organization, error)
	Update(ctx context.Context, organization *Organization) error
}

type OrgRepositoryImpl struct {
	database *gorm.DB
}

func NewOrgRepository(db *gorm.DB) OrgRepository {
	return &OrgRepositoryImpl{database: db}
}

func (r *OrgRepositoryImpl) Create(ctx context.Context, organization *Organization) error {
	return r.database.WithContext(ctx).Create(organization).Error
}

func (r *OrgRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Organization, error) {
	var organization Organization
	if err := r.database.WithContext(ctx).First(&organization, id).Error; err != nil {
		return nil, err
	}
	return &organization, nil
}

func (r *OrgRepositoryImpl) ListAll(ctx context.Context) ([]Organization, error) {
	var organizations []Organization
	err := r.database.WithContext(ctx).Order("title ASC").Find(&organizations).Error
	if err != nil {
		return nil, err
	}
	return organizations, nil
}

func (r *OrgRepositoryImpl) Update(ctx context.Context, organization *Organization) error {
	return r.database.WithContext(ctx).Save(organization).Error
}
