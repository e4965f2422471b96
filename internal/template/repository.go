package template

import (
	"context"

	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(ctx context.Context, tpl *Template) error
	Update(ctx context.Context, tpl *Template) error
	FindByID(ctx context.Context, id uint64) (*Template, error)
	ListAll(ctx context.Context) ([]Template, error)
}

type TemplateRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new template repository
func NewRepository(db *gorm.DB) TemplateRepository {
	return &TemplateRepositoryImpl{db: db}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, tpl *Template) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, tpl *Template) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *TemplateRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Template, error) {
	var tpl Template
	err := r.db.WithContext(ctx).First(&tpl, id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListAll returns every template ordered by title ascending; product and org
// filtering happens in the service so visibility rules live in one place.
func (r *TemplateRepositoryImpl) ListAll(ctx context.Context) ([]Template, error) {
	var templates []Template
	err := r.db.WithContext(ctx).Order("title ASC").Find(&templates).Error
	return templates, err
}
