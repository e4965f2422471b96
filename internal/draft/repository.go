package draft

import (
	"context"
	"time"

	"gorm.io/gorm"

	"b2b-print-designer/internal/utils"
)

// DraftRepository persists drafts. Every content mutation resets the two
// approval flags in the same statement as the change itself, so a reader can
// never observe edited content with stale approvals. The override flag is
// deliberately left alone by content mutations.
type DraftRepository interface {
	Create(ctx context.Context, draft *Draft) error
	FindByID(ctx context.Context, id uint64) (*Draft, error)
	SavePayload(ctx context.Context, id uint64, payload Payload, savedBy uint64) error
	UpdateQty(ctx context.Context, id uint64, qty int) error
	UpdateTemplate(ctx context.Context, id uint64, templateID uint64, payload Payload) error
	SetEmployeeReady(ctx context.Context, id uint64, by uint64) error
	SetAdminReady(ctx context.Context, id uint64, by uint64) error
	SetOverride(ctx context.Context, id uint64, value bool) error
	ListByOrg(ctx context.Context, orgID uint64, offset, limit int) ([]Draft, error)
}

type DraftRepositoryImpl struct {
	database *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &DraftRepositoryImpl{database: db}
}

func (r *DraftRepositoryImpl) Create(ctx context.Context, draft *Draft) error {
	draft.Qty = utils.ClampQty(draft.Qty)
	return r.database.WithContext(ctx).Create(draft).Error
}

func (r *DraftRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Draft, error) {
	var draft Draft
	if err := r.database.WithContext(ctx).First(&draft, id).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *DraftRepositoryImpl) SavePayload(ctx context.Context, id uint64, payload Payload, savedBy uint64) error {
	now := time.Now()
	return r.database.WithContext(ctx).
		Model(&Draft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payload":        payload,
			"last_saved_by":  savedBy,
			"last_saved_at":  &now,
			"employee_ready": false,
			"admin_ready":    false,
		}).Error
}

func (r *DraftRepositoryImpl) UpdateQty(ctx context.Context, id uint64, qty int) error {
	qty = utils.ClampQty(qty)
	return r.database.WithContext(ctx).
		Model(&Draft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"qty":            qty,
			"employee_ready": false,
			"admin_ready":    false,
		}).Error
}

func (r *DraftRepositoryImpl) UpdateTemplate(ctx context.Context, id uint64, templateID uint64, payload Payload) error {
	return r.database.WithContext(ctx).
		Model(&Draft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"template_id":    templateID,
			"payload":        payload,
			"employee_ready": false,
			"admin_ready":    false,
		}).Error
}

func (r *DraftRepositoryImpl) SetEmployeeReady(ctx context.Context, id uint64, by uint64) error {
	now := time.Now()
	return r.database.WithContext(ctx).
		Model(&Draft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"employee_ready": true,
			"ready_by":       by,
			"ready_at":       &now,
		}).Error
}

func (r *DraftRepositoryImpl) SetAdminReady(ctx context.Context, id uint64, by uint64) error {
	now := time.Now()
	return r.database.WithContext(ctx).
		Model(&Draft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"admin_ready": true,
			"ready_by":    by,
			"ready_at":    &now,
		}).Error
}

func (r *DraftRepositoryImpl) SetOverride(ctx context.Context, id uint64, value bool) error {
	return r.database.WithContext(ctx).
		Model(&Draft{}).
		Where("id = ?", id).
		Update("ready_override", value).Error
}

func (r *DraftRepositoryImpl) ListByOrg(ctx context.Context, orgID uint64, offset, limit int) ([]Draft, error) {
	var drafts []Draft
	err := r.database.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&drafts).Error
	if err != nil {
		return nil, err
	}
	return drafts, nil
}
