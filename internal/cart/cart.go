// Package cart receives fully approved drafts. A cart line carries the
// frozen snapshot token instead of the live draft so later edits or
// re-renders cannot change what was ordered.
package cart

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"

	"b2b-print-designer/internal/utils"
)

type CartItem struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	DraftID       uint64    `gorm:"index;not null" json:"draft_id"`
	ProductID     uint64    `gorm:"not null" json:"product_id"`
	VariationID   uint64    `json:"variation_id"`
	Qty           int       `gorm:"not null" json:"qty"`
	SnapshotToken string    `gorm:"not null" json:"snapshot_token"`
	UniqueKey     string    `gorm:"uniqueIndex;not null" json:"unique_key"`
	CreatedAt     time.Time `json:"created_at"`
}

// CartItemRef is what the portal hands back after an attach.
type CartItemRef struct {
	ItemID        uint64 `json:"item_id"`
	UniqueKey     string `json:"unique_key"`
	SnapshotToken string `json:"snapshot_token"`
}

// Sink is the destination for approved drafts. The gorm implementation is
// the default; a storefront integration would provide its own.
type Sink interface {
	Attach(ctx context.Context, item CartItem) (CartItemRef, error)
	ListByDraft(ctx context.Context, draftID uint64) ([]CartItem, error)
}

type GormSink struct {
	database *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{database: db}
}

// uniqueKeyFor separates otherwise identical product lines that carry
// different designs.
func uniqueKeyFor(item CartItem) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d:%d:%s", item.DraftID, item.ProductID, item.SnapshotToken)))
	return hex.EncodeToString(sum[:])
}

func (s *GormSink) Attach(ctx context.Context, item CartItem) (CartItemRef, error) {
	item.Qty = utils.ClampQty(item.Qty)
	item.UniqueKey = uniqueKeyFor(item)
	if err := s.database.WithContext(ctx).Create(&item).Error; err != nil {
		return CartItemRef{}, err
	}
	return CartItemRef{
		ItemID:        item.ID,
		UniqueKey:     item.UniqueKey,
		SnapshotToken: item.SnapshotToken,
	}, nil
}

// ListByDraft returns the cart lines created from a draft, newest first.
func (s *GormSink) ListByDraft(ctx context.Context, draftID uint64) ([]CartItem, error) {
	var items []CartItem
	err := s.database.WithContext(ctx).
		Where("draft_id = ?", draftID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
