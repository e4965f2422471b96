package draft

import (
	"time"

	"b2b-print-designer/internal/policy"
	"b2b-print-designer/internal/utils"
)

// SurfaceValues holds the user's text per field key for one surface.
type SurfaceValues struct {
	Fields map[string]string `json:"fields"`
}

// Payload maps surface key to its field values.
type Payload map[string]SurfaceValues

type Draft struct {
	ID          uint64            `gorm:"primaryKey" json:"id"`
	OrgID       uint64            `gorm:"index;not null" json:"org_id"`
	UserID      uint64            `gorm:"index;not null" json:"user_id"`
	ProductID   uint64            `gorm:"not null" json:"product_id"`
	VariationID uint64            `json:"variation_id"`
	Variation   map[string]string `gorm:"type:jsonb;serializer:json" json:"variation"`
	TemplateID  uint64            `gorm:"not null" json:"template_id"`
	Qty         int               `gorm:"not null;default:1" json:"qty"`
	Payload     Payload           `gorm:"type:jsonb;serializer:json" json:"payload"`

	EmployeeReady bool `gorm:"not null;default:false" json:"employee_ready"`
	AdminReady    bool `gorm:"not null;default:false" json:"admin_ready"`
	ReadyOverride bool `gorm:"not null;default:false" json:"ready_override"`

	LastSavedBy uint64     `json:"last_saved_by"`
	LastSavedAt *time.Time `json:"last_saved_at"`
	ReadyBy     uint64     `json:"ready_by"`
	ReadyAt     *time.Time `json:"ready_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quantity clamps on read; the clamp also applies on every write path.
func (d *Draft) Quantity() int {
	return utils.ClampQty(d.Qty)
}

// Values returns the field values for one surface, never nil.
func (d *Draft) Values(surfaceKey string) map[string]string {
	if values, ok := d.Payload[surfaceKey]; ok && values.Fields != nil {
		return values.Fields
	}
	return map[string]string{}
}

func (d *Draft) State() policy.DraftState {
	return policy.DraftState{
		OrgID:         d.OrgID,
		EmployeeReady: d.EmployeeReady,
		AdminReady:    d.AdminReady,
		ReadyOverride: d.ReadyOverride,
	}
}
