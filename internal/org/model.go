package org

import "time"

// Organization groups portal users under a shared template catalog and
// approval chain.
type Organization struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	ContactFirstName string    `json:"contact_first_name"`
	DefaultQty       int       `gorm:"default:1" json:"default_qty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
