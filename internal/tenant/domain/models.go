// Package domain contains the tenant model and service contracts.
package domain

import (
	"time"
)

// Tenant is an isolated customer scope identified by a unique code.
type Tenant struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Code      string    `gorm:"type:text;not null;uniqueIndex:ux_tenants_code" json:"code"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }
