package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// PriceRule is an admin-maintained base price and multiplier for a service
// type within a category. NameKey is the slug of Name and backs the
// uniqueness check among active rules.
type PriceRule struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"type:varchar(255);not null" json:"name"`
	NameKey     string                      `gorm:"type:varchar(255);not null;index:idx_price_rules_scope" json:"name_key"`
	ServiceType string                      `gorm:"type:varchar(64);not null;index:idx_price_rules_scope" json:"service_type"`
	Category    string                      `gorm:"type:varchar(128);not null;index:idx_price_rules_scope" json:"category"`
	BasePrice   decimal.Decimal             `gorm:"type:decimal(12,4);not null" json:"base_price"`
	Multiplier  decimal.Decimal             `gorm:"type:decimal(8,4);not null" json:"multiplier"`
	Conditions  datatypes.JSONSlice[string] `json:"conditions"`
	Status      Status                      `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt   time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (PriceRule) TableName() string { return "price_rules" }
