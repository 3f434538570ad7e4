package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// CommissionRule is the platform's cut of a session in a region. Nil optional
// fields are wildcards when matching; they are never stored as "".
type CommissionRule struct {
	ID             snowflake.ID        `gorm:"primaryKey" json:"id"`
	Name           string              `gorm:"type:varchar(255);not null" json:"name"`
	Region         string              `gorm:"type:varchar(128);not null;index" json:"region"`
	Country        *string             `gorm:"type:varchar(64)" json:"country,omitempty"`
	State          *string             `gorm:"type:varchar(64)" json:"state,omitempty"`
	ServiceType    *string             `gorm:"type:varchar(64)" json:"service_type,omitempty"`
	Description    *string             `gorm:"type:text" json:"description,omitempty"`
	CommissionRate decimal.Decimal     `gorm:"type:decimal(7,4);not null" json:"commission_rate"`
	MinAmount      decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"min_amount"`
	MaxAmount      decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"max_amount"`
	Status         Status              `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt      time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null" json:"updated_at"`
}

func (CommissionRule) TableName() string { return "commission_rules" }
