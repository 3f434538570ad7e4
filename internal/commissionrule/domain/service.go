package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

// ListRequest sorts by name or, for OrderCategory, by region.
type ListRequest struct {
	Sort sortutil.Order
}

type CreateRequest struct {
	Name           string      `json:"name"`
	Region         string      `json:"region"`
	Country        *string     `json:"country"`
	State          *string     `json:"state"`
	ServiceType    *string     `json:"service_type"`
	Description    *string     `json:"description"`
	CommissionRate NumberInput `json:"commission_rate"`
	MinAmount      NumberInput `json:"min_amount"`
	MaxAmount      NumberInput `json:"max_amount"`
	Status         *Status     `json:"status"`
}

// UpdateRequest is a partial patch. A nil field is left alone; an empty value
// on an optional field clears it.
type UpdateRequest struct {
	ID             string       `json:"-"`
	Name           *string      `json:"name,omitempty"`
	Region         *string      `json:"region,omitempty"`
	Country        *string      `json:"country,omitempty"`
	State          *string      `json:"state,omitempty"`
	ServiceType    *string      `json:"service_type,omitempty"`
	Description    *string      `json:"description,omitempty"`
	CommissionRate *NumberInput `json:"commission_rate,omitempty"`
	MinAmount      *NumberInput `json:"min_amount,omitempty"`
	MaxAmount      *NumberInput `json:"max_amount,omitempty"`
	Status         *Status      `json:"status,omitempty"`
}

type Response struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Region         string           `json:"region"`
	Country        *string          `json:"country,omitempty"`
	State          *string          `json:"state,omitempty"`
	ServiceType    *string          `json:"service_type,omitempty"`
	Description    *string          `json:"description,omitempty"`
	CommissionRate decimal.Decimal  `json:"commission_rate"`
	MinAmount      *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount      *decimal.Decimal `json:"max_amount,omitempty"`
	Status         Status           `json:"status"`
	LastModified   time.Time        `json:"last_modified"`
}

var (
	ErrNotFound = fmt.Errorf("commission_rule %w", apperror.ErrNotFound)

	ErrInvalidName           = apperror.Validation("name", "must not be empty")
	ErrInvalidRegion         = apperror.Validation("region", "must not be empty")
	ErrMissingCommissionRate = apperror.Validation("commission_rate", "is required")
	ErrInvalidCommissionRate = apperror.Validation("commission_rate", "must be a number between 0 and 100")
	ErrInvalidMinAmount      = apperror.Validation("min_amount", "must be a non-negative number")
	ErrInvalidMaxAmount      = apperror.Validation("max_amount", "must be a non-negative number not below min_amount")
	ErrInvalidStatus         = apperror.Validation("status", "must be active or inactive")
)
