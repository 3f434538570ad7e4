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

type ListRequest struct {
	Sort sortutil.Order
}

type CreateRequest struct {
	Name        string           `json:"name"`
	ServiceType string           `json:"service_type"`
	Category    string           `json:"category"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	Multiplier  *decimal.Decimal `json:"multiplier"`
	Conditions  []string         `json:"conditions"`
	Status      *Status          `json:"status"`
}

// UpdateRequest is a partial patch; nil fields keep their stored value.
type UpdateRequest struct {
	ID          string           `json:"-"`
	Name        *string          `json:"name,omitempty"`
	ServiceType *string          `json:"service_type,omitempty"`
	Category    *string          `json:"category,omitempty"`
	BasePrice   *decimal.Decimal `json:"base_price,omitempty"`
	Multiplier  *decimal.Decimal `json:"multiplier,omitempty"`
	Conditions  *[]string        `json:"conditions,omitempty"`
	Status      *Status          `json:"status,omitempty"`
}

type Response struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ServiceType  string          `json:"service_type"`
	Category     string          `json:"category"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	Conditions   []string        `json:"conditions"`
	Status       Status          `json:"status"`
	LastModified time.Time       `json:"last_modified"`
}

var (
	ErrNotFound = fmt.Errorf("price_rule %w", apperror.ErrNotFound)

	ErrInvalidName        = apperror.Validation("name", "must not be empty")
	ErrDuplicateName      = apperror.Validation("name", "already used by an active rule in this service type and category")
	ErrInvalidServiceType = apperror.Validation("service_type", "must not be empty")
	ErrInvalidCategory    = apperror.Validation("category", "must not be empty")
	ErrInvalidBasePrice   = apperror.Validation("base_price", "must be a number greater than zero")
	ErrInvalidMultiplier  = apperror.Validation("multiplier", "must be a number greater than zero")
	ErrInvalidStatus      = apperror.Validation("status", "must be active or inactive")
)
