package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	"github.com/railzwaylabs/supportdesk/internal/clock"
	"github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	"github.com/railzwaylabs/supportdesk/internal/observability"
	"github.com/railzwaylabs/supportdesk/internal/rulecache"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	cacheKind  = "commission_rules"
	metricKind = "commission_rule"
	targetType = string(auditdomain.RuleKindCommission)
)

var maxRate = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Cache    *rulecache.Cache       `optional:"true"`
	AuditSvc auditdomain.Service    `optional:"true"`
	Metrics  *observability.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	cache    *rulecache.Cache
	auditSvc auditdomain.Service
	metrics  *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("commissionrule.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		cache:    p.Cache,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (resp *domain.Response, err error) {
	defer func() { s.metrics.RecordRuleWrite(metricKind, "create", err) }()

	rate, ok, err := req.CommissionRate.Decimal()
	if !ok {
		return nil, domain.ErrMissingCommissionRate
	}
	if err != nil {
		return nil, domain.ErrInvalidCommissionRate
	}
	minAmount, err := optionalAmount(req.MinAmount, domain.ErrInvalidMinAmount)
	if err != nil {
		return nil, err
	}
	maxAmount, err := optionalAmount(req.MaxAmount, domain.ErrInvalidMaxAmount)
	if err != nil {
		return nil, err
	}
	status := domain.StatusActive
	if req.Status != nil {
		status = *req.Status
	}

	now := s.clock.Now(ctx).UTC()
	record := &domain.CommissionRule{
		ID:             s.genID.Generate(),
		Name:           req.Name,
		Region:         req.Region,
		Country:        optionalString(req.Country),
		State:          optionalString(req.State),
		ServiceType:    optionalString(req.ServiceType),
		Description:    optionalString(req.Description),
		CommissionRate: rate,
		MinAmount:      minAmount,
		MaxAmount:      maxAmount,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := normalize(record); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "create", record)
	out := toResponse(record)
	return &out, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	order := req.Sort
	if order == "" {
		order = sortutil.OrderNone
	}

	var cached []domain.Response
	if s.cache.GetList(ctx, cacheKind, order, &cached) {
		return cached, nil
	}
	gen := s.cache.Generation(ctx, cacheKind)

	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		resp = append(resp, toResponse(item))
	}

	switch order {
	case sortutil.OrderName:
		sortutil.Stable(resp, func(r domain.Response) string { return r.Name })
	case sortutil.OrderCategory:
		sortutil.Stable(resp, func(r domain.Response) string { return r.Region })
	}

	s.cache.SetList(ctx, cacheKind, order, gen, resp)
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	out := toResponse(item)
	return &out, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (resp *domain.Response, err error) {
	defer func() { s.metrics.RecordRuleWrite(metricKind, "update", err) }()

	item, err := s.find(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Region != nil {
		item.Region = *req.Region
	}
	if req.Country != nil {
		item.Country = optionalString(req.Country)
	}
	if req.State != nil {
		item.State = optionalString(req.State)
	}
	if req.ServiceType != nil {
		item.ServiceType = optionalString(req.ServiceType)
	}
	if req.Description != nil {
		item.Description = optionalString(req.Description)
	}
	if req.CommissionRate != nil {
		rate, ok, err := req.CommissionRate.Decimal()
		if !ok {
			return nil, domain.ErrMissingCommissionRate
		}
		if err != nil {
			return nil, domain.ErrInvalidCommissionRate
		}
		item.CommissionRate = rate
	}
	if req.MinAmount != nil {
		if item.MinAmount, err = optionalAmount(*req.MinAmount, domain.ErrInvalidMinAmount); err != nil {
			return nil, err
		}
	}
	if req.MaxAmount != nil {
		if item.MaxAmount, err = optionalAmount(*req.MaxAmount, domain.ErrInvalidMaxAmount); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if err := normalize(item); err != nil {
		return nil, err
	}

	item.UpdatedAt = s.clock.Now(ctx).UTC()
	found, err := s.repo.Update(ctx, s.db, item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	s.afterWrite(ctx, "update", item)
	out := toResponse(item)
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.RecordRuleWrite(metricKind, "delete", err) }()

	ruleID, ok := parseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	found, err := s.repo.Delete(ctx, s.db, ruleID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotFound
	}

	s.cache.Invalidate(ctx, cacheKind)
	if s.auditSvc != nil {
		targetID := ruleID.String()
		_ = s.auditSvc.AuditLog(ctx, "commission_rule.delete", targetType, &targetID, nil)
	}
	return nil
}

func (s *Service) find(ctx context.Context, db *gorm.DB, id string) (*domain.CommissionRule, error) {
	ruleID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	item, err := s.repo.FindByID(ctx, db, ruleID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) afterWrite(ctx context.Context, op string, rule *domain.CommissionRule) {
	s.cache.Invalidate(ctx, cacheKind)
	s.log.Info("commission rule written",
		zap.String("op", op),
		zap.String("id", rule.ID.String()),
		zap.String("region", rule.Region),
	)
	if s.auditSvc == nil {
		return
	}
	targetID := rule.ID.String()
	_ = s.auditSvc.AuditLog(ctx, "commission_rule."+op, targetType, &targetID, map[string]any{
		"name":            rule.Name,
		"region":          rule.Region,
		"commission_rate": rule.CommissionRate.String(),
		"status":          string(rule.Status),
	})
}

func normalize(rule *domain.CommissionRule) error {
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return domain.ErrInvalidName
	}
	rule.Region = strings.TrimSpace(rule.Region)
	if rule.Region == "" {
		return domain.ErrInvalidRegion
	}
	if rule.CommissionRate.IsNegative() || rule.CommissionRate.GreaterThan(maxRate) {
		return domain.ErrInvalidCommissionRate
	}
	if rule.MinAmount.Valid && rule.MaxAmount.Valid && rule.MaxAmount.Decimal.LessThan(rule.MinAmount.Decimal) {
		return domain.ErrInvalidMaxAmount
	}

	switch domain.Status(strings.ToLower(strings.TrimSpace(string(rule.Status)))) {
	case domain.StatusActive:
		rule.Status = domain.StatusActive
	case domain.StatusInactive:
		rule.Status = domain.StatusInactive
	default:
		return domain.ErrInvalidStatus
	}
	return nil
}

// optionalString maps nil, "" and whitespace to absent.
func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalAmount(value domain.NumberInput, invalid error) (decimal.NullDecimal, error) {
	d, ok, err := value.Decimal()
	if !ok {
		return decimal.NullDecimal{}, nil
	}
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, invalid
	}
	return decimal.NewNullDecimal(d), nil
}

func toResponse(c *domain.CommissionRule) domain.Response {
	resp := domain.Response{
		ID:             c.ID.String(),
		Name:           c.Name,
		Region:         c.Region,
		Country:        c.Country,
		State:          c.State,
		ServiceType:    c.ServiceType,
		Description:    c.Description,
		CommissionRate: c.CommissionRate,
		Status:         c.Status,
		LastModified:   c.UpdatedAt,
	}
	if c.MinAmount.Valid {
		v := c.MinAmount.Decimal
		resp.MinAmount = &v
	}
	if c.MaxAmount.Valid {
		v := c.MaxAmount.Decimal
		resp.MaxAmount = &v
	}
	return resp
}

func parseID(value string) (snowflake.ID, bool) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
