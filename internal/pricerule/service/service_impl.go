package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	"github.com/railzwaylabs/supportdesk/internal/clock"
	"github.com/railzwaylabs/supportdesk/internal/observability"
	"github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	"github.com/railzwaylabs/supportdesk/internal/rulecache"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	cacheKind  = "pricing_rules"
	metricKind = "price_rule"
	targetType = string(auditdomain.RuleKindPrice)
)

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

// Service validates and stores price rules. Concurrent updates to the same
// rule are not versioned: the last write wins.
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
		log:      p.Log.Named("pricerule.service"),
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

	if req.BasePrice == nil {
		return nil, domain.ErrInvalidBasePrice
	}
	if req.Multiplier == nil {
		return nil, domain.ErrInvalidMultiplier
	}
	status := domain.StatusActive
	if req.Status != nil {
		status = *req.Status
	}

	now := s.clock.Now(ctx).UTC()
	record := &domain.PriceRule{
		ID:          s.genID.Generate(),
		Name:        req.Name,
		ServiceType: req.ServiceType,
		Category:    req.Category,
		BasePrice:   *req.BasePrice,
		Multiplier:  *req.Multiplier,
		Conditions:  normalizeConditions(req.Conditions),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := normalize(record); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUniqueName(ctx, tx, record); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, record)
	})
	if err != nil {
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
		sortutil.Stable(resp, func(r domain.Response) string { return r.Category })
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

	var item *domain.PriceRule
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.find(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		item = current

		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.ServiceType != nil {
			item.ServiceType = *req.ServiceType
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.BasePrice != nil {
			item.BasePrice = *req.BasePrice
		}
		if req.Multiplier != nil {
			item.Multiplier = *req.Multiplier
		}
		if req.Conditions != nil {
			item.Conditions = normalizeConditions(*req.Conditions)
		}
		if req.Status != nil {
			item.Status = *req.Status
		}
		if err := normalize(item); err != nil {
			return err
		}
		if err := s.ensureUniqueName(ctx, tx, item); err != nil {
			return err
		}

		item.UpdatedAt = s.clock.Now(ctx).UTC()
		found, err := s.repo.Update(ctx, tx, item)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
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
		_ = s.auditSvc.AuditLog(ctx, "price_rule.delete", targetType, &targetID, nil)
	}
	return nil
}

func (s *Service) find(ctx context.Context, db *gorm.DB, id string) (*domain.PriceRule, error) {
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

// ensureUniqueName rejects a second active rule whose name slugs to the same
// key within one service type and category. Inactive rules never clash.
func (s *Service) ensureUniqueName(ctx context.Context, tx *gorm.DB, rule *domain.PriceRule) error {
	if rule.Status != domain.StatusActive {
		return nil
	}
	clashes, err := s.repo.FindActiveInScope(ctx, tx, rule.ServiceType, rule.Category, rule.NameKey)
	if err != nil {
		return err
	}
	for _, other := range clashes {
		if other != nil && other.ID != rule.ID {
			return domain.ErrDuplicateName
		}
	}
	return nil
}

func (s *Service) afterWrite(ctx context.Context, op string, rule *domain.PriceRule) {
	s.cache.Invalidate(ctx, cacheKind)
	s.log.Info("price rule written",
		zap.String("op", op),
		zap.String("id", rule.ID.String()),
		zap.String("name", rule.Name),
	)
	if s.auditSvc == nil {
		return
	}
	targetID := rule.ID.String()
	_ = s.auditSvc.AuditLog(ctx, "price_rule."+op, targetType, &targetID, map[string]any{
		"name":         rule.Name,
		"service_type": rule.ServiceType,
		"category":     rule.Category,
		"base_price":   rule.BasePrice.String(),
		"multiplier":   rule.Multiplier.String(),
		"status":       string(rule.Status),
	})
}

// normalize trims the record in place and checks every field. Nothing is
// written unless it returns nil.
func normalize(rule *domain.PriceRule) error {
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return domain.ErrInvalidName
	}
	rule.NameKey = slug.Make(rule.Name)

	rule.ServiceType = strings.ToLower(strings.TrimSpace(rule.ServiceType))
	if rule.ServiceType == "" {
		return domain.ErrInvalidServiceType
	}
	rule.Category = strings.TrimSpace(rule.Category)
	if rule.Category == "" {
		return domain.ErrInvalidCategory
	}
	if !rule.BasePrice.IsPositive() {
		return domain.ErrInvalidBasePrice
	}
	if !rule.Multiplier.IsPositive() {
		return domain.ErrInvalidMultiplier
	}

	status, err := normalizeStatus(rule.Status)
	if err != nil {
		return err
	}
	rule.Status = status
	return nil
}

func normalizeStatus(value domain.Status) (domain.Status, error) {
	switch domain.Status(strings.ToLower(strings.TrimSpace(string(value)))) {
	case domain.StatusActive:
		return domain.StatusActive, nil
	case domain.StatusInactive:
		return domain.StatusInactive, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}

func normalizeConditions(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toResponse(p *domain.PriceRule) domain.Response {
	conditions := make([]string, 0, len(p.Conditions))
	conditions = append(conditions, p.Conditions...)
	return domain.Response{
		ID:           p.ID.String(),
		Name:         p.Name,
		ServiceType:  p.ServiceType,
		Category:     p.Category,
		BasePrice:    p.BasePrice,
		Multiplier:   p.Multiplier,
		Conditions:   conditions,
		Status:       p.Status,
		LastModified: p.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, bool) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

