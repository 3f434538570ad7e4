package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	auditrepository "github.com/railzwaylabs/supportdesk/internal/audit/repository"
	auditservice "github.com/railzwaylabs/supportdesk/internal/audit/service"
	"github.com/railzwaylabs/supportdesk/internal/clock"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/internal/observability"
	"github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	"github.com/railzwaylabs/supportdesk/internal/pricerule/repository"
	"github.com/railzwaylabs/supportdesk/internal/rulecache"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     domain.Service
	db      *gorm.DB
	mr      *miniredis.Miniredis
	metrics *observability.Metrics
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PriceRule{}, &auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	clk := clock.Fixed(now)
	metrics := observability.NewMetrics()

	svc := New(Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
		Cache: rulecache.New(rulecache.Params{
			Log:    log,
			Config: config.Config{Redis: config.RedisConfig{CacheTTL: time.Minute}},
			Client: client,
		}),
		AuditSvc: auditservice.NewService(auditservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
			Clock: clk,
			Repo:  auditrepository.Provide(),
		}),
		Metrics: metrics,
	})
	return fixture{svc: svc, db: db, mr: mr, metrics: metrics}
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func strPtr(v string) *string { return &v }

func validCreate(name, category string) domain.CreateRequest {
	return domain.CreateRequest{
		Name:        name,
		ServiceType: "remote",
		Category:    category,
		BasePrice:   dec("55"),
		Multiplier:  dec("1.2"),
		Conditions:  []string{"business_hours", " ", "returning_customer"},
	}
}

func names(items []domain.Response) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestCreateNormalizesAndStores(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := validCreate("  Virus Removal  ", " Security ")
	req.ServiceType = " Remote "
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "Virus Removal", created.Name)
	assert.Equal(t, "remote", created.ServiceType)
	assert.Equal(t, "Security", created.Category)
	assert.Equal(t, []string{"business_hours", "returning_customer"}, created.Conditions)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.True(t, created.LastModified.Equal(now))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "55", got.BasePrice.String())
	assert.Equal(t, "1.2", got.Multiplier.String())
	assert.Equal(t, created.Conditions, got.Conditions)
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*domain.CreateRequest)
		field string
	}{
		{"negative base price", func(r *domain.CreateRequest) { r.BasePrice = dec("-5") }, "base_price"},
		{"zero base price", func(r *domain.CreateRequest) { r.BasePrice = dec("0") }, "base_price"},
		{"missing base price", func(r *domain.CreateRequest) { r.BasePrice = nil }, "base_price"},
		{"zero multiplier", func(r *domain.CreateRequest) { r.Multiplier = dec("0") }, "multiplier"},
		{"missing multiplier", func(r *domain.CreateRequest) { r.Multiplier = nil }, "multiplier"},
		{"blank name", func(r *domain.CreateRequest) { r.Name = "   " }, "name"},
		{"blank service type", func(r *domain.CreateRequest) { r.ServiceType = "" }, "service_type"},
		{"blank category", func(r *domain.CreateRequest) { r.Category = " " }, "category"},
		{"unknown status", func(r *domain.CreateRequest) { s := domain.Status("archived"); r.Status = &s }, "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t)
			ctx := context.Background()

			req := validCreate("Virus Removal", "Security")
			tc.edit(&req)

			_, err := f.svc.Create(ctx, req)
			require.ErrorIs(t, err, apperror.ErrValidation)
			field, ok := apperror.FieldOf(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, field)

			items, err := f.svc.List(ctx, domain.ListRequest{})
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestCreateRejectsDuplicateActiveName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validCreate("Virus Removal", "Security"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, validCreate("virus-removal", "Security"))
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// Another category, or an inactive rule, does not clash.
	_, err = f.svc.Create(ctx, validCreate("Virus Removal", "Hardware"))
	assert.NoError(t, err)

	inactive := validCreate("Virus Removal", "Security")
	status := domain.StatusInactive
	inactive.Status = &status
	_, err = f.svc.Create(ctx, inactive)
	assert.NoError(t, err)
}

func TestListSortOrders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, r := range []struct{ name, category string }{
		{"Printer Setup", "hardware"},
		{"backup", "Data"},
		{"Antivirus", "security"},
		{"Éclair Sync", "Data"},
		{"Zoom Help", "hardware"},
	} {
		_, err := f.svc.Create(ctx, validCreate(r.name, r.category))
		require.NoError(t, err)
	}

	none, err := f.svc.List(ctx, domain.ListRequest{Sort: sortutil.OrderNone})
	require.NoError(t, err)
	assert.Equal(t, []string{"Printer Setup", "backup", "Antivirus", "Éclair Sync", "Zoom Help"}, names(none))

	byName, err := f.svc.List(ctx, domain.ListRequest{Sort: sortutil.OrderName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Antivirus", "backup", "Éclair Sync", "Printer Setup", "Zoom Help"}, names(byName))

	byCategory, err := f.svc.List(ctx, domain.ListRequest{Sort: sortutil.OrderCategory})
	require.NoError(t, err)
	// Equal categories keep insertion order.
	assert.Equal(t, []string{"backup", "Éclair Sync", "Printer Setup", "Zoom Help", "Antivirus"}, names(byCategory))
}

func TestListIsCachedAndInvalidatedOnWrite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)

	items, err := f.svc.List(ctx, domain.ListRequest{Sort: sortutil.OrderName})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, f.mr.Exists("pricing_rules:list:name"))

	// A write behind the service's back is not visible while cached.
	require.NoError(t, f.db.Exec("DELETE FROM price_rules").Error)
	items, err = f.svc.List(ctx, domain.ListRequest{Sort: sortutil.OrderName})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	genBefore, err := f.mr.Get("pricing_rules:gen")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, validCreate("Restore", "Data"))
	require.NoError(t, err)
	assert.False(t, f.mr.Exists("pricing_rules:list:name"))
	genAfter, err := f.mr.Get("pricing_rules:gen")
	require.NoError(t, err)
	assert.NotEqual(t, genBefore, genAfter)

	items, err = f.svc.List(ctx, domain.ListRequest{Sort: sortutil.OrderName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Restore"}, names(items))
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Multiplier: dec("1.5")})
	require.NoError(t, err)
	assert.Equal(t, "1.5", updated.Multiplier.String())
	assert.Equal(t, "55", updated.BasePrice.String())
	assert.Equal(t, "Backup", updated.Name)
	assert.Equal(t, created.Conditions, updated.Conditions)

	cleared := []string{}
	updated, err = f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Conditions: &cleared})
	require.NoError(t, err)
	assert.Empty(t, updated.Conditions)
}

func TestUpdateValidatesMergedRecord(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, BasePrice: dec("-1"), Name: strPtr("Renamed")})
	require.ErrorIs(t, err, apperror.ErrValidation)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backup", got.Name)
	assert.Equal(t, "55", got.BasePrice.String())
}

func TestUpdateRejectsNameClash(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, validCreate("Restore", "Data"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: other.ID, Name: strPtr("BACKUP")})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// Renaming a rule to its own name is fine.
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: other.ID, Name: strPtr("Restore")})
	assert.NoError(t, err)
}

func TestUpdateLastWriteWins(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)

	// Two editors loaded the same version; both saves are accepted.
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, BasePrice: dec("60")})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, BasePrice: dec("70"), Multiplier: dec("1.1")})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "70", got.BasePrice.String())
	assert.Equal(t, "1.1", got.Multiplier.String())
}

func TestUpdateAndDeleteUnknownID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: "123456789", Name: strPtr("x")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	for _, id := range []string{"123456789", "not-an-id", ""} {
		err = f.svc.Delete(ctx, id)
		assert.ErrorIs(t, err, apperror.ErrNotFound, id)
	}

	items, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestDeleteRemovesRule(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestWritesAreAudited(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Multiplier: dec("2")})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, created.ID))

	var actions []string
	require.NoError(t, f.db.Model(&auditdomain.AuditLog{}).Order("id ASC").Pluck("action", &actions).Error)
	assert.Equal(t, []string{"price_rule.create", "price_rule.update", "price_rule.delete"}, actions)
}

func TestWritesAreCounted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, validCreate("Backup", "Data"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RuleWrites.WithLabelValues("price_rule", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RuleWrites.WithLabelValues("price_rule", "create", "error")))
}
