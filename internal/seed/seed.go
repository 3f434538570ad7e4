// Package seed loads the starter rule set an empty deployment needs before an
// admin has configured anything.
package seed

import (
	"context"
	"errors"

	"github.com/gosimple/slug"
	"github.com/railzwaylabs/supportdesk/internal/catalog"
	commissiondomain "github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	pricedomain "github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type commissionSeed struct {
	Name    string
	Region  string
	Country string
	Rate    string
	Min     string
}

var defaultCommissions = []commissionSeed{
	{Name: "Platform default", Region: "global", Rate: "15"},
	{Name: "North America", Region: "north-america", Country: "US", Rate: "12.5", Min: "5"},
	{Name: "Europe", Region: "europe", Rate: "14"},
}

type Result struct {
	PriceRulesCreated      int
	CommissionRulesCreated int
}

// EnsureDefaultRules creates one price rule per catalog service and the
// default commission rules. Rules whose name already exists are skipped, so
// running it twice is harmless. Writes go through the services and are
// validated and audited like any admin write.
func EnsureDefaultRules(
	ctx context.Context,
	cat *catalog.Catalog,
	prices pricedomain.Service,
	commissions commissiondomain.Service,
	log *zap.Logger,
) (Result, error) {
	if cat == nil || prices == nil || commissions == nil {
		return Result{}, errors.New("seed requires catalog and rule services")
	}

	var res Result

	existingPrices, err := prices.List(ctx, pricedomain.ListRequest{})
	if err != nil {
		return res, err
	}
	seen := make(map[string]bool, len(existingPrices))
	for _, r := range existingPrices {
		seen[slug.Make(r.Name)] = true
	}

	one := decimal.NewFromInt(1)
	for _, svc := range cat.List() {
		if seen[slug.Make(svc.Name)] {
			continue
		}
		basePrice := svc.BasePrice
		if _, err := prices.Create(ctx, pricedomain.CreateRequest{
			Name:        svc.Name,
			ServiceType: svc.ID,
			Category:    svc.Category,
			BasePrice:   &basePrice,
			Multiplier:  &one,
			Conditions:  []string{"catalog:" + svc.ID},
		}); err != nil {
			return res, err
		}
		res.PriceRulesCreated++
	}

	existingCommissions, err := commissions.List(ctx, commissiondomain.ListRequest{})
	if err != nil {
		return res, err
	}
	seen = make(map[string]bool, len(existingCommissions))
	for _, r := range existingCommissions {
		seen[slug.Make(r.Name)] = true
	}

	for _, c := range defaultCommissions {
		if seen[slug.Make(c.Name)] {
			continue
		}
		country := c.Country
		if _, err := commissions.Create(ctx, commissiondomain.CreateRequest{
			Name:           c.Name,
			Region:         c.Region,
			Country:        &country,
			CommissionRate: commissiondomain.NumberInput(c.Rate),
			MinAmount:      commissiondomain.NumberInput(c.Min),
		}); err != nil {
			return res, err
		}
		res.CommissionRulesCreated++
	}

	log.Info("default rules seeded",
		zap.Int("price_rules", res.PriceRulesCreated),
		zap.Int("commission_rules", res.CommissionRulesCreated),
	)
	return res, nil
}
