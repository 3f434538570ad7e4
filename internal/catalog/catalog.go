// Package catalog holds the immutable service definitions that quotes are
// priced against.
package catalog

import (
	"fmt"
	"strings"

	pricingdomain "github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"go.uber.org/fx"
)

var ErrNotFound = fmt.Errorf("service %w", apperror.ErrNotFound)

var Module = fx.Module("catalog",
	fx.Provide(func() (*Catalog, error) { return New(Defaults()) }),
)

type Catalog struct {
	order []string
	byID  map[string]pricingdomain.ServiceDefinition
}

// New validates and indexes the entries. Entries are copied so later changes
// to the caller's slice do not leak into the catalog.
func New(entries []pricingdomain.ServiceDefinition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]pricingdomain.ServiceDefinition, len(entries))}
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		switch {
		case id == "":
			return nil, apperror.Validation("id", "is required")
		case strings.TrimSpace(e.Name) == "":
			return nil, apperror.Validation("name", fmt.Sprintf("is required for %s", id))
		case !e.BasePrice.IsPositive():
			return nil, apperror.Validation("base_price", fmt.Sprintf("must be greater than zero for %s", id))
		case e.MinimumTime <= 0:
			return nil, apperror.Validation("minimum_time", fmt.Sprintf("must be greater than zero for %s", id))
		case !e.SupportLevel.Valid():
			return nil, apperror.Validation("support_level", fmt.Sprintf("unknown for %s", id))
		}
		if _, dup := c.byID[id]; dup {
			return nil, apperror.Validation("id", fmt.Sprintf("duplicate %s", id))
		}
		e.ID = id
		e.Includes = append([]string(nil), e.Includes...)
		c.byID[id] = e
		c.order = append(c.order, id)
	}
	return c, nil
}

func (c *Catalog) Get(id string) (pricingdomain.ServiceDefinition, error) {
	svc, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return pricingdomain.ServiceDefinition{}, ErrNotFound
	}
	svc.Includes = append([]string(nil), svc.Includes...)
	return svc, nil
}

// List returns the entries in registration order.
func (c *Catalog) List() []pricingdomain.ServiceDefinition {
	out := make([]pricingdomain.ServiceDefinition, 0, len(c.order))
	for _, id := range c.order {
		svc, _ := c.Get(id)
		out = append(out, svc)
	}
	return out
}
