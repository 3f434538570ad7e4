// Package authorization decides which actor roles may touch which resources.
// The role arrives from the upstream gateway; this service does not
// authenticate anyone.
package authorization

import (
	"errors"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ObjectRules    = "rules"
	ObjectQuotes   = "quotes"
	ObjectBooking  = "booking"
	ObjectAuditLog = "audit_logs"

	ActionRead  = "read"
	ActionWrite = "write"
)

var ErrForbidden = errors.New("forbidden")

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// defaultPolicies grants viewers read access and quoting; admins inherit that
// and may write rules and export the audit trail.
var defaultPolicies = [][]string{
	{RoleViewer, ObjectRules, ActionRead},
	{RoleViewer, ObjectQuotes, ActionRead},
	{RoleViewer, ObjectBooking, ActionRead},
	{RoleAdmin, ObjectRules, ActionWrite},
	{RoleAdmin, ObjectAuditLog, ActionRead},
}

var defaultGroupings = [][]string{
	{RoleAdmin, RoleViewer},
	{RoleSystem, RoleAdmin},
}

var Module = fx.Module("authorization",
	fx.Provide(NewAuthorizer),
)

type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
	log      *zap.Logger
}

func NewAuthorizer(log *zap.Logger) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(defaultGroupings); err != nil {
		return nil, fmt.Errorf("load role groupings: %w", err)
	}
	return &Authorizer{enforcer: e, log: log.Named("authorization")}, nil
}

// Authorize returns ErrForbidden when role may not perform act on obj.
func (a *Authorizer) Authorize(role, obj, act string) error {
	ok, err := a.enforcer.Enforce(role, obj, act)
	if err != nil {
		return fmt.Errorf("enforce: %w", err)
	}
	if !ok {
		a.log.Debug("access denied",
			zap.String("role", role),
			zap.String("object", obj),
			zap.String("action", act),
		)
		return ErrForbidden
	}
	return nil
}
