package authorization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthorize(t *testing.T) {
	a, err := NewAuthorizer(zap.NewNop())
	require.NoError(t, err)

	cases := []struct {
		role, obj, act string
		allowed        bool
	}{
		{RoleViewer, ObjectRules, ActionRead, true},
		{RoleViewer, ObjectQuotes, ActionRead, true},
		{RoleViewer, ObjectRules, ActionWrite, false},
		{RoleViewer, ObjectAuditLog, ActionRead, false},
		{RoleAdmin, ObjectRules, ActionWrite, true},
		{RoleAdmin, ObjectQuotes, ActionRead, true},
		{RoleAdmin, ObjectAuditLog, ActionRead, true},
		{RoleSystem, ObjectRules, ActionWrite, true},
		{"intruder", ObjectRules, ActionRead, false},
	}
	for _, tc := range cases {
		err := a.Authorize(tc.role, tc.obj, tc.act)
		if tc.allowed {
			assert.NoError(t, err, "%s %s %s", tc.role, tc.obj, tc.act)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s %s %s", tc.role, tc.obj, tc.act)
		}
	}
}

func TestRoleFromContext(t *testing.T) {
	assert.Equal(t, RoleViewer, RoleFromContext(context.Background()))
	assert.Equal(t, RoleViewer, RoleFromContext(WithRole(context.Background(), "  ")))
	assert.Equal(t, RoleAdmin, RoleFromContext(WithRole(context.Background(), " Admin ")))
}
