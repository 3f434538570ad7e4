package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	pricerule "github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
)

type ReadinessState string

const (
	ReadinessStateReady    ReadinessState = "ready"
	ReadinessStateNotReady ReadinessState = "not_ready"
	ReadinessStateOptional ReadinessState = "optional"
)

type ReadinessIssue struct {
	ID             string            `json:"id"`
	Status         ReadinessState    `json:"status"`
	DependencyHint *string           `json:"dependency_hint,omitempty"`
	ActionHref     string            `json:"action_href"`
	Evidence       map[string]string `json:"evidence,omitempty"`
}

type ReadinessResponse struct {
	SystemState ReadinessState   `json:"system_state"`
	Issues      []ReadinessIssue `json:"issues"`
}

// @Summary      Configuration Readiness
// @Description  Reports whether the rule set covers every catalog category
// @Tags         system
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /readiness [get]
func (s *Server) GetReadiness(c *gin.Context) {
	ctx := c.Request.Context()
	issues := []ReadinessIssue{}
	isSystemReady := true

	// 1. Every catalog category has an active price rule whose category
	// matches it. The rule's service type does not count.
	rules, err := s.priceRuleSvc.List(ctx, pricerule.ListRequest{})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	covered := map[string]bool{}
	for _, r := range rules {
		if r.Status == pricerule.StatusActive {
			covered[strings.ToLower(r.Category)] = true
		}
	}
	var missing []string
	for _, svc := range s.catalog.List() {
		category := strings.ToLower(svc.Category)
		if !covered[category] && !slices.Contains(missing, category) {
			missing = append(missing, category)
		}
	}
	if len(missing) > 0 {
		isSystemReady = false
		issues = append(issues, ReadinessIssue{
			ID:         "price_rule_per_category",
			Status:     ReadinessStateNotReady,
			ActionHref: "/pricing-rules",
			Evidence:   map[string]string{"missing_categories": strings.Join(missing, ",")},
		})
	} else {
		issues = append(issues, ReadinessIssue{
			ID:         "price_rule_per_category",
			Status:     ReadinessStateReady,
			ActionHref: "/pricing-rules",
		})
	}

	// 2. A global commission rule is active.
	commissions, err := s.commissionSvc.List(ctx, commissiondomain.ListRequest{})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	hasGlobal := false
	for _, r := range commissions {
		if r.Status == commissiondomain.StatusActive && strings.EqualFold(r.Region, "global") {
			hasGlobal = true
			break
		}
	}
	if !hasGlobal {
		isSystemReady = false
		issues = append(issues, ReadinessIssue{
			ID:         "global_commission_rule",
			Status:     ReadinessStateNotReady,
			ActionHref: "/commission-rules",
			Evidence:   map[string]string{"active_rules": strconv.Itoa(len(commissions))},
		})
	} else {
		issues = append(issues, ReadinessIssue{
			ID:         "global_commission_rule",
			Status:     ReadinessStateReady,
			ActionHref: "/commission-rules",
		})
	}

	// 3. Booking fees: free booking is allowed but worth flagging.
	settings := s.bookingPolicy.Settings(ctx)
	if settings.SameDayFee.IsZero() && settings.FutureDayFee.IsZero() {
		issues = append(issues, ReadinessIssue{
			ID:         "booking_fees_configured",
			Status:     ReadinessStateOptional,
			ActionHref: "/booking-settings",
			Evidence:   map[string]string{"same_day_fee": "0.00", "future_day_fee": "0.00"},
		})
	} else {
		issues = append(issues, ReadinessIssue{
			ID:         "booking_fees_configured",
			Status:     ReadinessStateReady,
			ActionHref: "/booking-settings",
		})
	}

	state := ReadinessStateReady
	if !isSystemReady {
		state = ReadinessStateNotReady
	}
	c.JSON(http.StatusOK, gin.H{"data": ReadinessResponse{SystemState: state, Issues: issues}})
}
