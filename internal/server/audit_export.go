package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
)

const maxExportWindow = 90 * 24 * time.Hour

// @Summary      Export Audit Logs
// @Description  Download rule changes for a date range as CSV or JSON
// @Tags         audit
// @Produce      text/csv
// @Produce      json
// @Param        start_date  query  string  true   "YYYY-MM-DD"
// @Param        end_date    query  string  true   "YYYY-MM-DD, inclusive"
// @Param        format      query  string  false  "csv or json"
// @Param        kinds       query  string  false  "Comma separated rule kinds: price_rule, commission_rule"
// @Param        actions     query  string  false  "Comma separated actions"
// @Success      200
// @Router       /audit-logs/export [get]
func (s *Server) ExportAuditLogs(c *gin.Context) {
	startDateStr := strings.TrimSpace(c.Query("start_date"))
	endDateStr := strings.TrimSpace(c.Query("end_date"))
	formatStr := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))
	actionsStr := strings.TrimSpace(c.Query("actions"))

	kinds, unknown, ok := auditdomain.ParseRuleKinds(c.Query("kinds"))
	if !ok {
		AbortWithError(c, apperror.Validation("kinds", "unknown rule kind "+unknown))
		return
	}

	startDate, err := time.Parse(time.DateOnly, startDateStr)
	if err != nil {
		AbortWithError(c, apperror.Validation("start_date", "must be YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse(time.DateOnly, endDateStr)
	if err != nil {
		AbortWithError(c, apperror.Validation("end_date", "must be YYYY-MM-DD"))
		return
	}

	// end_date is inclusive
	endDate = endDate.Add(24 * time.Hour)
	if endDate.Sub(startDate) > maxExportWindow {
		AbortWithError(c, apperror.Validation("end_date", "range must not exceed 90 days"))
		return
	}

	var actions []string
	if actionsStr != "" {
		for _, a := range strings.Split(actionsStr, ",") {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, a)
			}
		}
	}

	result, err := s.auditExportSvc.Export(c.Request.Context(), auditdomain.ExportRequest{
		From:    startDate,
		To:      endDate,
		Format:  auditdomain.ExportFormat(formatStr),
		Kinds:   kinds,
		Actions: actions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("X-Audit-Export-Checksum", result.Checksum)
	c.Header("X-Audit-Export-Count", strconv.Itoa(result.Count))

	contentType := "text/csv"
	if result.Format == auditdomain.ExportFormatJSON {
		contentType = "application/json"
	}
	filename := "audit_export_" + startDateStr + "_" + endDateStr + "." + string(result.Format)

	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, contentType, result.Data)
}
