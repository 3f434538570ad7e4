package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
)

// @Summary      List Commission Rules
// @Description  List commission rules, optionally sorted by name or region
// @Tags         commission-rules
// @Produce      json
// @Param        sort  query  string  false  "none, name or category (region)"
// @Success      200  {object}  ListResponse
// @Router       /commission-rules [get]
func (s *Server) ListCommissionRules(c *gin.Context) {
	order, err := sortutil.ParseOrder(c.Query("sort"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.commissionSvc.List(c.Request.Context(), commissiondomain.ListRequest{Sort: order})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items)
}

// @Summary      Create Commission Rule
// @Tags         commission-rules
// @Accept       json
// @Produce      json
// @Param        request body commissiondomain.CreateRequest true "Create Commission Rule Request"
// @Success      201  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /commission-rules [post]
func (s *Server) CreateCommissionRule(c *gin.Context) {
	var req commissiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.commissionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

// @Summary      Get Commission Rule
// @Tags         commission-rules
// @Produce      json
// @Param        id   path      string  true  "Commission Rule ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /commission-rules/{id} [get]
func (s *Server) GetCommissionRule(c *gin.Context) {
	resp, err := s.commissionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Commission Rule
// @Description  Partially update a commission rule; omitted fields are kept
// @Tags         commission-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Commission Rule ID"
// @Param        request body commissiondomain.UpdateRequest true "Update Commission Rule Request"
// @Success      200  {object}  DataResponse
// @Router       /commission-rules/{id} [put]
func (s *Server) UpdateCommissionRule(c *gin.Context) {
	var req commissiondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	resp, err := s.commissionSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Commission Rule
// @Tags         commission-rules
// @Param        id   path      string  true  "Commission Rule ID"
// @Success      204
// @Router       /commission-rules/{id} [delete]
func (s *Server) DeleteCommissionRule(c *gin.Context) {
	if err := s.commissionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
