package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricerule "github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
)

// @Summary      List Pricing Rules
// @Description  List pricing rules, optionally sorted by name or category
// @Tags         pricing-rules
// @Produce      json
// @Param        sort  query  string  false  "none, name or category"
// @Success      200  {object}  ListResponse
// @Router       /pricing-rules [get]
func (s *Server) ListPriceRules(c *gin.Context) {
	order, err := sortutil.ParseOrder(c.Query("sort"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.priceRuleSvc.List(c.Request.Context(), pricerule.ListRequest{Sort: order})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items)
}

// @Summary      Create Pricing Rule
// @Tags         pricing-rules
// @Accept       json
// @Produce      json
// @Param        request body pricerule.CreateRequest true "Create Pricing Rule Request"
// @Success      201  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /pricing-rules [post]
func (s *Server) CreatePriceRule(c *gin.Context) {
	var req pricerule.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.priceRuleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

// @Summary      Get Pricing Rule
// @Tags         pricing-rules
// @Produce      json
// @Param        id   path      string  true  "Pricing Rule ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /pricing-rules/{id} [get]
func (s *Server) GetPriceRule(c *gin.Context) {
	resp, err := s.priceRuleSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Pricing Rule
// @Description  Partially update a pricing rule; omitted fields are kept
// @Tags         pricing-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Pricing Rule ID"
// @Param        request body pricerule.UpdateRequest true "Update Pricing Rule Request"
// @Success      200  {object}  DataResponse
// @Router       /pricing-rules/{id} [put]
func (s *Server) UpdatePriceRule(c *gin.Context) {
	var req pricerule.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	resp, err := s.priceRuleSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Pricing Rule
// @Tags         pricing-rules
// @Param        id   path      string  true  "Pricing Rule ID"
// @Success      204
// @Router       /pricing-rules/{id} [delete]
func (s *Server) DeletePriceRule(c *gin.Context) {
	if err := s.priceRuleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
