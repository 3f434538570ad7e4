package server

import (
	"github.com/gin-gonic/gin"
	bookingdomain "github.com/railzwaylabs/supportdesk/internal/bookingfee/domain"
)

type bookingFeeRequest struct {
	Timeline string `json:"timeline"`
}

// @Summary      Booking Settings
// @Description  Current same-day and future-day booking fees
// @Tags         booking
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /booking-settings [get]
func (s *Server) GetBookingSettings(c *gin.Context) {
	respondData(c, s.bookingPolicy.Settings(c.Request.Context()))
}

// @Summary      Calculate Booking Fee
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body bookingFeeRequest true "Booking Fee Request"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /booking-fees [post]
func (s *Server) CalculateBookingFee(c *gin.Context) {
	var req bookingFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	fee, err := s.bookingPolicy.Fee(c.Request.Context(), bookingdomain.Timeline(req.Timeline))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, fee)
}
