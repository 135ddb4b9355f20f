package booking

import (
	"net/http"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Book a fitness class
// @Description  Reserves a place for the caller. booking_date defaults to today.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CreateBookingRequest true "Booking payload"
// @Success      201 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse "Past class, full class or duplicate booking"
// @Failure      401 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), access.ActorFrom(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// @Summary      List bookings
// @Description  Members see their own bookings, staff see bookings for classes they instruct.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} booking.Booking
// @Failure      401 {object} api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) List(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), access.ActorFrom(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Success      200 {object} booking.Booking
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), access.ActorFrom(c), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Update booking status
// @Description  Owner or admin.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Param        request body booking.UpdateStatusRequest true "New status"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id}/update_status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), access.ActorFrom(c), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Delete a booking
// @Description  Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Success      204
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), access.ActorFrom(c), id); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
