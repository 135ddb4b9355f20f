package attendance

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

// @Summary      Mark attendance
// @Description  Staff mark members of classes they instruct; admins mark any class.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body attendance.CreateAttendanceRequest true "Attendance"
// @Success      201 {object} attendance.Attendance
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /attendance [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateAttendanceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Create(c.Request.Context(), access.ActorFrom(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// @Summary      List attendance
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} attendance.Attendance
// @Router       /attendance [get]
func (h *Handler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context(), access.ActorFrom(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// @Summary      Get an attendance record
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attendance ID"
// @Success      200 {object} attendance.Attendance
// @Failure      404 {object} api.ErrorResponse
// @Router       /attendance/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), access.ActorFrom(c), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// @Summary      Update an attendance record
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attendance ID"
// @Param        request body attendance.UpdateAttendanceRequest true "Changes"
// @Success      200 {object} attendance.Attendance
// @Router       /attendance/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateAttendanceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Update(c.Request.Context(), access.ActorFrom(c), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}
