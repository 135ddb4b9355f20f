package report

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

func respond[T any](c *gin.Context, v T, err error) {
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// @Summary      Membership report
// @Description  Subscriptions and revenue per membership duration.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} report.MembershipReport
// @Failure      403 {object} api.ErrorResponse
// @Router       /reports/membership [get]
func (h *Handler) Memberships(c *gin.Context) {
	rows, err := h.service.Memberships(c.Request.Context(), access.ActorFrom(c))
	respond(c, rows, err)
}

// @Summary      Attendance report
// @Description  Present, absent and attendance rate per day and class, newest first.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} report.AttendanceReport
// @Router       /reports/attendance [get]
func (h *Handler) Attendance(c *gin.Context) {
	rows, err := h.service.Attendance(c.Request.Context(), access.ActorFrom(c))
	respond(c, rows, err)
}

// @Summary      Feedback report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} report.FeedbackReport
// @Router       /reports/feedback [get]
func (h *Handler) Feedback(c *gin.Context) {
	rows, err := h.service.Feedback(c.Request.Context(), access.ActorFrom(c))
	respond(c, rows, err)
}

// @Summary      Payment report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} report.PaymentReport
// @Router       /reports/payments [get]
func (h *Handler) Payments(c *gin.Context) {
	rep, err := h.service.Payments(c.Request.Context(), access.ActorFrom(c))
	respond(c, rep, err)
}
