package feedback

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

// @Summary      Review a class
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body feedback.CreateFeedbackRequest true "Review"
// @Success      201 {object} feedback.Feedback
// @Failure      400 {object} api.ErrorResponse "Unknown class or already reviewed"
// @Router       /feedback [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateFeedbackRequest
	if !api.BindJSON(c, &req) {
		return
	}

	f, err := h.service.Create(c.Request.Context(), access.ActorFrom(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}

// @Summary      List feedback
// @Description  Members see their own reviews, staff see reviews of classes they instruct.
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} feedback.Feedback
// @Router       /feedback [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), access.ActorFrom(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary      Get feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Feedback ID"
// @Success      200 {object} feedback.Feedback
// @Failure      404 {object} api.ErrorResponse
// @Router       /feedback/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	f, err := h.service.Get(c.Request.Context(), access.ActorFrom(c), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// @Summary      Update a review
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Feedback ID"
// @Param        request body feedback.UpdateReviewRequest true "Changes"
// @Success      200 {object} feedback.Feedback
// @Router       /feedback/{id}/update_review [patch]
func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if !api.BindJSON(c, &req) {
		return
	}

	f, err := h.service.UpdateReview(c.Request.Context(), access.ActorFrom(c), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// @Summary      Delete a review
// @Tags         feedback
// @Security     BearerAuth
// @Param        id path int true "Feedback ID"
// @Success      204
// @Router       /feedback/{id} [delete]
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
