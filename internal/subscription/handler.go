package subscription

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

// @Summary      Subscribe to a membership
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.CreateSubscriptionRequest true "Membership to subscribe to"
// @Success      201 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse "Unknown membership or already subscribed"
// @Failure      401 {object} api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req CreateSubscriptionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), access.ActorFrom(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// @Summary      List subscriptions
// @Description  Members see their own, staff see cancelled and expired ones.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.Subscription
// @Router       /subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	subs, err := h.service.List(c.Request.Context(), access.ActorFrom(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      Get a subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.Get(c.Request.Context(), access.ActorFrom(c), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Update subscription status
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Param        request body subscription.UpdateStatusRequest true "New status"
// @Success      200 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse "Subscription is not active"
// @Router       /subscriptions/{id}/update_status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.UpdateStatus(c.Request.Context(), access.ActorFrom(c), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Delete a subscription
// @Description  Admins delete any subscription, staff only cancelled or expired ones.
// @Tags         subscriptions
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      204
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{id} [delete]
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
