package payment

import (
	"net/http"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/api"
	"github.com/alaminmiah4274/iron-temple/internal/gateway"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func paramUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary      Start a checkout
// @Description  Records a pending payment for an active subscription and returns the gateway checkout URL.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.InitiateRequest true "Subscription to pay for"
// @Success      200 {object} api.RedirectResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse "Subscription is not active"
// @Failure      502 {object} api.ErrorResponse "Gateway unavailable"
// @Router       /payment/initiate [post]
func (h *Handler) Initiate(c *gin.Context) {
	var req InitiateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	pageURL, err := h.service.Initiate(c.Request.Context(), access.ActorFrom(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.RedirectResponse{URL: pageURL})
}

// @Summary      Gateway success callback
// @Description  Signed callback posted by the gateway. Marks the subscription PAID and redirects to the client.
// @Description  verify_sign is the MD5 of the verify_key fields plus md5(store password), sorted by name.
// @Tags         payments
// @Accept       x-www-form-urlencoded
// @Param        tran_id formData string true "txn_<subscription id>"
// @Param        amount formData string true "Paid amount"
// @Param        status formData string false "Gateway status"
// @Param        verify_key formData string true "Comma separated names of the signed fields"
// @Param        verify_sign formData string true "MD5 signature"
// @Success      302
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse "Bad signature"
// @Router       /payment/success [post]
func (h *Handler) Success(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid callback"})
		return
	}

	cb, err := gateway.CallbackFromForm(c.Request.PostForm)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid callback"})
		return
	}

	if err := h.service.HandleSuccess(c.Request.Context(), cb); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.service.RedirectURL())
}

// @Summary      Gateway fail or cancel callback
// @Tags         payments
// @Success      302
// @Router       /payment/fail [post]
// @Router       /payment/cancel [post]
func (h *Handler) Abandon(c *gin.Context) {
	c.Redirect(http.StatusFound, h.service.RedirectURL())
}

// @Summary      Record a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.CreatePaymentRequest true "Payment"
// @Success      201 {object} payment.Payment
// @Failure      403 {object} api.ErrorResponse
// @Router       /payments [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreateRecord(c.Request.Context(), access.ActorFrom(c), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} payment.Payment
// @Router       /payments [get]
func (h *Handler) List(c *gin.Context) {
	payments, err := h.service.List(c.Request.Context(), access.ActorFrom(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment ID"
// @Success      200 {object} payment.Payment
// @Failure      404 {object} api.ErrorResponse
// @Router       /payments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), access.ActorFrom(c), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Update payment status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment ID"
// @Param        request body payment.UpdateStatusRequest true "New status"
// @Success      200 {object} payment.Payment
// @Router       /payments/{id} [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdateStatus(c.Request.Context(), access.ActorFrom(c), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a payment
// @Tags         payments
// @Security     BearerAuth
// @Param        id path string true "Payment ID"
// @Success      204
// @Router       /payments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), access.ActorFrom(c), id); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Has the caller ever subscribed to a membership
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Membership ID"
// @Success      200 {object} payment.HasSubscribedResponse
// @Router       /memberships/{id}/has_subscribed [get]
func (h *Handler) HasSubscribed(c *gin.Context) {
	membershipID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	subscribed, err := h.service.HasSubscribed(c.Request.Context(), access.ActorFrom(c), membershipID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, HasSubscribedResponse{HasSubscribed: subscribed})
}
