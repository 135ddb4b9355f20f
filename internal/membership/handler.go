package membership

import (
	"net/http"

	"github.com/alaminmiah4274/iron-temple/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List membership plans
// @Tags         memberships
// @Produce      json
// @Success      200 {array} membership.Membership
// @Router       /memberships [get]
func (h *Handler) List(c *gin.Context) {
	memberships, err := h.service.List(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, memberships)
}

// @Summary      Get a membership plan
// @Tags         memberships
// @Produce      json
// @Param        id path int true "Membership ID"
// @Success      200 {object} membership.Membership
// @Failure      404 {object} api.ErrorResponse
// @Router       /memberships/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Create a membership plan
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body membership.CreateMembershipRequest true "Plan"
// @Success      201 {object} membership.Membership
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /memberships [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateMembershipRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary      Update a membership plan
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Membership ID"
// @Param        request body membership.UpdateMembershipRequest true "Fields to change"
// @Success      200 {object} membership.Membership
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /memberships/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateMembershipRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Delete a membership plan
// @Tags         memberships
// @Security     BearerAuth
// @Param        id path int true "Membership ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /memberships/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
