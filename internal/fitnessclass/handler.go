package fitnessclass

import (
	"net/http"

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

// @Summary      List fitness classes
// @Description  Public. Includes how many places are still free.
// @Tags         classes
// @Produce      json
// @Success      200 {array} fitnessclass.ClassWithAvailability
// @Failure      500 {object} api.ErrorResponse
// @Router       /fitness-classes [get]
func (h *Handler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

// @Summary      Get a fitness class
// @Tags         classes
// @Produce      json
// @Param        id path int true "Class ID"
// @Success      200 {object} fitnessclass.FitnessClass
// @Failure      404 {object} api.ErrorResponse
// @Router       /fitness-classes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	fc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fc)
}

// @Summary      Create a fitness class
// @Description  Staff and admin only.
// @Tags         classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body fitnessclass.CreateClassRequest true "Class payload"
// @Success      201 {object} fitnessclass.FitnessClass
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /fitness-classes [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	fc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fc)
}

// @Summary      Update a fitness class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Class ID"
// @Param        request body fitnessclass.UpdateClassRequest true "Fields to change"
// @Success      200 {object} fitnessclass.FitnessClass
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /fitness-classes/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	fc, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fc)
}

// @Summary      Delete a fitness class
// @Tags         classes
// @Security     BearerAuth
// @Param        id path int true "Class ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /fitness-classes/{id} [delete]
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
