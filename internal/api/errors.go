package api

import (
	"net/http"
	"strconv"

	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/logger"

	"github.com/gin-gonic/gin"
)

func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Authorization:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict, apperr.State:
		return http.StatusConflict
	case apperr.Gateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as {"error": ...}. Unclassified errors are logged
// and reported as a generic 500.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.WithError(err).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if kind == apperr.Gateway {
		logger.WithError(err).Warn("payment gateway failure", "path", c.FullPath())
	}
	c.AbortWithStatusJSON(StatusOf(kind), ErrorResponse{Error: apperr.Message(err)})
}

// ParamID reads a positive integer path parameter, answering 400 when it is not one.
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}
