package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dtroode/pinmap-server/internal/apierror"
	"github.com/dtroode/pinmap-server/internal/logger"
	"github.com/dtroode/pinmap-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError writes err as {"error": message}. Only APIError messages reach
// the client; anything else is logged and reported as an internal error.
func handleError(c *gin.Context, logger *logger.Logger, err error) {
	_ = c.Error(err)

	if apiErr, ok := apierror.As(err); ok {
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), errorResponse{Error: apiErr.Message})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
		return
	}

	logger.Error("HTTP handler: unexpected error",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err.Error())
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: apierror.NewInternal().Message})
}

func invalidBody() *apierror.APIError {
	return apierror.NewValidation("invalid request body")
}

// bindJSON decodes the request body into req and applies its binding tags.
// Rule violations are reported through req's bindingMessage when it has one.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalidBody()
	}
	if r, ok := req.(interface {
		bindingMessage(fe validator.FieldError) string
	}); ok {
		return apierror.NewValidation(r.bindingMessage(fieldErrs[0]))
	}
	return invalidBody()
}
