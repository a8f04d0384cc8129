package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"products-service/internal/core/logger"
	"products-service/internal/core/serviceerrors"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError translates service errors to HTTP responses. Errors without a
// kind are unexpected, so they are logged and masked as a plain 500.
func HandleError(c *gin.Context, err error) {
	var svcErr *serviceerrors.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(mapKindToHTTP(svcErr.Kind), ErrorResponse{Error: svcErr.Message})
		return
	}

	logger.Error(c.Request.Context(), "unhandled error", err, map[string]any{
		"http.route": c.FullPath(),
	})
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func mapKindToHTTP(kind serviceerrors.ErrorKind) int {
	switch kind {
	case serviceerrors.KindNotFound:
		return http.StatusNotFound
	case serviceerrors.KindConflict:
		return http.StatusConflict
	case serviceerrors.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case serviceerrors.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
