package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/app"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/response"
)

// writeServiceError maps service sentinels onto the HTTP contract. Unmatched
// errors are internal: logged with the operation name, answered with a stable
// generic message.
func writeServiceError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
	case errors.Is(err, app.ErrNotOwner), errors.Is(err, app.ErrPathEscape):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	case errors.Is(err, app.ErrSessionNotFound),
		errors.Is(err, app.ErrSpaceNotFound),
		errors.Is(err, app.ErrFileNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrSpaceProcessing):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, op+" failed")
	}
}
