package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/service"
	"github.com/rs/zerolog/log"
)

// respondError maps the service error taxonomy onto HTTP status codes. The message is passed through as is.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Request failed")
	}
	ctx.JSON(status, dto.ErrorResponse{Success: false, Error: err.Error()})
}

func badRequest(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: msg})
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
