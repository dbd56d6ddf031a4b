package server

import (
	"net/http"

	"draw-guess/internal/game"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error) {
	domainErr := asDomainError(err)
	c.JSON(statusFor(domainErr.Kind), gin.H{"error": domainErr})
}

func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindValidation:
		return http.StatusBadRequest
	case game.KindRoomNotFound:
		return http.StatusNotFound
	case game.KindRateLimited:
		return http.StatusTooManyRequests
	case game.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}
