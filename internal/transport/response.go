package transport

import (
	"net/http"
	"time"

	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// apiError представляет тело ответа с ошибкой
type apiError struct {
	Errors    []string `json:"errors"`
	Message   string   `json:"message"`
	Reason    string   `json:"reason"`
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
}

func newAPIError(status, reason, message string) apiError {
	return apiError{
		Errors:    []string{},
		Message:   message,
		Reason:    reason,
		Status:    status,
		Timestamp: time.Now().Format(entity.EventTimeLayout),
	}
}

// respondError переводит ошибку сервиса в HTTP-ответ по её семейству
func respondError(c *gin.Context, err error) {
	switch {
	case entity.IsNotFound(err):
		c.JSON(http.StatusNotFound, newAPIError(
			"NOT_FOUND", "The required object was not found.", err.Error()))
	case entity.IsValidation(err):
		c.JSON(http.StatusBadRequest, newAPIError(
			"BAD_REQUEST", "Incorrectly made request.", err.Error()))
	case entity.IsConflict(err):
		c.JSON(http.StatusConflict, newAPIError(
			"CONFLICT", "Integrity constraint has been violated.", err.Error()))
	case entity.IsForbidden(err):
		c.JSON(http.StatusForbidden, newAPIError(
			"FORBIDDEN", "For the requested operation the conditions are not met.", err.Error()))
	default:
		logrus.WithError(err).Error("необработанная ошибка сервиса")
		c.JSON(http.StatusInternalServerError, newAPIError(
			"INTERNAL_SERVER_ERROR", "Internal server error.", err.Error()))
	}
}

// respondBadRequest отвечает на ошибки разбора запроса
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, newAPIError(
		"BAD_REQUEST", "Incorrectly made request.", message))
}
