package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/db"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

func statusOf(err error) int {
	var cfgErr *common.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, w1.ErrSensorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, w1.ErrSensorReadInvalid), errors.Is(err, w1.ErrSensorFormat):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).
			Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
