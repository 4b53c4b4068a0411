package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SessionHandler struct {
	service service.MemeService
}

func NewSessionHandler(service service.MemeService) *SessionHandler {
	return &SessionHandler{service: service}
}

// writeError maps domain errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrNoImage), errors.Is(err, entity.ErrStaleUpload):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrDecode):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrUnknownPlatform), errors.Is(err, entity.ErrUnknownSurface):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUploadTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
