package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// System serves health and client configuration endpoints.
type System struct {
	mapsAPIKey string
	now        func() time.Time
}

func NewSystem(mapsAPIKey string) *System {
	return &System{mapsAPIKey: mapsAPIKey, now: time.Now}
}

func (h *System) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// MapsKey hands the configured map provider key to the browser client.
func (h *System) MapsKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"apiKey": h.mapsAPIKey})
}

// NotFound answers unknown routes.
func (h *System) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{Error: "Route not found"})
}
