package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/portfolio-site/internal/api/handler/v1/response"
)

var startedAt = time.Now()

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.HealthResponse
// @Router       /health [get]
func HandleHealthcheck(ctx *gin.Context) {
	now := time.Now()

	ctx.JSON(http.StatusOK, response.HealthResponse{
		Status:    "OK",
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Uptime:    now.Sub(startedAt).Seconds(),
	})
}
