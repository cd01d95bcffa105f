package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/flourmill/backend/internal/infrastructure/persistence"
	"github.com/flourmill/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles health and system information endpoints.
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// HealthResponse reports service and database health
// @name HandlerHealthResponse
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports service liveness and database connectivity
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "ok"}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
			return
		}
	}

	h.Success(c, resp)
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string                 `json:"name" example:"Flour Mill Backend API"`
	Version   string                 `json:"version" example:"1.0.0"`
	GoVersion string                 `json:"go_version" example:"go1.25.5"`
	Uptime    string                 `json:"uptime" example:"1h30m45s"`
	DBPool    *persistence.PoolStats `json:"db_pool,omitempty"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	resp := SystemInfoResponse{
		Name:      "Flour Mill Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.db != nil {
		if stats, err := h.db.Stats(); err == nil {
			resp.DBPool = &stats
		}
	}
	h.Success(c, resp)
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-08-30T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
