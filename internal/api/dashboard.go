package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/store"
)

type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// GetState returns the whole current snapshot
func (h *DashboardHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, projection.Dashboard(h.store.Snapshot(), h.store.Now()))
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (h *DashboardHandler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.store.SetTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

func (h *DashboardHandler) ToggleSidebar(c *gin.Context) {
	collapsed, err := h.store.ToggleSidebar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sidebarCollapsed": collapsed})
}
