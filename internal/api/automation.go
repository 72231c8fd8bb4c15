package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
)

// WarmerHandler manages warmer sessions between clients
type WarmerHandler struct {
	resource[models.WarmerSession]
	store *store.Store
	svc   *service.Service
}

func NewWarmerHandler(s *store.Store, svc *service.Service) *WarmerHandler {
	return &WarmerHandler{
		resource: resource[models.WarmerSession]{
			name:   "Warmer session",
			now:    s.Now,
			get:    s.WarmerSession,
			add:    s.AddWarmerSession,
			update: s.UpdateWarmerSession,
			remove: s.RemoveWarmerSession,
			prepare: func(w *models.WarmerSession, now time.Time) string {
				assignID(&w.ID)
				if w.Status == "" {
					w.Status = models.WarmerActive
				}
				if w.StartedAt.IsZero() {
					w.StartedAt = now
				}
				return w.ID
			},
		},
		store: s,
		svc:   svc,
	}
}

func (h *WarmerHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, projection.WarmerSessions(h.store.Snapshot().WarmerSessions, c.Query("status")))
}

func (h *WarmerHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, projection.WarmerSummary(h.store.Snapshot().WarmerSessions))
}

// Progress reports elapsed time and message rate of every session
func (h *WarmerHandler) Progress(c *gin.Context) {
	snap := h.store.Snapshot()
	now := h.store.Now()
	progress := make([]projection.WarmerProgress, 0, len(snap.WarmerSessions))
	for _, w := range snap.WarmerSessions {
		progress = append(progress, projection.SessionProgress(w, snap.Clients, now))
	}
	c.JSON(http.StatusOK, progress)
}

func (h *WarmerHandler) setStatus(status models.WarmerStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := h.svc.SetWarmerStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, w)
	}
}

func (h *WarmerHandler) Pause() gin.HandlerFunc  { return h.setStatus(models.WarmerPaused) }
func (h *WarmerHandler) Resume() gin.HandlerFunc { return h.setStatus(models.WarmerActive) }
func (h *WarmerHandler) Stop() gin.HandlerFunc   { return h.setStatus(models.WarmerCompleted) }
