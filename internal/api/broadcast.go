package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
	"whatsapp-dashboard/internal/whatsapp"
)

// CampaignHandler manages blast campaigns
type CampaignHandler struct {
	resource[models.Campaign]
	store *store.Store
	svc   *service.Service
}

func NewCampaignHandler(s *store.Store, svc *service.Service) *CampaignHandler {
	return &CampaignHandler{
		resource: resource[models.Campaign]{
			name:    "Campaign",
			now:     s.Now,
			get:     s.Campaign,
			add:     s.AddCampaign,
			update:  s.UpdateCampaign,
			remove:  s.RemoveCampaign,
			prepare: prepareCampaign,
		},
		store: s,
		svc:   svc,
	}
}

func prepareCampaign(c *models.Campaign, now time.Time) string {
	assignID(&c.ID)
	if c.Status == "" {
		c.Status = models.CampaignDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.Targets == nil {
		c.Targets = []models.BlastTarget{}
	}
	if c.ClientIDs == nil {
		c.ClientIDs = []string{}
	}
	for i := range c.Targets {
		assignID(&c.Targets[i].ID)
		if c.Targets[i].Status == "" {
			c.Targets[i].Status = models.TargetPending
		}
	}
	if len(c.Targets) > 0 && c.Stats == (models.BlastStats{}) {
		c.Stats = whatsapp.StatsOf(c.Targets)
	}
	return c.ID
}

func (h *CampaignHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, projection.Campaigns(h.store.Snapshot().Campaigns, projection.CampaignQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Desc:   descending(c),
	}))
}

func (h *CampaignHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, projection.CampaignSummary(h.store.Snapshot().Campaigns))
}

func (h *CampaignHandler) Progress(c *gin.Context) {
	campaign, ok := h.store.Campaign(c.Param("id"))
	if !ok {
		notFound(c, h.name)
		return
	}
	c.JSON(http.StatusOK, projection.Progress(campaign, h.store.Snapshot().Clients))
}

func (h *CampaignHandler) Start(c *gin.Context) {
	campaign, err := h.svc.StartCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// TemplateHandler manages reusable message templates
type TemplateHandler struct {
	resource[models.MessageTemplate]
	store *store.Store
}

func NewTemplateHandler(s *store.Store) *TemplateHandler {
	return &TemplateHandler{
		resource: resource[models.MessageTemplate]{
			name:   "Template",
			now:    s.Now,
			get:    s.Template,
			add:    s.AddTemplate,
			update: s.UpdateTemplate,
			remove: s.RemoveTemplate,
			prepare: func(t *models.MessageTemplate, now time.Time) string {
				assignID(&t.ID)
				if t.CreatedAt.IsZero() {
					t.CreatedAt = now
				}
				if len(t.Variables) == 0 {
					t.Variables = projection.ExtractVariables(t.Content)
				}
				return t.ID
			},
			beforeUpdate: func(patch store.Patch, _ time.Time) {
				deriveVariables(patch, "content")
			},
		},
		store: s,
	}
}

// deriveVariables refreshes the variables of a patch that changes the text
// in field, unless the patch sets them explicitly.
func deriveVariables(patch store.Patch, field string) {
	text, ok := patch[field].(string)
	if !ok {
		return
	}
	if _, explicit := patch["variables"]; !explicit {
		patch["variables"] = projection.ExtractVariables(text)
	}
}

func (h *TemplateHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, projection.Templates(h.store.Snapshot().Templates, c.Query("search")))
}

type RenderRequest struct {
	Values map[string]string `json:"values"`
}

// Render fills the template's placeholders and lists those left without a value
func (h *TemplateHandler) Render(c *gin.Context) {
	t, ok := h.store.Template(c.Param("id"))
	if !ok {
		notFound(c, h.name)
		return
	}
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content": projection.Render(t.Content, req.Values),
		"missing": projection.MissingVariables(t.Content, req.Values),
	})
}
