package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
)

// AIHandler serves the assistant: conversations, settings and prompt templates
type AIHandler struct {
	store   *store.Store
	svc     *service.Service
	prompts resource[models.AIPromptTemplate]
}

func NewAIHandler(s *store.Store, svc *service.Service) *AIHandler {
	return &AIHandler{
		store: s,
		svc:   svc,
		prompts: resource[models.AIPromptTemplate]{
			name:   "Prompt template",
			now:    s.Now,
			get:    s.PromptTemplate,
			add:    s.AddPromptTemplate,
			update: s.UpdatePromptTemplate,
			remove: s.RemovePromptTemplate,
			prepare: func(p *models.AIPromptTemplate, now time.Time) string {
				assignID(&p.ID)
				if p.Category == "" {
					p.Category = models.CategoryOther
				}
				if p.CreatedAt.IsZero() {
					p.CreatedAt = now
				}
				if len(p.Variables) == 0 {
					p.Variables = projection.ExtractVariables(p.Prompt)
				}
				return p.ID
			},
			beforeUpdate: func(patch store.Patch, _ time.Time) {
				deriveVariables(patch, "prompt")
			},
		},
	}
}

func (h *AIHandler) ListPrompts(c *gin.Context) {
	c.JSON(http.StatusOK, projection.PromptTemplates(h.store.Snapshot().PromptTemplates, projection.PromptQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}))
}

// ListConversations returns assistant conversations, most recently updated first
func (h *AIHandler) ListConversations(c *gin.Context) {
	convs := slices.Clone(h.store.Snapshot().AIConversations)
	slices.SortStableFunc(convs, func(a, b models.AIConversation) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	c.JSON(http.StatusOK, convs)
}

func (h *AIHandler) GetConversation(c *gin.Context) {
	conv, ok := h.store.AIConversation(c.Param("id"))
	if !ok {
		notFound(c, "Conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *AIHandler) DeleteConversation(c *gin.Context) {
	removed, err := h.store.RemoveAIConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		notFound(c, "Conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Conversation deleted"})
}

type AskRequest struct {
	Message string `json:"message"`
}

// StartConversation opens a conversation with its first question
func (h *AIHandler) StartConversation(c *gin.Context) {
	h.ask(c, "", http.StatusCreated)
}

func (h *AIHandler) SendMessage(c *gin.Context) {
	h.ask(c, c.Param("id"), http.StatusOK)
}

func (h *AIHandler) ask(c *gin.Context, conversationID string, status int) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	conv, err := h.svc.AskAssistant(c.Request.Context(), conversationID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, conv)
}

func (h *AIHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().AISettings)
}

func (h *AIHandler) UpdateSettings(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	settings, err := h.store.UpdateAISettings(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
