package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
)

// InboxHandler serves conversation threads
type InboxHandler struct {
	resource[models.Conversation]
	store *store.Store
	svc   *service.Service
}

func NewInboxHandler(s *store.Store, svc *service.Service) *InboxHandler {
	return &InboxHandler{
		resource: resource[models.Conversation]{
			name:   "Conversation",
			now:    s.Now,
			get:    s.Conversation,
			add:    s.AddConversation,
			update: s.UpdateConversation,
			remove: s.RemoveConversation,
			prepare: func(conv *models.Conversation, now time.Time) string {
				assignID(&conv.ID)
				if conv.UpdatedAt.IsZero() {
					conv.UpdatedAt = now
				}
				return conv.ID
			},
		},
		store: s,
		svc:   svc,
	}
}

// optionalBool parses a query flag; absent or malformed means no filter
func optionalBool(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

func (h *InboxHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, projection.Conversations(h.store.Snapshot().Conversations, projection.ConversationQuery{
		Search:      c.Query("search"),
		ClientID:    c.Query("clientId"),
		Archived:    optionalBool(c, "archived"),
		Pinned:      optionalBool(c, "pinned"),
		PinnedFirst: true,
	}))
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

func (h *InboxHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.svc.SendMessage(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *InboxHandler) MarkRead(c *gin.Context) {
	conv, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}
