package api

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/export"
	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
)

// ClientHandler manages WhatsApp accounts and their device pairing
type ClientHandler struct {
	resource[models.Client]
	store *store.Store
	svc   *service.Service
}

func NewClientHandler(s *store.Store, svc *service.Service) *ClientHandler {
	return &ClientHandler{
		resource: resource[models.Client]{
			name:   "Client",
			now:    s.Now,
			get:    s.Client,
			add:    s.AddClient,
			update: s.UpdateClient,
			remove: s.RemoveClient,
			prepare: func(cl *models.Client, _ time.Time) string {
				assignID(&cl.ID)
				if cl.Status == "" {
					cl.Status = models.ClientDisconnected
				}
				return cl.ID
			},
		},
		store: s,
		svc:   svc,
	}
}

func (h *ClientHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, projection.Clients(h.store.Snapshot().Clients, projection.ClientQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Desc:   descending(c),
	}))
}

func (h *ClientHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, projection.ClientSummary(h.store.Snapshot().Clients))
}

// Usage reports each client's share of its daily limit
func (h *ClientHandler) Usage(c *gin.Context) {
	clients := h.store.Snapshot().Clients
	usage := make([]projection.ClientUsage, 0, len(clients))
	for _, cl := range clients {
		usage = append(usage, projection.Usage(cl))
	}
	c.JSON(http.StatusOK, usage)
}

func (h *ClientHandler) Connect(c *gin.Context) {
	client, err := h.svc.ConnectClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Disconnect(c *gin.Context) {
	client, err := h.svc.DisconnectClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// NumberCheckHandler validates phone numbers against WhatsApp
type NumberCheckHandler struct {
	store *store.Store
	svc   *service.Service
}

func NewNumberCheckHandler(s *store.Store, svc *service.Service) *NumberCheckHandler {
	return &NumberCheckHandler{store: s, svc: svc}
}

type CheckNumberRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

func (h *NumberCheckHandler) Check(c *gin.Context) {
	var req CheckNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	check, err := h.svc.CheckNumber(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// BulkCheckRequest takes numbers as a list, as newline-separated text, or both
type BulkCheckRequest struct {
	PhoneNumbers []string `json:"phoneNumbers"`
	Numbers      string   `json:"numbers"`
}

func (h *NumberCheckHandler) CheckBulk(c *gin.Context) {
	var req BulkCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	phones := req.PhoneNumbers
	if req.Numbers != "" {
		parsed, err := export.ParseNumberList(strings.NewReader(req.Numbers))
		if err != nil {
			badRequest(c, err)
			return
		}
		phones = append(phones, parsed...)
	}
	h.checkAll(c, phones)
}

// Upload checks the numbers of an uploaded .csv (first column) or .txt (one per line) file
func (h *NumberCheckHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()

	var phones []string
	if strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		phones, err = export.ParseNumbersCSV(f)
	} else {
		phones, err = export.ParseNumberList(f)
	}
	if err != nil {
		badRequest(c, err)
		return
	}
	h.checkAll(c, phones)
}

func (h *NumberCheckHandler) checkAll(c *gin.Context, phones []string) {
	checks, err := h.svc.CheckNumbers(c.Request.Context(), phones)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": checks, "stats": projection.NumberCheckSummary(checks)})
}

func (h *NumberCheckHandler) List(c *gin.Context) {
	checks := h.store.Snapshot().NumberChecks
	c.JSON(http.StatusOK, gin.H{"results": checks, "stats": projection.NumberCheckSummary(checks)})
}

func (h *NumberCheckHandler) Clear(c *gin.Context) {
	if err := h.store.ClearNumberChecks(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Number checks cleared"})
}

func (h *NumberCheckHandler) Export(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=number-checks.csv")
	c.Status(http.StatusOK)
	if err := export.WriteNumberChecks(c.Writer, h.store.Snapshot().NumberChecks); err != nil {
		c.Error(err)
	}
}
