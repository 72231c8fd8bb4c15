package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/export"
	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/store"
)

// AddressHandler manages the contact book
type AddressHandler struct {
	resource[models.Address]
	store *store.Store
}

func NewAddressHandler(s *store.Store) *AddressHandler {
	return &AddressHandler{
		resource: resource[models.Address]{
			name:   "Address",
			now:    s.Now,
			get:    s.Address,
			add:    s.AddAddress,
			update: s.UpdateAddress,
			remove: s.RemoveAddress,
			prepare: func(a *models.Address, now time.Time) string {
				assignID(&a.ID)
				if a.CreatedAt == nil {
					a.CreatedAt = &now
				}
				a.UpdatedAt = &now
				return a.ID
			},
			beforeUpdate: func(patch store.Patch, now time.Time) {
				patch["updatedAt"] = now
			},
		},
		store: s,
	}
}

func (h *AddressHandler) query(c *gin.Context) projection.AddressQuery {
	return projection.AddressQuery{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		City:     c.Query("city"),
		Business: c.Query("business"),
		Sort:     c.Query("sort"),
		Desc:     descending(c),
	}
}

func (h *AddressHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, projection.Addresses(h.store.Snapshot().Addresses, h.query(c)))
}

func (h *AddressHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, projection.AddressSummary(h.store.Snapshot().Addresses))
}

func (h *AddressHandler) Facets(c *gin.Context) {
	c.JSON(http.StatusOK, projection.Facets(h.store.Snapshot().Addresses))
}

// Export writes the filtered address list as CSV
func (h *AddressHandler) Export(c *gin.Context) {
	rows := projection.Addresses(h.store.Snapshot().Addresses, h.query(c))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=addresses.csv")
	c.Status(http.StatusOK)
	if err := export.WriteAddresses(c.Writer, rows); err != nil {
		c.Error(err)
	}
}
