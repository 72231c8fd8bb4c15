package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
	"whatsapp-dashboard/internal/whatsapp"
)

// respondError maps domain errors to status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrInvalid), errors.Is(err, whatsapp.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateID), errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, whatsapp.ErrPairingFailed):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// bindPatch binds a JSON object body; a null body is rejected
func bindPatch(c *gin.Context) (store.Patch, bool) {
	var patch store.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return nil, false
	}
	if patch == nil {
		badRequest(c, errors.New("request body must be a JSON object"))
		return nil, false
	}
	return patch, true
}

func notFound(c *gin.Context, name string) {
	c.JSON(http.StatusNotFound, gin.H{"error": name + " not found"})
}

// assignID gives a new entity a server-side id when the request omits one
func assignID(id *string) {
	if strings.TrimSpace(*id) == "" {
		*id = uuid.NewString()
	}
}

func descending(c *gin.Context) bool {
	return strings.EqualFold(c.Query("order"), "desc")
}

// resource serves get, create, update and delete for one store collection
type resource[T any] struct {
	name   string
	now    func() time.Time
	get    func(id string) (T, bool)
	add    func(ctx context.Context, item T) error
	update func(ctx context.Context, id string, patch store.Patch) (T, bool, error)
	remove func(ctx context.Context, id string) (bool, error)

	// prepare fills server-assigned fields of a new item and returns its id
	prepare func(item *T, now time.Time) string
	// beforeUpdate may add derived fields to a patch
	beforeUpdate func(patch store.Patch, now time.Time)
}

func (r resource[T]) Get(c *gin.Context) {
	item, ok := r.get(c.Param("id"))
	if !ok {
		notFound(c, r.name)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r resource[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err)
		return
	}
	id := r.prepare(&item, r.now())
	if err := r.add(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	if stored, ok := r.get(id); ok {
		item = stored
	}
	c.JSON(http.StatusCreated, item)
}

func (r resource[T]) Update(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(patch, r.now())
	}
	item, found, err := r.update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		notFound(c, r.name)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r resource[T]) Delete(c *gin.Context) {
	removed, err := r.remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		notFound(c, r.name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": r.name + " deleted"})
}
