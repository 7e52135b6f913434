package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hourly-labs/timetrack-backend/internal/api/http"
	"github.com/hourly-labs/timetrack-backend/internal/auth"
	"github.com/hourly-labs/timetrack-backend/internal/projects/domain"
)

func (h *Handler) list(c *gin.Context) {
	ownerID, _ := auth.OwnerID(c)
	items, err := h.svc.List(c.Request.Context(), ownerID)
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.Input
	if err := httpapi.BindJSON(c, &in); err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}

	ownerID, _ := auth.OwnerID(c)
	p, err := h.svc.Create(c.Request.Context(), ownerID, in)
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var in domain.Input
	if err := httpapi.BindJSON(c, &in); err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}

	ownerID, _ := auth.OwnerID(c)
	p, err := h.svc.Update(c.Request.Context(), ownerID, id, in)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	ownerID, _ := auth.OwnerID(c)
	err := h.svc.Delete(c.Request.Context(), ownerID, id)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return 0, false
	}
	return id, true
}
