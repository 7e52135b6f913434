package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hourly-labs/timetrack-backend/internal/api/http"
	"github.com/hourly-labs/timetrack-backend/internal/auth"
	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/tags/domain"
	ttdomain "github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

type Repository interface {
	List(ctx context.Context, ownerID int64) ([]domain.Tag, error)
	Create(ctx context.Context, ownerID int64, in domain.Input) (*domain.Tag, error)
	Update(ctx context.Context, ownerID, id int64, in domain.Input) (*domain.Tag, error)
	Delete(ctx context.Context, ownerID, id int64) (bool, error)
}

// Handler bundles the dependencies for tag endpoints.
type Handler struct {
	repo   Repository
	logger logging.Logger
}

func New(repo Repository, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Register attaches tag routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	ownerID, _ := auth.OwnerID(c)
	items, err := h.repo.List(c.Request.Context(), ownerID)
	if err != nil {
		httpapi.RespondError(c, h.logger, ttdomain.Storage("list tags", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": items})
}

func (h *Handler) create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	ownerID, _ := auth.OwnerID(c)
	t, err := h.repo.Create(c.Request.Context(), ownerID, in)
	if err != nil {
		httpapi.RespondError(c, h.logger, ttdomain.Storage("create tag", err))
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := tagID(c)
	if !ok {
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}

	ownerID, _ := auth.OwnerID(c)
	t, err := h.repo.Update(c.Request.Context(), ownerID, id, in)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Tag not found"})
		return
	}
	if err != nil {
		httpapi.RespondError(c, h.logger, ttdomain.Storage("update tag", err))
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := tagID(c)
	if !ok {
		return
	}

	ownerID, _ := auth.OwnerID(c)
	deleted, err := h.repo.Delete(c.Request.Context(), ownerID, id)
	if err != nil {
		httpapi.RespondError(c, h.logger, ttdomain.Storage("delete tag", err))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Tag not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) bind(c *gin.Context) (domain.Input, bool) {
	var in domain.Input
	if err := httpapi.BindJSON(c, &in); err != nil {
		httpapi.RespondError(c, h.logger, err)
		return in, false
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		httpapi.RespondError(c, h.logger, err)
		return in, false
	}
	return in, true
}

func tagID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Tag not found"})
		return 0, false
	}
	return id, true
}
