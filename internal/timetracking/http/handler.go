package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hourly-labs/timetrack-backend/internal/api/http"
	"github.com/hourly-labs/timetrack-backend/internal/auth"
	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

type Lifecycle interface {
	Start(ctx context.Context, ownerID int64, patch domain.EntryPatch) (int64, error)
	End(ctx context.Context, ownerID int64, patch domain.EntryPatch) (domain.EndResult, error)
}

type Aggregator interface {
	Today(ctx context.Context, ownerID int64, offsetMinutes int) (domain.TodaySummary, error)
	History(ctx context.Context, ownerID int64, offsetMinutes, days int) ([]domain.DaySummary, error)
}

type EntryLister interface {
	ListRecent(ctx context.Context, ownerID int64) ([]domain.EntryView, error)
}

// Handler bundles the dependencies for the /time endpoints.
type Handler struct {
	lifecycle Lifecycle
	agg       Aggregator
	entries   EntryLister
	logger    logging.Logger
}

func New(lifecycle Lifecycle, agg Aggregator, entries EntryLister, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{lifecycle: lifecycle, agg: agg, entries: entries, logger: logger}
}

// Register attaches time routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/start", h.start)
	rg.POST("/end", h.end)
	rg.GET("/today", h.today)
	rg.GET("/history", h.history)
	rg.GET("/entries", h.list)
}

func (h *Handler) start(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var patch domain.EntryPatch
	if err := httpapi.BindJSON(c, &patch); err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}

	id, err := h.lifecycle.Start(c.Request.Context(), ownerID, patch)
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Started", "entryId": id})
}

func (h *Handler) end(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var patch domain.EntryPatch
	if err := httpapi.BindJSON(c, &patch); err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}

	res, err := h.lifecycle.End(c.Request.Context(), ownerID, patch)
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stopped", "entryId": res.EntryID, "seconds": res.Seconds})
}

func (h *Handler) today(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	offset := domain.ParseOffsetMinutes(c.Query("offsetMinutes"))

	sum, err := h.agg.Today(c.Request.Context(), ownerID, offset)
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) history(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	offset := domain.ParseOffsetMinutes(c.Query("offsetMinutes"))
	days := domain.ParseHistoryDays(c.Query("days"))

	items, err := h.agg.History(c.Request.Context(), ownerID, offset, days)
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	if items == nil {
		items = []domain.DaySummary{}
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *Handler) list(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	items, err := h.entries.ListRecent(c.Request.Context(), ownerID)
	if err != nil {
		httpapi.RespondError(c, h.logger, err)
		return
	}
	if items == nil {
		items = []domain.EntryView{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

func (h *Handler) owner(c *gin.Context) (int64, bool) {
	id, ok := auth.OwnerID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing token"})
	}
	return id, ok
}
