// Package admin exposes the operational HTTP API: inspecting the loaded
// filter lists and forcing a reload out of band of the periodic refresh.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"modguard/internal/filter"
	"modguard/internal/logger"
	"modguard/pkg/errors"
)

type Handler struct {
	registry *filter.Registry
	loader   *filter.Loader
	logger   logger.Logger
}

func NewHandler(registry *filter.Registry, loader *filter.Loader, log logger.Logger) *Handler {
	return &Handler{
		registry: registry,
		loader:   loader,
		logger:   log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/lists", h.ListLists)
		v1.POST("/reload", h.Reload)
	}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

type listSummary struct {
	Name          string   `json:"name"`
	Rules         int      `json:"rules"`
	Subscriptions []string `json:"subscriptions"`
}

func (h *Handler) ListLists(c *gin.Context) {
	lists := h.registry.Lists()

	summaries := make([]listSummary, 0, len(lists))
	for _, list := range lists {
		subs := make([]string, 0, len(list.Subscriptions()))
		for _, event := range list.Subscriptions() {
			subs = append(subs, event.String())
		}
		summaries = append(summaries, listSummary{
			Name:          list.Name(),
			Rules:         list.RuleCount(),
			Subscriptions: subs,
		})
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) Reload(c *gin.Context) {
	if err := h.loader.Reload(c.Request.Context()); err != nil {
		h.HandleError(c, errors.ErrInternal.WithCause(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
