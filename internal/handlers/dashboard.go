package handlers

import (
	"net/http"

	"taskboard/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	summaries services.Summarizer
}

func NewDashboardHandler(summaries services.Summarizer) *DashboardHandler {
	return &DashboardHandler{summaries: summaries}
}

// Summary serves GET /dashboard/summary?period=7|30.
func (h *DashboardHandler) Summary(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	period, err := services.ParsePeriod(c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.summaries.Summary(c.Request.Context(), owner, period)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}
