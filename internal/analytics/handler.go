package analytics

import (
	"net/http"

	"zomaksho/internal/httputil"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	errors  *httputil.ErrorMapper
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		errors: httputil.NewErrorMapper().
			WithMapping(ErrStorageUnavailable, http.StatusServiceUnavailable, ""),
	}
}

// --------------------------------------------------
// ADMIN: Static dashboard
// --------------------------------------------------
func (h *Handler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kpis": h.service.Dashboard().KPIs})
}

func (h *Handler) Revenue(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"revenue": h.service.Dashboard().Revenue})
}

func (h *Handler) Cuisines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cuisines": h.service.Dashboard().Cuisines})
}

func (h *Handler) Activity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activity": h.service.Dashboard().Activity})
}

func (h *Handler) Predictions(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Dashboard().Predictions)
}

// --------------------------------------------------
// ADMIN: Search statistics
// --------------------------------------------------
func (h *Handler) Searches(c *gin.Context) {
	stats, err := h.service.SearchStats(c.Request.Context())
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ExportSearches(c *gin.Context) {
	report, err := h.service.ExportSearchReport(c.Request.Context())
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
