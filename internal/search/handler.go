package search

import (
	"net/http"

	"zomaksho/internal/httputil"
	"zomaksho/internal/session"

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
			WithMapping(ErrEmptyQuery, http.StatusBadRequest, ""),
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	*Outcome
	Cards []Card `json:"cards"`
}

type stateResponse struct {
	State
	Cards []Card `json:"cards"`
}

// Search answers 200 even when the gateway failed; the failure is carried
// in status and notification.
func (h *Handler) Search(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := h.service.Search(c.Request.Context(), sess.ID, req.Query)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, searchResponse{Outcome: out, Cards: Cards(out.Items)})
}

func (h *Handler) GetState(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	st := h.service.State(sess.ID)
	c.JSON(http.StatusOK, stateResponse{State: st, Cards: Cards(st.Items)})
}

func (h *Handler) ClearState(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.service.Clear(sess.ID)
	c.Status(http.StatusNoContent)
}
