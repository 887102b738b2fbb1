package chat

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
			WithMapping(ErrEmptyMessage, http.StatusBadRequest, ""),
	}
}

func (h *Handler) ListMessages(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	msgs, err := h.service.History(c.Request.Context(), sess.ID)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) SendMessage(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msgs, err := h.service.SendMessage(c.Request.Context(), sess.ID, req.Text)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"messages": msgs})
}

func (h *Handler) ClearMessages(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Clear(c.Request.Context(), sess.ID); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
