package auth

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
			WithMapping(ErrMissingFields, http.StatusBadRequest, "").
			WithMapping(ErrInvalidCredentials, http.StatusUnauthorized, ""),
	}
}

func (h *Handler) Guest(c *gin.Context) {
	login, err := h.service.LoginGuest()
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, login)
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	login, err := h.service.LoginUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, login)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	login, err := h.service.LoginAdmin(req.Username, req.Password)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, login)
}

func (h *Handler) Me(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) Logout(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.service.Logout(sess)
	c.Status(http.StatusNoContent)
}
