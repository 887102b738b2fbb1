package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) ListDishes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dishes": h.catalog.Dishes})
}

func (h *Handler) ListCategories(c *gin.Context) {
	vegOnly := false
	if v := c.Query("veg"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "veg must be true or false"})
			return
		}
		vegOnly = parsed
	}

	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.CategoriesFor(vegOnly)})
}
