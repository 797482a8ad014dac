package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"studkits-backend/internal/catalog"
	"studkits-backend/internal/models"
)

type KitsHandler struct {
	catalog *catalog.Catalog
}

func NewKitsHandler(cat *catalog.Catalog) *KitsHandler {
	return &KitsHandler{catalog: cat}
}

// ListKits godoc
// @Summary     List kits
// @Description Lists catalog kits, optionally filtered by a search query and category
// @Tags        kits
// @Produce     json
// @Param       q        query string false "Substring match on title/description"
// @Param       category query string false "Exact category"
// @Success     200 {array} catalog.Kit
// @Router      /kits [get]
func (h *KitsHandler) ListKits(c *gin.Context) {
	query := c.Query("q")
	category := c.Query("category")
	c.JSON(http.StatusOK, h.catalog.Search(query, category))
}

func (h *KitsHandler) GetKit(c *gin.Context) {
	kit, ok := h.catalog.Get(c.Param("kit_id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "kit not found"})
		return
	}
	c.JSON(http.StatusOK, kit)
}

func (h *KitsHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}
