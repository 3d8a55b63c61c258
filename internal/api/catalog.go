package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/repository"
)

// CatalogHandler serves the read-only tag and ingredient reference data.
type CatalogHandler struct {
	repo *repository.Repository
}

func NewCatalogHandler(repo *repository.Repository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.SearchIngredients)
	router.GET("/ingredients/:id", h.GetIngredient)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.repo.ListTags(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "tag not found"})
		return
	}
	tag, err := h.repo.GetTag(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "tag not found"})
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *CatalogHandler) SearchIngredients(c *gin.Context) {
	ingredients, err := h.repo.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "ingredient not found"})
		return
	}
	ingredient, err := h.repo.GetIngredient(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "ingredient not found"})
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
