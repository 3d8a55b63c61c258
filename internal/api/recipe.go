package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/repository"
	"github.com/forkful/forkful-backend/internal/service"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

type RecipeHandler struct {
	recipes     *service.RecipeService
	relations   *service.RelationService
	shopping    *service.ShoppingListService
	auth        *service.AuthService
	frontendURL string
}

func NewRecipeHandler(recipes *service.RecipeService, relations *service.RelationService, shopping *service.ShoppingListService, auth *service.AuthService, frontendURL string) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		relations:   relations,
		shopping:    shopping,
		auth:        auth,
		frontendURL: frontendURL,
	}
}

// RegisterRoutes wires the recipe surface. Extra middleware (the rate
// limiter in production) applies to mutating routes only.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	optional := middleware.OptionalAuthMiddleware(h.auth)
	required := middleware.AuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	recipes.GET("", optional, h.ListRecipes)
	recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
	recipes.GET("/:id", optional, h.GetRecipe)
	recipes.GET("/:id/get-link", h.GetLink)

	write := recipes.Group("", append([]gin.HandlerFunc{required}, mutating...)...)
	write.POST("", h.CreateRecipe)
	write.PATCH("/:id", h.UpdateRecipe)
	write.PUT("/:id", h.UpdateRecipe)
	write.DELETE("/:id", h.DeleteRecipe)
	write.POST("/:id/favorite", h.addRelation(models.RelationFavorite, "already in favorites"))
	write.DELETE("/:id/favorite", h.removeRelation(models.RelationFavorite, "not in favorites"))
	write.POST("/:id/shopping_cart", h.addRelation(models.RelationCart, "already in shopping cart"))
	write.DELETE("/:id/shopping_cart", h.removeRelation(models.RelationCart, "not in shopping cart"))
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := repository.RecipeFilter{
		Page:   1,
		Limit:  defaultPageSize,
		Search: c.Query("q"),
	}
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		if l > maxPageSize {
			l = maxPageSize
		}
		filter.Limit = l
	}
	if slugs := c.QueryArray("tags"); len(slugs) > 0 {
		filter.TagSlugs = slugs
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"author": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	userID, authenticated := currentUser(c)
	if authenticated {
		if truthy(c.Query("is_favorited")) {
			filter.FavoritedBy = &userID
		}
		if truthy(c.Query("is_in_shopping_cart")) {
			filter.InCartOf = &userID
		}
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}

	flags, err := h.userFlags(c, userID, authenticated, recipes)
	if err != nil {
		renderError(c, err)
		return
	}

	results := make([]readRecipe, 0, len(recipes))
	for i := range recipes {
		results = append(results, newReadRecipe(&recipes[i], flags[recipes[i].ID]))
	}

	c.JSON(http.StatusOK, page{
		Count:    total,
		Next:     pageLink(c, filter.Page+1, int64(filter.Page*filter.Limit) < total),
		Previous: pageLink(c, filter.Page-1, filter.Page > 1),
		Results:  results,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, ok := h.loadRecipe(c)
	if !ok {
		return
	}

	userID, authenticated := currentUser(c)
	flags, err := h.userFlags(c, userID, authenticated, []models.Recipe{*recipe})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReadRecipe(recipe, flags[recipe.ID]))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var body writeRecipe
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorFields(err))
		return
	}

	userID, _ := currentUser(c)
	recipe, err := h.recipes.Create(c.Request.Context(), userID, body.toInput())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReadRecipe(recipe, repository.RelationFlags{}))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipe, ok := h.loadRecipe(c)
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	if !service.CanModify(userID, isSuperuser(c), recipe) {
		renderError(c, service.ErrNotAuthor)
		return
	}

	var body writeRecipe
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorFields(err))
		return
	}

	updated, err := h.recipes.Update(c.Request.Context(), recipe, body.toInput())
	if err != nil {
		renderError(c, err)
		return
	}

	flags, err := h.userFlags(c, userID, true, []models.Recipe{*updated})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReadRecipe(updated, flags[updated.ID]))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipe, ok := h.loadRecipe(c)
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	if !service.CanModify(userID, isSuperuser(c), recipe) {
		renderError(c, service.ErrNotAuthor)
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), recipe.ID); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addRelation(kind models.RelationKind, alreadyMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "recipe not found"})
			return
		}

		userID, _ := currentUser(c)
		recipe, err := h.relations.Add(c.Request.Context(), kind, userID, recipeID)
		if err != nil {
			if errors.Is(err, service.ErrAlreadyExists) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": alreadyMsg})
				return
			}
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newShortRecipe(recipe))
	}
}

func (h *RecipeHandler) removeRelation(kind models.RelationKind, notPresentMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "recipe not found"})
			return
		}

		userID, _ := currentUser(c)
		if err := h.relations.Remove(c.Request.Context(), kind, userID, recipeID); err != nil {
			if errors.Is(err, service.ErrNotPresent) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": notPresentMsg})
				return
			}
			renderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := currentUser(c)
	body, err := h.shopping.Render(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	recipe, ok := h.loadRecipe(c)
	if !ok {
		return
	}
	link := strings.TrimSuffix(h.frontendURL, "/") + "/recipes/" + recipe.ID.String()
	c.JSON(http.StatusOK, gin.H{"short-link": link})
}

func (h *RecipeHandler) loadRecipe(c *gin.Context) (*models.Recipe, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "recipe not found"})
		return nil, false
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return nil, false
	}
	return recipe, true
}

func (h *RecipeHandler) userFlags(c *gin.Context, userID uuid.UUID, authenticated bool, recipes []models.Recipe) (map[uuid.UUID]repository.RelationFlags, error) {
	if !authenticated {
		return map[uuid.UUID]repository.RelationFlags{}, nil
	}
	ids := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
	}
	return h.recipes.RelationFlags(c.Request.Context(), userID, ids)
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func isSuperuser(c *gin.Context) bool {
	val, exists := c.Get(middleware.ContextSuperuser)
	if !exists {
		return false
	}
	super, _ := val.(bool)
	return super
}

func truthy(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}

func pageLink(c *gin.Context, targetPage int, exists bool) *string {
	if !exists {
		return nil
	}
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(targetPage))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
