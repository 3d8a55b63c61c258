package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/repository"
	"github.com/forkful/forkful-backend/internal/router"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/testutil"
	"github.com/forkful/forkful-backend/internal/validation"
)

const testFrontendURL = "https://forkful.example"

type apiFixture struct {
	t           *testing.T
	db          *gorm.DB
	engine      *gin.Engine
	auth        *service.AuthService
	tags        []models.Tag
	ingredients []models.Ingredient
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	tags, ingredients := testutil.SeedCatalog(t, db)

	logger := zap.NewNop()
	repo := repository.New(db, logger)
	media, err := service.NewMediaService(context.Background(), config.Media{Dir: t.TempDir()}, logger)
	require.NoError(t, err)

	authService := service.NewAuthService(db, "test-secret", time.Hour)
	validator := validation.NewRecipeValidator(repo)
	recipeService := service.NewRecipeService(repo, validator, media, logger)

	handlers := router.Handlers{
		Auth:    api.NewAuthHandler(authService),
		Catalog: api.NewCatalogHandler(repo),
		Recipes: api.NewRecipeHandler(
			recipeService,
			service.NewRelationService(repo, logger),
			service.NewShoppingListService(repo),
			authService,
			testFrontendURL,
		),
	}

	return &apiFixture{
		t:           t,
		db:          db,
		engine:      router.New(logger, handlers, ""),
		auth:        authService,
		tags:        tags,
		ingredients: ingredients,
	}
}

func (f *apiFixture) newUser(username string, superuser bool) (*models.User, string) {
	f.t.Helper()
	user := testutil.CreateUser(f.t, f.db, username, superuser)
	token, err := f.auth.Login(context.Background(), user.Email, testutil.TestPassword)
	require.NoError(f.t, err)
	return user, token
}

func (f *apiFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) recipePayload() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"image":        "https://cdn.example/pancakes.png",
		"cooking_time": 20,
		"tags":         []uint{f.tags[0].ID},
		"ingredients": []map[string]interface{}{
			{"id": f.ingredients[0].ID, "amount": 100},
			{"id": f.ingredients[1].ID, "amount": 2},
		},
	}
}

func (f *apiFixture) createRecipe(token string) map[string]interface{} {
	f.t.Helper()
	w := f.do(http.MethodPost, "/api/recipes", token, f.recipePayload())
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(f.t, w)
}

func decodeInto(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
