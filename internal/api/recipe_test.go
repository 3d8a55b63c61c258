package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipe(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)

	w := f.do(http.MethodPost, "/api/recipes", token, f.recipePayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Pancakes", body["name"])
	assert.Equal(t, "Mix and fry.", body["text"])
	assert.Equal(t, "https://cdn.example/pancakes.png", body["image"])
	assert.EqualValues(t, 20, body["cooking_time"])
	assert.Equal(t, false, body["is_favorited"])
	assert.Equal(t, false, body["is_in_shopping_cart"])

	author := body["author"].(map[string]interface{})
	assert.Equal(t, "author", author["username"])

	tags := body["tags"].([]interface{})
	require.Len(t, tags, 1)
	assert.Equal(t, "breakfast", tags[0].(map[string]interface{})["slug"])

	ingredients := body["ingredients"].([]interface{})
	require.Len(t, ingredients, 2)
	first := ingredients[0].(map[string]interface{})
	assert.Equal(t, "flour", first["name"])
	assert.Equal(t, "g", first["measurement_unit"])
	assert.EqualValues(t, 100, first["amount"])
}

func TestCreateRecipe_Unauthenticated(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/recipes", "", f.recipePayload())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipe_FieldKeyedValidationErrors(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)

	payload := f.recipePayload()
	delete(payload, "cooking_time")
	payload["ingredients"] = []map[string]interface{}{
		{"id": f.ingredients[0].ID, "amount": 100},
		{"id": f.ingredients[0].ID, "amount": 50},
	}

	w := f.do(http.MethodPost, "/api/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "this field is required", body["cooking_time"])
}

func TestCreateRecipe_DuplicateIngredients(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)

	payload := f.recipePayload()
	payload["ingredients"] = []map[string]interface{}{
		{"id": f.ingredients[0].ID, "amount": 100},
		{"id": f.ingredients[0].ID, "amount": 50},
	}

	w := f.do(http.MethodPost, "/api/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ingredients must be unique", decodeBody(t, w)["ingredients"])
}

func TestUpdateRecipe_ThreeStateCollections(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)
	created := f.createRecipe(token)
	id := created["id"].(string)

	// Key absent: stored ingredient set stays as it was.
	w := f.do(http.MethodPatch, "/api/recipes/"+id, token, map[string]interface{}{"name": "Crepes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Crepes", body["name"])
	assert.Len(t, body["ingredients"].([]interface{}), 2)

	// Key present but empty: rejected exactly like on create.
	w = f.do(http.MethodPatch, "/api/recipes/"+id, token, map[string]interface{}{"ingredients": []interface{}{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "need at least one ingredient", decodeBody(t, w)["ingredients"])

	// Key present and non-empty: wholesale replacement.
	w = f.do(http.MethodPatch, "/api/recipes/"+id, token, map[string]interface{}{
		"ingredients": []map[string]interface{}{{"id": f.ingredients[2].ID, "amount": 7}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ingredients := decodeBody(t, w)["ingredients"].([]interface{})
	require.Len(t, ingredients, 1)
	assert.Equal(t, "sugar", ingredients[0].(map[string]interface{})["name"])
}

func TestUpdateRecipe_PutVerbAccepted(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)
	created := f.createRecipe(token)
	id := created["id"].(string)

	w := f.do(http.MethodPut, "/api/recipes/"+id, token, map[string]interface{}{
		"name":         "Galettes",
		"text":         "Fold twice.",
		"image":        "https://cdn.example/galettes.png",
		"cooking_time": 25,
		"tags":         []uint{f.tags[0].ID},
		"ingredients":  []map[string]interface{}{{"id": f.ingredients[0].ID, "amount": 80}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Galettes", body["name"])
	assert.Equal(t, float64(25), body["cooking_time"])
	require.Len(t, body["ingredients"].([]interface{}), 1)
}

func TestUpdateRecipe_NullImageRejected(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)
	created := f.createRecipe(token)

	w := f.do(http.MethodPatch, "/api/recipes/"+created["id"].(string), token,
		map[string]interface{}{"image": nil})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "image")
}

func TestUpdateRecipe_AuthorOnly(t *testing.T) {
	f := newAPIFixture(t)
	_, authorToken := f.newUser("author", false)
	_, otherToken := f.newUser("other", false)
	_, adminToken := f.newUser("admin", true)

	created := f.createRecipe(authorToken)
	id := created["id"].(string)

	w := f.do(http.MethodPatch, "/api/recipes/"+id, otherToken, map[string]interface{}{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPatch, "/api/recipes/"+id, adminToken, map[string]interface{}{"name": "Moderated"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeleteRecipe(t *testing.T) {
	f := newAPIFixture(t)
	_, authorToken := f.newUser("author", false)
	_, otherToken := f.newUser("other", false)

	created := f.createRecipe(authorToken)
	id := created["id"].(string)

	w := f.do(http.MethodDelete, "/api/recipes/"+id, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodDelete, "/api/recipes/"+id, authorToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/api/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	_, authorToken := f.newUser("author", false)
	_, userToken := f.newUser("reader", false)

	created := f.createRecipe(authorToken)
	id := created["id"].(string)

	w := f.do(http.MethodPost, "/api/recipes/"+id+"/favorite", userToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Pancakes", body["name"])
	assert.EqualValues(t, 20, body["cooking_time"])
	// Short card only: no ingredient detail on relation responses.
	assert.NotContains(t, body, "ingredients")

	w = f.do(http.MethodPost, "/api/recipes/"+id+"/favorite", userToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already in favorites", decodeBody(t, w)["detail"])

	w = f.do(http.MethodDelete, "/api/recipes/"+id+"/favorite", userToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodDelete, "/api/recipes/"+id+"/favorite", userToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not in favorites", decodeBody(t, w)["detail"])
}

func TestShoppingCartLifecycleAndDownload(t *testing.T) {
	f := newAPIFixture(t)
	_, authorToken := f.newUser("author", false)

	created := f.createRecipe(authorToken)
	id := created["id"].(string)

	// Empty cart still produces a file with the placeholder line.
	w := f.do(http.MethodGet, "/api/recipes/download_shopping_cart", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shopping list is empty.", w.Body.String())

	w = f.do(http.MethodPost, "/api/recipes/"+id+"/shopping_cart", authorToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/api/recipes/"+id+"/shopping_cart", authorToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already in shopping cart", decodeBody(t, w)["detail"])

	w = f.do(http.MethodGet, "/api/recipes/download_shopping_cart", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
	assert.Equal(t, "egg — 2 pc\nflour — 100 g", w.Body.String())

	w = f.do(http.MethodDelete, "/api/recipes/"+id+"/shopping_cart", authorToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodDelete, "/api/recipes/"+id+"/shopping_cart", authorToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not in shopping cart", decodeBody(t, w)["detail"])
}

func TestGetRecipe_FlagsPerCaller(t *testing.T) {
	f := newAPIFixture(t)
	_, authorToken := f.newUser("author", false)
	_, userToken := f.newUser("reader", false)

	created := f.createRecipe(authorToken)
	id := created["id"].(string)

	w := f.do(http.MethodPost, "/api/recipes/"+id+"/favorite", userToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(http.MethodGet, "/api/recipes/"+id, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_favorited"])

	// Anonymous callers always see false.
	w = f.do(http.MethodGet, "/api/recipes/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_favorited"])
}

func TestListRecipes_PaginationEnvelope(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)

	for i := 0; i < 3; i++ {
		payload := f.recipePayload()
		payload["name"] = fmt.Sprintf("Recipe %d", i)
		w := f.do(http.MethodPost, "/api/recipes", token, payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := f.do(http.MethodGet, "/api/recipes?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 3, body["count"])
	assert.Len(t, body["results"].([]interface{}), 2)
	require.NotNil(t, body["next"])
	assert.Contains(t, body["next"].(string), "page=2")
	assert.Nil(t, body["previous"])

	w = f.do(http.MethodGet, "/api/recipes?limit=2&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["results"].([]interface{}), 1)
	assert.Nil(t, body["next"])
	require.NotNil(t, body["previous"])
}

func TestListRecipes_TagFilter(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)

	f.createRecipe(token)

	payload := f.recipePayload()
	payload["name"] = "Dinner thing"
	payload["tags"] = []uint{f.tags[2].ID}
	w := f.do(http.MethodPost, "/api/recipes", token, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(http.MethodGet, "/api/recipes?tags=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "Dinner thing", results[0].(map[string]interface{})["name"])
}

func TestGetLink(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.newUser("author", false)
	created := f.createRecipe(token)
	id := created["id"].(string)

	w := f.do(http.MethodGet, "/api/recipes/"+id+"/get-link", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testFrontendURL+"/recipes/"+id, decodeBody(t, w)["short-link"])
}
