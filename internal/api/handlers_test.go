package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ouchiface/catalog/internal/models"
	"github.com/ouchiface/catalog/internal/readme"
	"github.com/ouchiface/catalog/internal/repository"
	"github.com/ouchiface/catalog/internal/services"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection to :memory: would open a different
	// empty database, so pin the pool to a single connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Resource{}))

	resourceService := services.NewResourceService(repository.NewResourceRepository(db))

	router := gin.New()
	router.LoadHTMLGlob("../../templates/*.html")
	SetupRoutes(router, resourceService, readme.NewFetcher(time.Second))
	return router
}

func postForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createForm(name, resourceType string) url.Values {
	return url.Values{
		"name":          {name},
		"resource_type": {resourceType},
		"description":   {"A description"},
	}
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateResourceAppearsInAPIList(t *testing.T) {
	router := setupRouter(t)

	w := postForm(t, router, "/resources", createForm("Stable Diffusion WebUI", "app"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = get(router, "/api/resources")
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Resource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Stable Diffusion WebUI", listed[0].Name)
	assert.Equal(t, models.TypeApp, listed[0].ResourceType)
}

func TestCreateResourceInvalidTypeIsClientError(t *testing.T) {
	router := setupRouter(t)

	w := postForm(t, router, "/resources", createForm("Thing", "vm"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateResourceMissingNameIsClientError(t *testing.T) {
	router := setupRouter(t)

	w := postForm(t, router, "/resources", createForm("   ", "app"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmptyOptionalFieldsAreStoredAsNull(t *testing.T) {
	router := setupRouter(t)

	form := createForm("Jellyfin", "app")
	form.Set("link_url", "")
	form.Set("icon_url", "   ")
	form.Set("repo_url", "https://github.com/jellyfin/jellyfin")
	w := postForm(t, router, "/resources", form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = get(router, "/api/resources")
	require.Equal(t, http.StatusOK, w.Code)

	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0]["link_url"])
	assert.Nil(t, listed[0]["icon_url"])
	assert.Equal(t, "https://github.com/jellyfin/jellyfin", listed[0]["repo_url"])
}

func TestAPIListFilters(t *testing.T) {
	router := setupRouter(t)

	require.Equal(t, http.StatusSeeOther, postForm(t, router, "/resources", createForm("Forgejo Repo", "repository")).Code)
	require.Equal(t, http.StatusSeeOther, postForm(t, router, "/resources", createForm("Local Dataset", "dataset")).Code)

	// Case-insensitive substring search on name only
	w := get(router, "/api/resources?q=forgejo")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Resource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Forgejo Repo", listed[0].Name)

	// Exact type filter
	w = get(router, "/api/resources?resource_type=dataset")
	require.Equal(t, http.StatusOK, w.Code)
	listed = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, models.TypeDataset, listed[0].ResourceType)
}

func TestAPIListRejectsInvalidTypeFilter(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/api/resources?resource_type=vm")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTMLListTreatsInvalidTypeAsAll(t *testing.T) {
	// Deliberate asymmetry with the JSON API: the page falls back to the
	// unfiltered view instead of rejecting the query value.
	router := setupRouter(t)

	require.Equal(t, http.StatusSeeOther, postForm(t, router, "/resources", createForm("Jellyfin", "app")).Code)

	w := get(router, "/?resource_type=vm")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jellyfin")
}

func TestAPIGetUnknownIDReturns404(t *testing.T) {
	router := setupRouter(t)

	w := get(router, "/api/resources/999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(router, "/api/resources/banana")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetailAndEditUnknownIDReturn404(t *testing.T) {
	router := setupRouter(t)

	assert.Equal(t, http.StatusNotFound, get(router, "/resources/999").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/resources/999/edit").Code)
}

func TestDetailPageRendersWithoutRepoURL(t *testing.T) {
	router := setupRouter(t)

	require.Equal(t, http.StatusSeeOther, postForm(t, router, "/resources", createForm("Jellyfin", "app")).Code)

	// No repo_url set, so no README fetch happens and no README section
	// is rendered
	w := get(router, "/resources/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jellyfin")
	assert.NotContains(t, w.Body.String(), "README")
}

func TestUpdateResource(t *testing.T) {
	router := setupRouter(t)

	require.Equal(t, http.StatusSeeOther, postForm(t, router, "/resources", createForm("Jellyfin", "app")).Code)

	form := createForm("Jellyfin 10", "app")
	w := postForm(t, router, "/resources/1/update", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/resources/1", w.Header().Get("Location"))

	w = get(router, "/api/resources/1")
	require.Equal(t, http.StatusOK, w.Code)
	var resource models.Resource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resource))
	assert.Equal(t, "Jellyfin 10", resource.Name)
	assert.True(t, resource.UpdatedAt.After(resource.CreatedAt) || resource.UpdatedAt.Equal(resource.CreatedAt))
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	router := setupRouter(t)

	w := postForm(t, router, "/resources/999/update", createForm("ghost", "app"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteResourceRedirectsAndIsIdempotent(t *testing.T) {
	router := setupRouter(t)

	require.Equal(t, http.StatusSeeOther, postForm(t, router, "/resources", createForm("Jellyfin", "app")).Code)

	w := postForm(t, router, "/resources/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, get(router, "/api/resources/1").Code)

	// Deleting the same id again is still a redirect, not an error
	w = postForm(t, router, "/resources/1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestHomePageGroupsUnfilteredView(t *testing.T) {
	router := setupRouter(t)

	// Seven resources: six featured, the remainder grouped by type
	names := []string{"one", "two", "three", "four", "five", "six", "seven"}
	for _, name := range names {
		require.Equal(t, http.StatusSeeOther, postForm(t, router, "/resources", createForm(name, "app")).Code)
	}

	w := get(router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	// The grouped section carries the type display label as its heading
	assert.Contains(t, w.Body.String(), "<h2>App</h2>")
}
