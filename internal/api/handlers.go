package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ouchiface/catalog/internal/errors"
	"github.com/ouchiface/catalog/internal/models"
	"github.com/ouchiface/catalog/internal/readme"
	"github.com/ouchiface/catalog/internal/services"
)

// featuredCount is how many resources the unfiltered home page pins at
// the top before grouping the remainder by type.
const featuredCount = 6

// SetupRoutes configures all Gin routes and injects necessary dependencies.
// The HTML pages and the JSON API mirror share the same service layer;
// the README fetcher is only touched by the detail page.
func SetupRoutes(router *gin.Engine, resourceService *services.ResourceService, fetcher *readme.Fetcher) {
	// Health Check Route - used for monitoring service availability
	router.GET("/health", HealthCheckHandler)

	// HTML pages
	router.GET("/", HomeHandler(resourceService))
	router.GET("/resources/new", NewResourceHandler())
	router.POST("/resources", CreateResourceHandler(resourceService))
	router.GET("/resources/:id", ResourceDetailHandler(resourceService, fetcher))
	router.GET("/resources/:id/edit", EditResourceHandler(resourceService))
	router.POST("/resources/:id/update", UpdateResourceHandler(resourceService))
	router.POST("/resources/:id/delete", DeleteResourceHandler(resourceService))

	// JSON API mirror of list/get
	api := router.Group("/api")
	{
		api.GET("/resources", APIListResourcesHandler(resourceService))
		api.GET("/resources/:id", APIGetResourceHandler(resourceService))
	}
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resourceForm mirrors the fields submitted by the create and edit forms.
type resourceForm struct {
	Name         string `form:"name"`
	ResourceType string `form:"resource_type"`
	Description  string `form:"description"`
	LinkURL      string `form:"link_url"`
	Location     string `form:"location"`
	IconURL      string `form:"icon_url"`
	RepoURL      string `form:"repo_url"`
}

func (f resourceForm) toInput() services.ResourceInput {
	return services.ResourceInput{
		Name:         f.Name,
		ResourceType: f.ResourceType,
		Description:  f.Description,
		LinkURL:      f.LinkURL,
		Location:     f.Location,
		IconURL:      f.IconURL,
		RepoURL:      f.RepoURL,
	}
}

// parseID extracts the numeric :id path parameter. A non-numeric id can
// never match a stored resource, so it is reported the same way as an
// unknown one.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// isClientError reports whether the error comes from invalid user input.
func isClientError(err error) bool {
	var missing apperrors.ErrMissingRequiredField
	return errors.Is(err, apperrors.ErrInvalidResourceType) || errors.As(err, &missing)
}

// typeGroup is one section of the grouped home-page view: a resource type
// with the resources of that type, in list order.
type typeGroup struct {
	Value     models.ResourceType
	Label     string
	Resources []models.Resource
}

// groupByType partitions resources into the fixed type order, omitting
// empty groups. Relative order inside each group follows the input.
func groupByType(resources []models.Resource) []typeGroup {
	byType := make(map[models.ResourceType][]models.Resource)
	for _, item := range resources {
		byType[item.ResourceType] = append(byType[item.ResourceType], item)
	}

	var groups []typeGroup
	for _, choice := range models.TypeChoices() {
		if items := byType[choice.Value]; len(items) > 0 {
			groups = append(groups, typeGroup{
				Value:     choice.Value,
				Label:     choice.Label,
				Resources: items,
			})
		}
	}
	return groups
}

// HomeHandler renders the listing page. It accepts an optional q text
// filter and an optional resource_type filter; an unknown type value is
// silently treated as "all" (unlike the JSON API, which rejects it).
// When no filter is active the page additionally shows a featured subset
// and the remainder grouped by type.
func HomeHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		rawType := c.Query("resource_type")

		resources, err := resourceService.List(query, rawType, false)
		if err != nil {
			log.Printf("Error listing resources: %v", err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		_, typeOK := models.ParseResourceType(rawType)
		isFiltered := query != "" || typeOK

		featured := resources
		var grouped []typeGroup
		if !isFiltered {
			if len(resources) > featuredCount {
				featured = resources[:featuredCount]
				grouped = groupByType(resources[featuredCount:])
			}
		}

		activeType := rawType
		if activeType == "" {
			activeType = "all"
		}

		c.HTML(http.StatusOK, "home.html", gin.H{
			"Resources":   resources,
			"Query":       query,
			"ActiveType":  activeType,
			"TypeChoices": models.TypeChoices(),
			"Featured":    featured,
			"Grouped":     grouped,
			"IsFiltered":  isFiltered,
		})
	}
}

// NewResourceHandler renders the empty creation form.
func NewResourceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "form.html", gin.H{
			"Action":      "/resources",
			"Resource":    nil,
			"TypeChoices": models.TypeChoices(),
			"Title":       "Register resource",
			"SubmitLabel": "Create",
		})
	}
}

// CreateResourceHandler handles the creation form submission and
// redirects to the listing page on success.
func CreateResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form resourceForm
		if err := c.ShouldBind(&form); err != nil {
			c.String(http.StatusBadRequest, "Invalid form submission")
			return
		}

		if _, err := resourceService.Create(form.toInput()); err != nil {
			if isClientError(err) {
				c.String(http.StatusBadRequest, "Invalid resource: %v", err)
				return
			}
			log.Printf("Error creating resource: %v", err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		c.Redirect(http.StatusSeeOther, "/")
	}
}

// ResourceDetailHandler renders the detail page for one resource. When
// the resource links a repository, its README is fetched best-effort; the
// README section is simply omitted when nothing comes back.
func ResourceDetailHandler(resourceService *services.ResourceService, fetcher *readme.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.String(http.StatusNotFound, "Resource not found")
			return
		}

		resource, err := resourceService.Get(id)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				c.String(http.StatusNotFound, "Resource not found")
				return
			}
			log.Printf("Error retrieving resource %d: %v", id, err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		var content *readme.Content
		if resource.RepoURL != nil {
			content = fetcher.Fetch(c.Request.Context(), *resource.RepoURL)
		}

		c.HTML(http.StatusOK, "detail.html", gin.H{
			"Resource": resource,
			"Readme":   content,
		})
	}
}

// EditResourceHandler renders the edit form pre-filled with the resource.
func EditResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.String(http.StatusNotFound, "Resource not found")
			return
		}

		resource, err := resourceService.Get(id)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				c.String(http.StatusNotFound, "Resource not found")
				return
			}
			log.Printf("Error retrieving resource %d: %v", id, err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		c.HTML(http.StatusOK, "form.html", gin.H{
			"Action":      "/resources/" + strconv.FormatUint(uint64(id), 10) + "/update",
			"Resource":    resource,
			"TypeChoices": models.TypeChoices(),
			"Title":       "Edit resource",
			"SubmitLabel": "Update",
		})
	}
}

// UpdateResourceHandler handles the edit form submission. All fields are
// replaced; on success it redirects to the detail page.
func UpdateResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.String(http.StatusNotFound, "Resource not found")
			return
		}

		var form resourceForm
		if err := c.ShouldBind(&form); err != nil {
			c.String(http.StatusBadRequest, "Invalid form submission")
			return
		}

		if _, err := resourceService.Update(id, form.toInput()); err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				c.String(http.StatusNotFound, "Resource not found")
				return
			}
			if isClientError(err) {
				c.String(http.StatusBadRequest, "Invalid resource: %v", err)
				return
			}
			log.Printf("Error updating resource %d: %v", id, err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		c.Redirect(http.StatusSeeOther, "/resources/"+strconv.FormatUint(uint64(id), 10))
	}
}

// DeleteResourceHandler removes a resource and redirects to the listing
// page. Deleting an unknown id is not an error.
func DeleteResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}

		if err := resourceService.Delete(id); err != nil {
			log.Printf("Error deleting resource %d: %v", id, err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		c.Redirect(http.StatusSeeOther, "/")
	}
}

// APIListResourcesHandler is the JSON mirror of the listing page. Unlike
// the HTML page, an invalid resource_type value here is a client error.
func APIListResourcesHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resources, err := resourceService.List(c.Query("q"), c.Query("resource_type"), true)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidResourceType) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource type"})
				return
			}
			log.Printf("Error listing resources: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if resources == nil {
			resources = []models.Resource{}
		}
		c.JSON(http.StatusOK, resources)
	}
}

// APIGetResourceHandler returns a single resource as JSON, or 404.
func APIGetResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}

		resource, err := resourceService.Get(id)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
				return
			}
			log.Printf("Error retrieving resource %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, resource)
	}
}
