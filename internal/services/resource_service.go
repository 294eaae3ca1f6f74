// Package services contains the business logic layer for the catalog application
package services

import (
	"strings"

	apperrors "github.com/ouchiface/catalog/internal/errors"
	"github.com/ouchiface/catalog/internal/models"
	"github.com/ouchiface/catalog/internal/repository"
)

// ResourceInput is the raw payload submitted by a form, the JSON API or
// the CLI, before validation and normalization.
type ResourceInput struct {
	Name         string
	ResourceType string
	Description  string
	LinkURL      string
	Location     string
	IconURL      string
	RepoURL      string
}

// ResourceService provides business logic methods for managing catalog resources.
// It acts as an intermediary between the HTTP handlers / CLI and the data
// repository: every payload passes through validation and normalization
// here before it reaches the store.
type ResourceService struct {
	resourceRepo repository.ResourceRepository
}

// NewResourceService creates and returns a new instance of ResourceService.
func NewResourceService(resourceRepo repository.ResourceRepository) *ResourceService {
	return &ResourceService{
		resourceRepo: resourceRepo,
	}
}

// normalizeOptional coerces empty or whitespace-only input to absent (nil).
// Anything else is passed through verbatim: no URL-syntax validation is
// performed, a malformed URL simply fails to enrich at display time.
func normalizeOptional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// validate turns a raw input into a well-formed Resource.
// Returns ErrMissingRequiredField for empty name/description and
// ErrInvalidResourceType for a type outside the closed set.
func validate(input ResourceInput) (*models.Resource, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.ErrMissingRequiredField{Field: "name"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.ErrMissingRequiredField{Field: "description"}
	}

	resourceType, ok := models.ParseResourceType(input.ResourceType)
	if !ok {
		return nil, apperrors.ErrInvalidResourceType
	}

	return &models.Resource{
		Name:         input.Name,
		ResourceType: resourceType,
		Description:  input.Description,
		LinkURL:      normalizeOptional(input.LinkURL),
		Location:     normalizeOptional(input.Location),
		IconURL:      normalizeOptional(input.IconURL),
		RepoURL:      normalizeOptional(input.RepoURL),
	}, nil
}

// Create validates the input and persists a new resource.
// The returned record carries the store-assigned id and timestamps.
func (s *ResourceService) Create(input ResourceInput) (*models.Resource, error) {
	resource, err := validate(input)
	if err != nil {
		return nil, err
	}
	return s.resourceRepo.Create(resource)
}

// Update validates the input and overwrites the resource with the given id.
// Returns ErrResourceNotFound if the id does not exist.
func (s *ResourceService) Update(id uint, input ResourceInput) (*models.Resource, error) {
	resource, err := validate(input)
	if err != nil {
		return nil, err
	}
	return s.resourceRepo.Update(id, resource)
}

// Get retrieves a single resource by id.
func (s *ResourceService) Get(id uint) (*models.Resource, error) {
	return s.resourceRepo.GetByID(id)
}

// Delete removes the resource with the given id. Unknown ids are a no-op.
func (s *ResourceService) Delete(id uint) error {
	return s.resourceRepo.Delete(id)
}

// List retrieves resources matching an optional name search and an
// optional raw type filter.
//
// The two surfaces disagree on purpose about invalid type values: the
// JSON API rejects them (strict=true, ErrInvalidResourceType) while the
// HTML page quietly treats them as "no filter" (strict=false), so that a
// stale bookmarked filter URL still renders the full catalog.
func (s *ResourceService) List(search, rawType string, strict bool) ([]models.Resource, error) {
	var resourceType models.ResourceType
	if rawType != "" {
		parsed, ok := models.ParseResourceType(rawType)
		if ok {
			resourceType = parsed
		} else if strict {
			return nil, apperrors.ErrInvalidResourceType
		}
	}
	return s.resourceRepo.List(search, resourceType)
}
