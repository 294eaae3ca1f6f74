package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/ouchiface/catalog/internal/errors"
	"github.com/ouchiface/catalog/internal/models"
)

// ResourceRepository est une interface qui définit les méthodes d'accès aux données
type ResourceRepository interface {
	List(search string, resourceType models.ResourceType) ([]models.Resource, error)
	GetByID(id uint) (*models.Resource, error)
	Create(resource *models.Resource) (*models.Resource, error)
	Update(id uint, resource *models.Resource) (*models.Resource, error)
	Delete(id uint) error
}

// GormResourceRepository est l'implémentation de ResourceRepository utilisant GORM.
type GormResourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository crée et retourne une nouvelle instance de GormResourceRepository.
func NewResourceRepository(db *gorm.DB) *GormResourceRepository {
	return &GormResourceRepository{db: db}
}

// List retrieves resources ordered by most recently updated first, ties
// broken by insertion order. An empty search matches everything; a
// non-empty search is a case-insensitive substring match on the name only.
// An empty resourceType applies no type filter. Both filters combine with
// AND. The full matching set is returned (no pagination).
func (r *GormResourceRepository) List(search string, resourceType models.ResourceType) ([]models.Resource, error) {
	query := r.db.Model(&models.Resource{})

	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	var resources []models.Resource
	if err := query.Order("updated_at DESC, id ASC").Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

// GetByID récupère une ressource de la base de données en utilisant son id.
func (r *GormResourceRepository) GetByID(id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.First(&resource, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to retrieve resource %d: %w", id, err)
	}
	return &resource, nil
}

// Create insère une nouvelle ressource dans la base de données.
// Both timestamps are set from the same clock reading so they are equal
// at creation. The stored row is re-read and returned, so callers observe
// canonical stored values rather than their own input.
func (r *GormResourceRepository) Create(resource *models.Resource) (*models.Resource, error) {
	now := time.Now().UTC()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	if err := r.db.Create(resource).Error; err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return r.GetByID(resource.ID)
}

// Update overwrites all mutable fields of the resource with the given id,
// refreshing updated_at and preserving created_at. The update runs as a
// column map so that nil optional fields are written as NULL instead of
// being skipped. Zero rows affected means the id does not exist, which is
// reported as ErrResourceNotFound.
func (r *GormResourceRepository) Update(id uint, resource *models.Resource) (*models.Resource, error) {
	result := r.db.Model(&models.Resource{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":          resource.Name,
		"resource_type": resource.ResourceType,
		"description":   resource.Description,
		"link_url":      resource.LinkURL,
		"location":      resource.Location,
		"icon_url":      resource.IconURL,
		"repo_url":      resource.RepoURL,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update resource %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrResourceNotFound
	}
	return r.GetByID(id)
}

// Delete supprime une ressource par son id.
// Deleting an id that does not exist is a no-op, not an error.
func (r *GormResourceRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Resource{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete resource %d: %w", id, err)
	}
	return nil
}
