package repository

import (
	"context"
	"errors"

	"debteraser/internal/cache"
	"debteraser/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository covers the read-heavy dashboard catalogs: course
// modules, vault resources, and calendar events.
type CatalogRepository interface {
	ListModules(ctx context.Context) ([]models.Module, error)
	ListResources(ctx context.Context, category string) ([]models.Resource, error)
	GetResource(ctx context.Context, id uint) (*models.Resource, error)
	ListEvents(ctx context.Context) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, event *models.CalendarEvent) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository returns a new CatalogRepository implementation.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListModules(ctx context.Context) ([]models.Module, error) {
	var modules []models.Module
	err := cache.Aside(ctx, cache.ModulesKey, &modules, cache.ModulesTTL, func() error {
		return r.db.WithContext(ctx).Order("order_index ASC").Find(&modules).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return modules, nil
}

func (r *catalogRepository) ListResources(ctx context.Context, category string) ([]models.Resource, error) {
	var resources []models.Resource
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&resources).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return resources, nil
}

func (r *catalogRepository) GetResource(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	key := cache.ResourceKey(id)

	err := cache.Aside(ctx, key, &resource, cache.ResourceTTL, func() error {
		if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Resource", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *catalogRepository) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := cache.Aside(ctx, cache.EventsKey, &events, cache.EventsTTL, func() error {
		return r.db.WithContext(ctx).Order("date ASC").Find(&events).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *catalogRepository) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEvents(ctx)
	return nil
}
