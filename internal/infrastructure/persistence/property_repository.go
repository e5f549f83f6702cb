package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPropertyRepository implements property.PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var model models.PropertyModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// List returns one page of properties. Equals may filter on status and is_active.
func (r *GormPropertyRepository) List(ctx context.Context, filter shared.Filter) (shared.Page[property.Property], error) {
	return listPage(ctx, r.db, filter, PropertySortFields, propertiesToDomain)
}

// FindActive returns every property with is_active set
func (r *GormPropertyRepository) FindActive(ctx context.Context) ([]property.Property, error) {
	var rows []models.PropertyModel
	if err := conn(ctx, r.db).Where("is_active = ?", true).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	return propertiesToDomain(rows), nil
}

// Save creates or updates a property without a version check
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return conn(ctx, r.db).Save(models.PropertyModelFromDomain(p)).Error
}

// SaveWithLock saves the property with optimistic locking
func (r *GormPropertyRepository) SaveWithLock(ctx context.Context, p *property.Property) error {
	return saveWithLock(ctx, r.db, models.PropertyModelFromDomain(p))
}

func propertiesToDomain(rows []models.PropertyModel) []property.Property {
	out := make([]property.Property, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormLeaseRepository implements property.LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByID finds a lease by ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Lease, error) {
	var model models.LeaseModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByStatus returns leases in the given status
func (r *GormLeaseRepository) FindByStatus(ctx context.Context, status property.LeaseStatus) ([]property.Lease, error) {
	return r.find(conn(ctx, r.db).Where("status = ?", status))
}

// ActiveLeaseForProperty returns the active lease covering asOf
func (r *GormLeaseRepository) ActiveLeaseForProperty(ctx context.Context, propertyID uuid.UUID, asOf time.Time) (*property.Lease, error) {
	var model models.LeaseModel
	err := conn(ctx, r.db).
		Where("property_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			propertyID, property.LeaseStatusActive, models.UTC(asOf), models.UTC(asOf)).
		Order("start_date").
		First(&model).Error
	if err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindActiveOverlapping returns active leases on the property intersecting [start,end]
func (r *GormLeaseRepository) FindActiveOverlapping(ctx context.Context, propertyID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]property.Lease, error) {
	query := conn(ctx, r.db).
		Where("property_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			propertyID, property.LeaseStatusActive, models.UTC(end), models.UTC(start))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return r.find(query)
}

// FindOverdue returns active leases that ended before asOf
func (r *GormLeaseRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]property.Lease, error) {
	return r.find(conn(ctx, r.db).Where("status = ? AND end_date < ?", property.LeaseStatusActive, models.UTC(asOf)))
}

// Save creates or updates a lease without a version check
func (r *GormLeaseRepository) Save(ctx context.Context, l *property.Lease) error {
	return conn(ctx, r.db).Save(models.LeaseModelFromDomain(l)).Error
}

// SaveWithLock saves the lease with optimistic locking
func (r *GormLeaseRepository) SaveWithLock(ctx context.Context, l *property.Lease) error {
	return saveWithLock(ctx, r.db, models.LeaseModelFromDomain(l))
}

func (r *GormLeaseRepository) find(query *gorm.DB) ([]property.Lease, error) {
	var rows []models.LeaseModel
	if err := query.Order("start_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]property.Lease, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}
