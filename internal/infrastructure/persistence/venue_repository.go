package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/venue"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEventRepository implements venue.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*venue.Event, error) {
	var model models.EventModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAllEvents returns every event ordered by start time
func (r *GormEventRepository) FindAllEvents(ctx context.Context) ([]venue.Event, error) {
	var rows []models.EventModel
	if err := conn(ctx, r.db).Order("starts_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]venue.Event, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an event without a version check
func (r *GormEventRepository) Save(ctx context.Context, e *venue.Event) error {
	return conn(ctx, r.db).Save(models.EventModelFromDomain(e)).Error
}

// SaveWithLock saves the event with optimistic locking
func (r *GormEventRepository) SaveWithLock(ctx context.Context, e *venue.Event) error {
	return saveWithLock(ctx, r.db, models.EventModelFromDomain(e))
}

// GormBookingRepository implements venue.BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*venue.Booking, error) {
	var model models.BookingModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindAllBookings returns every booking ordered by number
func (r *GormBookingRepository) FindAllBookings(ctx context.Context) ([]venue.Booking, error) {
	var rows []models.BookingModel
	if err := conn(ctx, r.db).Order("booking_number").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]venue.Booking, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a booking without a version check
func (r *GormBookingRepository) Save(ctx context.Context, b *venue.Booking) error {
	return conn(ctx, r.db).Save(models.BookingModelFromDomain(b)).Error
}

// SaveWithLock saves the booking with optimistic locking
func (r *GormBookingRepository) SaveWithLock(ctx context.Context, b *venue.Booking) error {
	return saveWithLock(ctx, r.db, models.BookingModelFromDomain(b))
}
