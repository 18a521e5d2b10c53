package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/wanderdesk/booking-api/internal/models"
	"gorm.io/gorm"
)

type Store interface {
	Create(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	// List returns bookings newest first; an empty status returns all of them.
	List(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	// UpdateStatus applies status atomically and returns the updated booking
	// together with the status it replaced.
	UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, models.BookingStatus, error)
	History(ctx context.Context, id uint) ([]models.BookingStatusChange, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *GormStore) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) List(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	q := s.db.WithContext(ctx).Order("created_at desc").Order("id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, models.BookingStatus, error) {
	var (
		b        models.Booking
		previous models.BookingStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		previous = b.Status

		if err := tx.Model(&b).Update("status", status).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		b.Status = status

		change := models.BookingStatusChange{
			BookingID:  b.ID,
			FromStatus: previous,
			ToStatus:   status,
		}
		if err := tx.Create(&change).Error; err != nil {
			return fmt.Errorf("record status change: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return &b, previous, nil
}

func (s *GormStore) History(ctx context.Context, id uint) ([]models.BookingStatusChange, error) {
	var changes []models.BookingStatusChange
	if err := s.db.WithContext(ctx).Where("booking_id = ?", id).Order("id desc").Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
