package booking

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/wanderdesk/booking-api/internal/catalog"
	"github.com/wanderdesk/booking-api/internal/events"
	"github.com/wanderdesk/booking-api/internal/models"
	"github.com/wanderdesk/booking-api/internal/notifier"
)

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, ev events.BookingEvent) error
}

// Service owns the booking lifecycle. Notifications and events are sent
// after the store commits and never affect the outcome of an operation.
//
// Any status may move to any other status; there are no terminal states.
type Service struct {
	store    Store
	packages catalog.Finder
	notifier notifier.Notifier
	events   EventPublisher
}

func NewService(store Store, packages catalog.Finder, n notifier.Notifier, ev EventPublisher) *Service {
	return &Service{store: store, packages: packages, notifier: n, events: ev}
}

type CreateInput struct {
	PackageID           uint
	Name                string
	Email               string
	Phone               string
	TravelDate          string
	NumberOfTravelers   int
	SpecialRequirements string
	WhatsappConsent     bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	b := &models.Booking{
		PackageID:           in.PackageID,
		Name:                strings.TrimSpace(in.Name),
		Email:               strings.TrimSpace(in.Email),
		Phone:               strings.TrimSpace(in.Phone),
		TravelDate:          strings.TrimSpace(in.TravelDate),
		NumberOfTravelers:   in.NumberOfTravelers,
		SpecialRequirements: strings.TrimSpace(in.SpecialRequirements),
		WhatsappConsent:     in.WhatsappConsent,
		Status:              models.StatusPending,
	}
	if err := validateNew(b); err != nil {
		return nil, err
	}

	pkg, err := s.packages.FindPackage(ctx, b.PackageID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &ValidationError{Field: "package_id", Message: "unknown package"}
		}
		return nil, &PersistenceError{Op: "find package", Err: err}
	}

	if err := s.store.Create(ctx, b); err != nil {
		return nil, &PersistenceError{Op: "create booking", Err: err}
	}

	// Once stored, the caller going away must not abort notifications.
	nctx := context.WithoutCancel(ctx)
	if !s.notifier.NotifyBookingCreated(nctx, *b, pkg) {
		log.Printf("Booking #%d created without admin notification", b.ID)
	}
	s.publish(nctx, events.RoutingBookingCreated, *b, "")

	return b, nil
}

func validateNew(b *models.Booking) error {
	required := []struct{ field, value string }{
		{"name", b.Name},
		{"email", b.Email},
		{"phone", b.Phone},
		{"travel_date", b.TravelDate},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}
	if b.PackageID == 0 {
		return &ValidationError{Field: "package_id", Message: "is required"}
	}
	if _, err := mail.ParseAddress(b.Email); err != nil {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	if _, err := time.Parse(time.DateOnly, b.TravelDate); err != nil {
		return &ValidationError{Field: "travel_date", Message: "must be YYYY-MM-DD"}
	}
	if b.NumberOfTravelers < 1 {
		return &ValidationError{Field: "number_of_travelers", Message: "must be at least 1"}
	}
	return nil
}

// UpdateStatus moves a booking to status and then tells the customer and
// the operators about it.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	target, ok := models.ParseBookingStatus(status)
	if !ok {
		return nil, &ValidationError{Field: "status", Message: "must be one of pending, confirmed, cancelled, completed"}
	}

	b, previous, err := s.store.UpdateStatus(ctx, id, target)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &PersistenceError{Op: "update booking status", Err: err}
	}

	// Once committed, the caller going away must not abort notifications.
	nctx := context.WithoutCancel(ctx)

	// The package is only needed for the email copy.
	pkg, err := s.packages.FindPackage(nctx, b.PackageID)
	if err != nil {
		log.Printf("Booking #%d: package %d unavailable for notification: %v", b.ID, b.PackageID, err)
		pkg = nil
	}

	if !s.notifier.NotifyBookingStatusChanged(nctx, *b, pkg) {
		log.Printf("Booking #%d status set to %s without customer notification", b.ID, b.Status)
	}
	s.publish(nctx, events.RoutingBookingStatusChanged, *b, previous)

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &PersistenceError{Op: "find booking", Err: err}
	}
	return b, nil
}

// List returns bookings newest first. An empty filter or "all" returns every
// booking.
func (s *Service) List(ctx context.Context, filter string) ([]models.Booking, error) {
	var status models.BookingStatus
	if filter != "" && filter != "all" {
		var ok bool
		if status, ok = models.ParseBookingStatus(filter); !ok {
			return nil, &ValidationError{Field: "status", Message: "unknown status filter"}
		}
	}

	bookings, err := s.store.List(ctx, status)
	if err != nil {
		return nil, &PersistenceError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

func (s *Service) History(ctx context.Context, id uint) ([]models.BookingStatusChange, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	changes, err := s.store.History(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "booking history", Err: err}
	}
	return changes, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, b models.Booking, previous models.BookingStatus) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, events.NewBookingEvent(b, previous)); err != nil {
		log.Printf("Booking #%d: failed to publish %s: %v", b.ID, routingKey, err)
	}
}
