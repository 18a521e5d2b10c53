package notifier

import (
	"context"
	"fmt"

	"github.com/wanderdesk/booking-api/internal/models"
)

// Notifier delivers booking lifecycle alerts. Delivery is best-effort: the
// result reports whether every message went out, and failures are logged by
// the implementation rather than returned.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, booking models.Booking, pkg *models.Package) bool
	NotifyBookingStatusChanged(ctx context.Context, booking models.Booking, pkg *models.Package) bool
}

// Multi fans an alert out to every notifier, attempting all of them.
type Multi []Notifier

func (m Multi) NotifyBookingCreated(ctx context.Context, booking models.Booking, pkg *models.Package) bool {
	ok := len(m) > 0
	for _, n := range m {
		if !n.NotifyBookingCreated(ctx, booking, pkg) {
			ok = false
		}
	}
	return ok
}

func (m Multi) NotifyBookingStatusChanged(ctx context.Context, booking models.Booking, pkg *models.Package) bool {
	ok := len(m) > 0
	for _, n := range m {
		if !n.NotifyBookingStatusChanged(ctx, booking, pkg) {
			ok = false
		}
	}
	return ok
}

// DeliveryError is a failed attempt to hand one message to a channel.
type DeliveryError struct {
	Channel   string
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery to %s failed: %v", e.Channel, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func packageName(booking models.Booking, pkg *models.Package) string {
	if pkg != nil && pkg.Title != "" {
		return pkg.Title
	}
	return fmt.Sprintf("Package #%d", booking.PackageID)
}
