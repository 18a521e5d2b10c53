package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wanderdesk/booking-api/internal/models"
)

type fakeMailer struct {
	sent    []Message
	failFor map[string]error
	panics  bool
}

func (m *fakeMailer) Send(ctx context.Context, msg Message) error {
	if m.panics {
		panic("provider exploded")
	}
	m.sent = append(m.sent, msg)
	if err, ok := m.failFor[msg.To]; ok {
		return err
	}
	return nil
}

var testOpts = EmailOptions{
	AdminEmail:    "ops@example.com",
	AdminPanelURL: "https://example.com/admin/bookings",
	AgencyName:    "Test Travels",
}

func testBooking() models.Booking {
	return models.Booking{
		ID:                7,
		PackageID:         3,
		Name:              "Asha Rao",
		Email:             "asha@example.com",
		Phone:             "+91 98200 00000",
		TravelDate:        "2026-12-20",
		NumberOfTravelers: 2,
	}
}

func TestEmailNotifier_Unconfigured(t *testing.T) {
	n := NewEmailNotifier(nil, testOpts)

	if n.NotifyBookingCreated(context.Background(), testBooking(), nil) {
		t.Error("expected NotifyBookingCreated to report false without a mailer")
	}
	if n.NotifyBookingStatusChanged(context.Background(), testBooking(), nil) {
		t.Error("expected NotifyBookingStatusChanged to report false without a mailer")
	}
}

func TestEmailNotifier_BookingCreated(t *testing.T) {
	t.Run("PackageFallback", func(t *testing.T) {
		mailer := &fakeMailer{}
		n := NewEmailNotifier(mailer, testOpts)

		if !n.NotifyBookingCreated(context.Background(), testBooking(), nil) {
			t.Fatal("expected send to succeed")
		}
		if len(mailer.sent) != 1 {
			t.Fatalf("expected 1 message, got %d", len(mailer.sent))
		}

		msg := mailer.sent[0]
		if msg.To != testOpts.AdminEmail {
			t.Errorf("expected message to %s, got %s", testOpts.AdminEmail, msg.To)
		}
		if msg.Subject != "New Booking: Package #3" {
			t.Errorf("unexpected subject %q", msg.Subject)
		}
		for _, want := range []string{"#7", "2026-12-20", "Asha Rao", "asha@example.com", "+91 98200 00000"} {
			if !strings.Contains(msg.HTML, want) {
				t.Errorf("expected HTML body to contain %q", want)
			}
		}
		if strings.Contains(msg.HTML, "Special Requirements") {
			t.Error("expected no special requirements section")
		}
	})

	t.Run("WithPackageAndRequirements", func(t *testing.T) {
		mailer := &fakeMailer{}
		n := NewEmailNotifier(mailer, testOpts)

		b := testBooking()
		b.SpecialRequirements = "Wheelchair access"
		pkg := &models.Package{ID: 3, Title: "Kerala Backwaters"}

		if !n.NotifyBookingCreated(context.Background(), b, pkg) {
			t.Fatal("expected send to succeed")
		}
		msg := mailer.sent[0]
		if msg.Subject != "New Booking: Kerala Backwaters" {
			t.Errorf("unexpected subject %q", msg.Subject)
		}
		if !strings.Contains(msg.HTML, "Wheelchair access") || !strings.Contains(msg.Text, "Wheelchair access") {
			t.Error("expected special requirements in both bodies")
		}
	})

	t.Run("ProviderError", func(t *testing.T) {
		mailer := &fakeMailer{failFor: map[string]error{testOpts.AdminEmail: errors.New("503")}}
		n := NewEmailNotifier(mailer, testOpts)

		if n.NotifyBookingCreated(context.Background(), testBooking(), nil) {
			t.Error("expected false on provider error")
		}
	})
}

func TestEmailNotifier_StatusChanged(t *testing.T) {
	t.Run("CustomerAndAdminCopy", func(t *testing.T) {
		mailer := &fakeMailer{}
		n := NewEmailNotifier(mailer, testOpts)

		b := testBooking()
		b.Status = models.StatusConfirmed
		if !n.NotifyBookingStatusChanged(context.Background(), b, &models.Package{Title: "Goa Getaway"}) {
			t.Fatal("expected send to succeed")
		}
		if len(mailer.sent) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(mailer.sent))
		}

		customer, admin := mailer.sent[0], mailer.sent[1]
		if customer.To != b.Email {
			t.Errorf("expected customer message to %s, got %s", b.Email, customer.To)
		}
		if customer.Subject != "Booking Status Update: Goa Getaway" {
			t.Errorf("unexpected customer subject %q", customer.Subject)
		}
		if admin.To != testOpts.AdminEmail {
			t.Errorf("expected admin copy to %s, got %s", testOpts.AdminEmail, admin.To)
		}
		if admin.Subject != "Booking Status Updated to confirmed: Goa Getaway" {
			t.Errorf("unexpected admin subject %q", admin.Subject)
		}
		if admin.HTML != customer.HTML {
			t.Error("expected admin copy to carry the customer body")
		}
		if !strings.Contains(customer.HTML, "has been confirmed") {
			t.Error("expected confirmed copy in body")
		}
	})

	t.Run("FirstSendFailsSecondStillAttempted", func(t *testing.T) {
		b := testBooking()
		b.Status = models.StatusCancelled
		mailer := &fakeMailer{failFor: map[string]error{b.Email: errors.New("bounced")}}
		n := NewEmailNotifier(mailer, testOpts)

		if n.NotifyBookingStatusChanged(context.Background(), b, nil) {
			t.Error("expected false when the customer send fails")
		}
		if len(mailer.sent) != 2 {
			t.Errorf("expected both sends attempted, got %d", len(mailer.sent))
		}
	})

	t.Run("PanicIsAbsorbed", func(t *testing.T) {
		n := NewEmailNotifier(&fakeMailer{panics: true}, testOpts)

		if n.NotifyBookingStatusChanged(context.Background(), testBooking(), nil) {
			t.Error("expected false when the provider panics")
		}
	})
}

func TestStatusMessage(t *testing.T) {
	cases := map[models.BookingStatus]string{
		models.StatusConfirmed: "has been confirmed",
		models.StatusCancelled: "has been cancelled",
		models.StatusCompleted: "marked as completed",
		models.StatusPending:   "status has been updated",
		"":                     "status has been updated",
	}
	for status, want := range cases {
		if got := StatusMessage(status); !strings.Contains(got, want) {
			t.Errorf("StatusMessage(%q) = %q, want it to contain %q", status, got, want)
		}
	}
}
