package notifier

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/wanderdesk/booking-api/internal/models"
)

// Mailer is a transactional email provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type EmailOptions struct {
	AdminEmail    string
	AdminPanelURL string
	AgencyName    string
}

// EmailNotifier sends booking alerts by email. With a nil Mailer it runs in
// degraded mode: nothing is sent and every call reports false.
type EmailNotifier struct {
	mailer Mailer
	opts   EmailOptions
}

func NewEmailNotifier(mailer Mailer, opts EmailOptions) *EmailNotifier {
	if mailer == nil {
		log.Printf("Email notifications disabled: no mail provider configured")
	}
	return &EmailNotifier{mailer: mailer, opts: opts}
}

var statusMessages = map[models.BookingStatus]string{
	models.StatusConfirmed: "Your booking has been confirmed. We look forward to providing you with an amazing travel experience!",
	models.StatusCancelled: "Your booking has been cancelled. If you have any questions, please contact our support team.",
	models.StatusCompleted: "Your booking has been marked as completed. We hope you enjoyed your trip with us!",
}

const genericStatusMessage = "Your booking status has been updated."

// StatusMessage returns the customer-facing copy for a status.
func StatusMessage(status models.BookingStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return genericStatusMessage
}

// NotifyBookingCreated alerts the operator address about a new booking.
func (n *EmailNotifier) NotifyBookingCreated(ctx context.Context, booking models.Booking, pkg *models.Package) bool {
	if n.mailer == nil {
		log.Printf("Booking #%d notification email not sent: mail provider not configured", booking.ID)
		observeSkipped("email", kindCreated)
		return false
	}

	data := n.templateData(booking, pkg)
	html, err := render("created.html", data)
	if err != nil {
		log.Printf("Failed to render booking notification email: %v", err)
		observe("email", kindCreated, err)
		return false
	}

	msg := Message{
		To:      n.opts.AdminEmail,
		Subject: fmt.Sprintf("New Booking: %s", data.PackageName),
		HTML:    html,
		Text:    createdText(data),
	}
	if err := n.deliver(ctx, kindCreated, msg); err != nil {
		log.Printf("Failed to send booking notification email: %v", err)
		return false
	}

	log.Printf("Booking notification email sent to %s", n.opts.AdminEmail)
	return true
}

// NotifyBookingStatusChanged tells the customer about their booking's new
// status and sends the same message to the operator address. Both sends are
// attempted even if the first one fails.
func (n *EmailNotifier) NotifyBookingStatusChanged(ctx context.Context, booking models.Booking, pkg *models.Package) bool {
	if n.mailer == nil {
		log.Printf("Booking #%d status email not sent: mail provider not configured", booking.ID)
		observeSkipped("email", kindStatusChanged)
		return false
	}

	data := n.templateData(booking, pkg)
	html, err := render("status.html", data)
	if err != nil {
		log.Printf("Failed to render booking status email: %v", err)
		observe("email", kindStatusChanged, err)
		return false
	}
	text := statusText(data)

	customer := Message{
		To:      booking.Email,
		Subject: fmt.Sprintf("Booking Status Update: %s", data.PackageName),
		HTML:    html,
		Text:    text,
	}
	admin := Message{
		To:      n.opts.AdminEmail,
		Subject: fmt.Sprintf("Booking Status Updated to %s: %s", data.Status, data.PackageName),
		HTML:    html,
		Text:    text,
	}

	ok := true
	for _, msg := range []Message{customer, admin} {
		if err := n.deliver(ctx, kindStatusChanged, msg); err != nil {
			log.Printf("Failed to send booking status email: %v", err)
			ok = false
		}
	}
	if ok {
		log.Printf("Status update email sent to %s and copied to admin", booking.Email)
	}
	return ok
}

func (n *EmailNotifier) deliver(ctx context.Context, kind string, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DeliveryError{Channel: "email", Recipient: msg.To, Err: fmt.Errorf("mailer panic: %v", r)}
		}
		observe("email", kind, err)
	}()

	if sendErr := n.mailer.Send(ctx, msg); sendErr != nil {
		return &DeliveryError{Channel: "email", Recipient: msg.To, Err: sendErr}
	}
	return nil
}

type emailData struct {
	AgencyName    string
	AdminPanelURL string
	PackageName   string
	Status        models.BookingStatus
	StatusMessage string
	Booking       models.Booking
}

func (n *EmailNotifier) templateData(booking models.Booking, pkg *models.Package) emailData {
	status := booking.Status.OrDefault()
	return emailData{
		AgencyName:    n.opts.AgencyName,
		AdminPanelURL: n.opts.AdminPanelURL,
		PackageName:   packageName(booking, pkg),
		Status:        status,
		StatusMessage: StatusMessage(status),
		Booking:       booking,
	}
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
