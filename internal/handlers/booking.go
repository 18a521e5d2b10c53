package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/wanderdesk/booking-api/internal/auth"
	"github.com/wanderdesk/booking-api/internal/booking"
	"github.com/wanderdesk/booking-api/internal/export"
	"github.com/wanderdesk/booking-api/internal/models"
)

type BookingHandler struct {
	service     *booking.Service
	authHandler *auth.AuthHandler
	now         func() time.Time
}

func NewBookingHandler(service *booking.Service, authHandler *auth.AuthHandler) *BookingHandler {
	return &BookingHandler{service: service, authHandler: authHandler, now: time.Now}
}

type BookingResponse struct {
	Body *models.Booking
}

type CreateBookingRequest struct {
	Body struct {
		PackageID           uint   `json:"package_id" doc:"Package being booked"`
		Name                string `json:"name" doc:"Customer name"`
		Email               string `json:"email" doc:"Customer email"`
		Phone               string `json:"phone" doc:"Customer phone"`
		TravelDate          string `json:"travel_date" doc:"Travel date (YYYY-MM-DD)"`
		NumberOfTravelers   int    `json:"number_of_travelers" doc:"Number of travelers" minimum:"1"`
		SpecialRequirements string `json:"special_requirements,omitempty" doc:"Dietary, accessibility or other requests"`
		WhatsappConsent     bool   `json:"whatsapp_consent,omitempty" doc:"Customer agrees to be contacted on WhatsApp"`
	}
}

func (h *BookingHandler) HandleCreate(ctx context.Context, input *CreateBookingRequest) (*BookingResponse, error) {
	b, err := h.service.Create(ctx, booking.CreateInput{
		PackageID:           input.Body.PackageID,
		Name:                input.Body.Name,
		Email:               input.Body.Email,
		Phone:               input.Body.Phone,
		TravelDate:          input.Body.TravelDate,
		NumberOfTravelers:   input.Body.NumberOfTravelers,
		SpecialRequirements: input.Body.SpecialRequirements,
		WhatsappConsent:     input.Body.WhatsappConsent,
	})
	if err != nil {
		return nil, bookingError(err, "Failed to create booking")
	}

	return &BookingResponse{Body: b}, nil
}

type ListBookingsRequest struct {
	auth.AuthInput
	Status string `query:"status" doc:"Only bookings with this status; 'all' or empty for every booking"`
}

type ListBookingsResponse struct {
	Body []models.Booking
}

func (h *BookingHandler) HandleList(ctx context.Context, input *ListBookingsRequest) (*ListBookingsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	bookings, err := h.service.List(ctx, input.Status)
	if err != nil {
		return nil, bookingError(err, "Failed to list bookings")
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	return &ListBookingsResponse{Body: bookings}, nil
}

type GetBookingRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *BookingHandler) HandleGet(ctx context.Context, input *GetBookingRequest) (*BookingResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	b, err := h.service.Get(ctx, input.ID)
	if err != nil {
		return nil, bookingError(err, "Failed to load booking")
	}
	return &BookingResponse{Body: b}, nil
}

type BookingHistoryResponse struct {
	Body struct {
		BookingID uint                         `json:"booking_id"`
		History   []models.BookingStatusChange `json:"history"`
	}
}

func (h *BookingHandler) HandleHistory(ctx context.Context, input *GetBookingRequest) (*BookingHistoryResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	changes, err := h.service.History(ctx, input.ID)
	if err != nil {
		return nil, bookingError(err, "Failed to load booking history")
	}

	res := &BookingHistoryResponse{}
	res.Body.BookingID = input.ID
	res.Body.History = changes
	if res.Body.History == nil {
		res.Body.History = []models.BookingStatusChange{}
	}
	return res, nil
}

type UpdateStatusRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Status string `json:"status" doc:"One of pending, confirmed, cancelled, completed"`
	}
}

func (h *BookingHandler) HandleUpdateStatus(ctx context.Context, input *UpdateStatusRequest) (*BookingResponse, error) {
	operatorID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	b, err := h.service.UpdateStatus(ctx, input.ID, input.Body.Status)
	if err != nil {
		return nil, bookingError(err, "Failed to update booking status")
	}

	log.Printf("Operator %d set booking #%d to %s", operatorID, b.ID, b.Status)
	return &BookingResponse{Body: b}, nil
}

type ExportBookingsRequest struct {
	auth.AuthInput
}

type ExportBookingsResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *BookingHandler) HandleExport(ctx context.Context, input *ExportBookingsRequest) (*ExportBookingsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	bookings, err := h.service.List(ctx, "")
	if err != nil {
		return nil, bookingError(err, "Failed to export bookings")
	}

	var buf bytes.Buffer
	if err := export.WriteBookingsCSV(&buf, bookings, time.Local); err != nil {
		if errors.Is(err, export.ErrNoBookings) {
			return nil, huma.Error404NotFound("There are no bookings to export")
		}
		log.Printf("Failed to export bookings: %v", err)
		return nil, huma.Error500InternalServerError("Failed to export bookings")
	}

	return &ExportBookingsResponse{
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())),
		Body:               buf.Bytes(),
	}, nil
}

// bookingError maps service errors onto API errors without exposing
// internal details.
func bookingError(err error, fallback string) error {
	var (
		ve *booking.ValidationError
		nf *booking.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return huma.Error400BadRequest(ve.Error())
	case errors.As(err, &nf):
		return huma.Error404NotFound("Booking not found")
	default:
		log.Printf("%s: %v", fallback, err)
		return huma.Error500InternalServerError(fallback)
	}
}
