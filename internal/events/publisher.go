// Package events publishes booking lifecycle events to RabbitMQ so other
// services can react without polling the booking database.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wanderdesk/booking-api/internal/models"
)

const (
	Exchange = "bookings"

	RoutingBookingCreated       = "booking.created"
	RoutingBookingStatusChanged = "booking.status_changed"
)

type BookingEvent struct {
	BookingID         uint                 `json:"booking_id"`
	PackageID         uint                 `json:"package_id"`
	Status            models.BookingStatus `json:"status"`
	PreviousStatus    models.BookingStatus `json:"previous_status,omitempty"`
	TravelDate        string               `json:"travel_date"`
	NumberOfTravelers int                  `json:"number_of_travelers"`
	CustomerEmail     string               `json:"customer_email"`
	OccurredAt        time.Time            `json:"occurred_at"`
}

func NewBookingEvent(b models.Booking, previous models.BookingStatus) BookingEvent {
	return BookingEvent{
		BookingID:         b.ID,
		PackageID:         b.PackageID,
		Status:            b.Status.OrDefault(),
		PreviousStatus:    previous,
		TravelDate:        b.TravelDate,
		NumberOfTravelers: b.NumberOfTravelers,
		CustomerEmail:     b.Email,
		OccurredAt:        time.Now().UTC(),
	}
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Publisher owns one AMQP connection and a channel guarded by a mutex,
// since amqp channels must not publish concurrently. A channel closed by a
// broker or network failure is reopened on the next Publish.
type Publisher struct {
	connect func() (channel, io.Closer, error)

	mu       sync.Mutex
	conn     io.Closer
	ch       channel
	degraded bool
}

func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{connect: func() (channel, io.Closer, error) { return dial(url) }}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.reconnectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func dial(url string) (channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel open: %w", err)
	}

	if err := ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return ch, conn, nil
}

func (p *Publisher) reconnectLocked() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil

	ch, conn, err := p.connect()
	if err != nil {
		return err
	}
	p.ch, p.conn = ch, conn
	return nil
}

// Publish sends ev with the given routing key. A nil Publisher does nothing.
func (p *Publisher) Publish(ctx context.Context, routingKey string, ev BookingEvent) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.reconnectLocked(); err != nil {
			if !p.degraded {
				log.Printf("rabbitmq: connection lost, booking events are not being published: %v", err)
				p.degraded = true
			}
			return fmt.Errorf("publish %s: %w", routingKey, err)
		}
		if p.degraded {
			log.Printf("rabbitmq: reconnected, publishing booking events again")
			p.degraded = false
		}
	}

	if err := p.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", routingKey, err)
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
