package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wanderdesk/booking-api/internal/models"
)

type fakeChannel struct {
	closed    bool
	published []string
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.closed {
		return amqp.ErrClosed
	}
	c.published = append(c.published, key)
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func TestPublisher_Reconnect(t *testing.T) {
	var (
		channels []*fakeChannel
		failDial bool
	)
	p := &Publisher{connect: func() (channel, io.Closer, error) {
		if failDial {
			return nil, nil, errors.New("connection refused")
		}
		ch := &fakeChannel{}
		channels = append(channels, ch)
		return ch, nopCloser{}, nil
	}}
	ctx := context.Background()
	ev := NewBookingEvent(models.Booking{ID: 3}, "")

	if err := p.Publish(ctx, RoutingBookingCreated, ev); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(channels))
	}

	t.Run("BrokerDown", func(t *testing.T) {
		channels[0].closed = true
		failDial = true
		if err := p.Publish(ctx, RoutingBookingStatusChanged, ev); err == nil {
			t.Error("expected publish to fail while broker is down")
		}
		if !p.degraded {
			t.Error("expected publisher to be marked degraded")
		}
	})

	t.Run("BrokerBack", func(t *testing.T) {
		failDial = false
		if err := p.Publish(ctx, RoutingBookingStatusChanged, ev); err != nil {
			t.Fatalf("expected publish after reconnect, got %v", err)
		}
		if p.degraded {
			t.Error("expected degraded flag cleared")
		}
		last := channels[len(channels)-1]
		if len(last.published) != 1 || last.published[0] != RoutingBookingStatusChanged {
			t.Errorf("expected event on the new channel, got %v", last.published)
		}
	})
}

func TestNilPublisher(t *testing.T) {
	var p *Publisher
	ev := NewBookingEvent(models.Booking{ID: 1}, "")
	if err := p.Publish(context.Background(), RoutingBookingCreated, ev); err != nil {
		t.Errorf("expected nil publisher to be a no-op, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("expected nil publisher close to succeed, got %v", err)
	}
}

func TestNewBookingEvent(t *testing.T) {
	b := models.Booking{ID: 9, PackageID: 4, Email: "c@example.com", TravelDate: "2026-11-02", NumberOfTravelers: 3}
	ev := NewBookingEvent(b, models.StatusPending)

	if ev.Status != models.StatusPending {
		t.Errorf("expected empty status to default to pending, got %q", ev.Status)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["booking_id"] != float64(9) {
		t.Errorf("expected booking_id 9, got %v", decoded["booking_id"])
	}
	if decoded["previous_status"] != "pending" {
		t.Errorf("expected previous_status pending, got %v", decoded["previous_status"])
	}
}
