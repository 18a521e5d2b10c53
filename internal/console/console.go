// Package console holds the admin booking console: it keeps the loaded
// booking list, filters it for display, drives status changes and exports
// the loaded set as CSV.
package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/wanderdesk/booking-api/internal/export"
	"github.com/wanderdesk/booking-api/internal/models"
)

const FilterAll = "all"

var ErrNotLoaded = errors.New("booking is not in the loaded list")

// Notices receives user-visible toasts.
type Notices interface {
	Success(title, message string)
	Failure(title, message string)
}

// WriterNotices prints notices as single lines.
type WriterNotices struct {
	W io.Writer
}

func (n WriterNotices) Success(title, message string) {
	fmt.Fprintf(n.W, "%s: %s\n", title, message)
}

func (n WriterNotices) Failure(title, message string) {
	fmt.Fprintf(n.W, "%s: %s\n", title, message)
}

type Console struct {
	client   Client
	notices  Notices
	bookings []models.Booking
	filter   string
	location *time.Location
}

func New(client Client, notices Notices) *Console {
	return &Console{client: client, notices: notices, filter: FilterAll, location: time.Local}
}

// Refresh replaces the loaded list with the server's current bookings.
func (c *Console) Refresh(ctx context.Context) error {
	bookings, err := c.client.ListBookings(ctx)
	if err != nil {
		log.Printf("Failed to load bookings: %v", err)
		c.notices.Failure("Error", "Failed to load bookings")
		return err
	}
	c.bookings = bookings
	return nil
}

// Bookings returns the loaded, unfiltered list.
func (c *Console) Bookings() []models.Booking {
	return c.bookings
}

func (c *Console) SetFilter(status string) {
	if status == "" {
		status = FilterAll
	}
	c.filter = status
}

func (c *Console) Filter() string {
	return c.filter
}

// Visible applies the status filter to the loaded list. Bookings without a
// status count as pending.
func (c *Console) Visible() []models.Booking {
	if c.filter == FilterAll {
		return c.bookings
	}
	var out []models.Booking
	for _, b := range c.bookings {
		if string(b.Status.OrDefault()) == c.filter {
			out = append(out, b)
		}
	}
	return out
}

func Badge(b models.Booking) string {
	return b.Status.Label()
}

// UpdateStatus asks the server to change a booking's status. On success the
// whole list is refetched; on failure the loaded list is left as it was.
func (c *Console) UpdateStatus(ctx context.Context, id uint, status string) error {
	if _, err := c.client.UpdateStatus(ctx, id, status); err != nil {
		log.Printf("Failed to update booking #%d: %v", id, err)
		c.notices.Failure("Error", "Failed to update booking status")
		return err
	}

	c.notices.Success("Status Updated", fmt.Sprintf("Booking #%d status changed to %s", id, status))
	return c.Refresh(ctx)
}

type Details struct {
	Booking models.Booking
	// Package is nil when the package could not be fetched.
	Package *models.Package
}

func (d Details) PackageSummary() string {
	if d.Package == nil {
		return "Package details not available"
	}
	return fmt.Sprintf("%s (%s)", d.Package.Title, d.Package.Duration)
}

// ViewDetails finds a booking in the loaded list and fetches its package.
// A failed package fetch is not an error.
func (c *Console) ViewDetails(ctx context.Context, id uint) (*Details, error) {
	for _, b := range c.bookings {
		if b.ID != id {
			continue
		}

		d := &Details{Booking: b}
		pkg, err := c.client.GetPackage(ctx, b.PackageID)
		if err != nil {
			log.Printf("Error fetching package details: %v", err)
		} else {
			d.Package = pkg
		}
		return d, nil
	}
	return nil, ErrNotLoaded
}

// ExportCSV writes the loaded bookings to dir and returns the file path.
func (c *Console) ExportCSV(dir string, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := export.WriteBookingsCSV(&buf, c.bookings, c.location); err != nil {
		if errors.Is(err, export.ErrNoBookings) {
			c.notices.Failure("No Data", "There are no bookings to export")
		} else {
			c.notices.Failure("Error", "Failed to export bookings")
		}
		return "", err
	}

	path := filepath.Join(dir, export.Filename(now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		log.Printf("Failed to write export: %v", err)
		c.notices.Failure("Error", "Failed to export bookings")
		return "", err
	}

	c.notices.Success("Export Complete", fmt.Sprintf("%d bookings exported to %s", len(c.bookings), path))
	return path, nil
}
