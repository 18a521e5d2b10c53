// Package export renders booking snapshots for download.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wanderdesk/booking-api/internal/models"
)

var ErrNoBookings = errors.New("there are no bookings to export")

var csvHeader = []string{
	"Booking ID",
	"Customer Name",
	"Email",
	"Phone",
	"Package ID",
	"Travel Date",
	"Number of Travelers",
	"Special Requirements",
	"Status",
	"Booking Date",
}

// Filename names an export taken at now by its UTC date, e.g.
// bookings-2026-10-16.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("bookings-%s.csv", now.UTC().Format(time.DateOnly))
}

// WriteBookingsCSV writes one header row and one row per booking. String
// columns are always quoted; booking dates are rendered in loc.
func WriteBookingsCSV(w io.Writer, bookings []models.Booking, loc *time.Location) error {
	if len(bookings) == 0 {
		return ErrNoBookings
	}
	if loc == nil {
		loc = time.Local
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(csvHeader, ",") + "\n"); err != nil {
		return err
	}

	for _, b := range bookings {
		row := []string{
			strconv.FormatUint(uint64(b.ID), 10),
			quote(b.Name),
			quote(b.Email),
			quote(b.Phone),
			strconv.FormatUint(uint64(b.PackageID), 10),
			quote(b.TravelDate),
			strconv.Itoa(b.NumberOfTravelers),
			quote(b.SpecialRequirements),
			quote(string(b.Status.OrDefault())),
			bookingDate(b.CreatedAt, loc),
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// quote wraps s in double quotes, doubling any embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func bookingDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(loc).Format("1/2/2006")
}
