// Command bookingctl is the operator console for the booking API: it lists
// and filters bookings, changes their status, shows details and exports CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/wanderdesk/booking-api/internal/console"
)

const usage = `usage: bookingctl [-api URL] [-api-key KEY] <command> [args]

commands:
  list [-status pending|confirmed|cancelled|completed|all]
  show <id>
  set-status <id> <status>
  export [-dir DIR]
`

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	viper.SetDefault("BOOKING_API_URL", "http://127.0.0.1:8080")
	viper.AutomaticEnv()

	fs := flag.NewFlagSet("bookingctl", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	apiURL := fs.String("api", viper.GetString("BOOKING_API_URL"), "booking API base URL")
	apiKey := fs.String("api-key", viper.GetString("BOOKING_API_KEY"), "operator API key")
	fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	c := console.New(console.NewHTTPClient(*apiURL, *apiKey), console.WriterNotices{W: os.Stderr})
	ctx := context.Background()

	if err := run(ctx, c, args[0], args[1:]); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, c *console.Console, cmd string, args []string) error {
	switch cmd {
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		status := fs.String("status", console.FilterAll, "status filter")
		fs.Parse(args)

		if err := c.Refresh(ctx); err != nil {
			return err
		}
		c.SetFilter(*status)
		printBookings(c)
		return nil

	case "show":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if err := c.Refresh(ctx); err != nil {
			return err
		}
		d, err := c.ViewDetails(ctx, id)
		if err != nil {
			log.Printf("Booking #%d not found", id)
			return err
		}
		printDetails(d)
		return nil

	case "set-status":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if len(args) < 2 {
			log.Print("set-status needs a booking id and a status")
			return fmt.Errorf("missing status")
		}
		if err := c.Refresh(ctx); err != nil {
			return err
		}
		return c.UpdateStatus(ctx, id, args[1])

	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		dir := fs.String("dir", ".", "directory to write the CSV file to")
		fs.Parse(args)

		if err := c.Refresh(ctx); err != nil {
			return err
		}
		_, err := c.ExportCSV(*dir, time.Now())
		return err

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseID(args []string) (uint, error) {
	if len(args) == 0 {
		log.Print("missing booking id")
		return 0, fmt.Errorf("missing booking id")
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		log.Printf("invalid booking id %q", args[0])
		return 0, err
	}
	return uint(id), nil
}

func printBookings(c *console.Console) {
	visible := c.Visible()
	if len(visible) == 0 {
		fmt.Println("No bookings found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tCONTACT\tTRAVEL DATE\tTRAVELERS\tSTATUS\tBOOKED")
	for _, b := range visible {
		fmt.Fprintf(w, "#%d\t%s\t%s / %s\t%s\t%d\t%s\t%s\n",
			b.ID, b.Name, b.Email, b.Phone, b.TravelDate, b.NumberOfTravelers,
			console.Badge(b), b.CreatedAt.Local().Format("Jan 2, 2006"))
	}
	w.Flush()
}

func printDetails(d *console.Details) {
	b := d.Booking
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Booking\t#%d\n", b.ID)
	fmt.Fprintf(w, "Status\t%s\n", console.Badge(b))
	fmt.Fprintf(w, "Customer\t%s\n", b.Name)
	fmt.Fprintf(w, "Email\t%s\n", b.Email)
	fmt.Fprintf(w, "Phone\t%s\n", b.Phone)
	fmt.Fprintf(w, "WhatsApp\t%t\n", b.WhatsappConsent)
	fmt.Fprintf(w, "Package\t%s\n", d.PackageSummary())
	if d.Package != nil {
		fmt.Fprintf(w, "Destinations\t%s\n", d.Package.Destinations)
		fmt.Fprintf(w, "Price\t%d\n", d.Package.Price)
	}
	fmt.Fprintf(w, "Travel date\t%s\n", b.TravelDate)
	fmt.Fprintf(w, "Travelers\t%d\n", b.NumberOfTravelers)
	if b.SpecialRequirements != "" {
		fmt.Fprintf(w, "Requirements\t%s\n", b.SpecialRequirements)
	}
	fmt.Fprintf(w, "Booked\t%s\n", b.CreatedAt.Local().Format(time.RFC1123))
	w.Flush()
}
