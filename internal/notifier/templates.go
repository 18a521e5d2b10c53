package notifier

import (
	"fmt"
	"html/template"
	"strings"
)

var templates = template.Must(template.New("email").Parse(`
{{define "created.html"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #000080; color: white; padding: 20px; text-align: center;">
    <h1 style="margin: 0;">New Booking Notification</h1>
  </div>
  <div style="padding: 20px; border: 1px solid #e0e0e0; border-top: none;">
    <h2 style="color: #000080;">Booking Details</h2>
    <p><strong>Booking ID:</strong> #{{.Booking.ID}}</p>
    <p><strong>Package:</strong> {{.PackageName}}</p>
    <p><strong>Travel Date:</strong> {{.Booking.TravelDate}}</p>
    <p><strong>Number of Travelers:</strong> {{.Booking.NumberOfTravelers}}</p>
    <h2 style="color: #000080; margin-top: 20px;">Customer Information</h2>
    <p><strong>Name:</strong> {{.Booking.Name}}</p>
    <p><strong>Email:</strong> {{.Booking.Email}}</p>
    <p><strong>Phone:</strong> {{.Booking.Phone}}</p>
    {{- if .Booking.SpecialRequirements}}
    <h3 style="color: #000080; margin-top: 20px;">Special Requirements</h3>
    <p>{{.Booking.SpecialRequirements}}</p>
    {{- end}}
    {{- if .AdminPanelURL}}
    <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #e0e0e0;">
      <p>Log in to your admin panel to manage this booking.</p>
      <p><a href="{{.AdminPanelURL}}">View Booking</a></p>
    </div>
    {{- end}}
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; text-align: center; font-size: 12px; color: #666;">
    <p>This is an automated message from the {{.AgencyName}} booking system.</p>
  </div>
</div>{{end}}

{{define "status.html"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #000080; color: white; padding: 20px; text-align: center;">
    <h1 style="margin: 0;">Booking Status Update</h1>
  </div>
  <div style="padding: 20px; border: 1px solid #e0e0e0; border-top: none;">
    <h2 style="color: #000080;">Dear {{.Booking.Name}},</h2>
    <p>Your booking for <strong>{{.PackageName}}</strong> has been updated to <strong>{{.Status}}</strong>.</p>
    <p>{{.StatusMessage}}</p>
    <div style="background-color: #f9f9f9; padding: 15px; border-radius: 4px; margin: 20px 0;">
      <h3 style="color: #000080; margin-top: 0;">Booking Summary</h3>
      <p><strong>Booking ID:</strong> #{{.Booking.ID}}</p>
      <p><strong>Package:</strong> {{.PackageName}}</p>
      <p><strong>Travel Date:</strong> {{.Booking.TravelDate}}</p>
      <p><strong>Number of Travelers:</strong> {{.Booking.NumberOfTravelers}}</p>
      <p><strong>Status:</strong> {{.Status}}</p>
    </div>
    <p>If you have any questions or need further assistance, please don't hesitate to contact us.</p>
    <p>Thank you for choosing {{.AgencyName}}!</p>
  </div>
</div>{{end}}
`))

func createdText(d emailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New booking #%d\n\n", d.Booking.ID)
	fmt.Fprintf(&b, "Package: %s\n", d.PackageName)
	fmt.Fprintf(&b, "Travel Date: %s\n", d.Booking.TravelDate)
	fmt.Fprintf(&b, "Number of Travelers: %d\n\n", d.Booking.NumberOfTravelers)
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", d.Booking.Name, d.Booking.Email, d.Booking.Phone)
	if d.Booking.SpecialRequirements != "" {
		fmt.Fprintf(&b, "\nSpecial Requirements:\n%s\n", d.Booking.SpecialRequirements)
	}
	if d.AdminPanelURL != "" {
		fmt.Fprintf(&b, "\nManage this booking: %s\n", d.AdminPanelURL)
	}
	return b.String()
}

func statusText(d emailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.Booking.Name)
	fmt.Fprintf(&b, "Your booking for %s has been updated to %s.\n%s\n\n", d.PackageName, d.Status, d.StatusMessage)
	fmt.Fprintf(&b, "Booking ID: #%d\nTravel Date: %s\nNumber of Travelers: %d\n", d.Booking.ID, d.Booking.TravelDate, d.Booking.NumberOfTravelers)
	fmt.Fprintf(&b, "\nThank you for choosing %s!\n", d.AgencyName)
	return b.String()
}
