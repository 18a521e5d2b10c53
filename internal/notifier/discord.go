package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/wanderdesk/booking-api/internal/models"
)

// DiscordNotifier posts booking alerts to the operators' Discord channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyBookingCreated(ctx context.Context, booking models.Booking, pkg *models.Package) bool {
	reqs := ""
	if booking.SpecialRequirements != "" {
		reqs = fmt.Sprintf("\n**Special Requirements:** %s", booking.SpecialRequirements)
	}

	message := fmt.Sprintf("🧳 **New Booking #%d**\n**Package:** %s\n**Travel Date:** %s\n**Travelers:** %d\n**Customer:** %s (%s, %s)%s",
		booking.ID,
		packageName(booking, pkg),
		booking.TravelDate,
		booking.NumberOfTravelers,
		booking.Name,
		booking.Email,
		booking.Phone,
		reqs,
	)

	return n.send(ctx, kindCreated, message)
}

func (n *DiscordNotifier) NotifyBookingStatusChanged(ctx context.Context, booking models.Booking, pkg *models.Package) bool {
	status := booking.Status.OrDefault()
	message := fmt.Sprintf("📌 **Booking #%d** for %s is now **%s**\n**Customer:** %s\n**Travel Date:** %s",
		booking.ID,
		packageName(booking, pkg),
		status.Label(),
		booking.Name,
		booking.TravelDate,
	)

	return n.send(ctx, kindStatusChanged, message)
}

func (n *DiscordNotifier) send(ctx context.Context, kind, message string) bool {
	if n.session == nil || n.channelID == "" {
		log.Printf("Discord notification not sent: session or channel not configured")
		observeSkipped("discord", kind)
		return false
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx))
	observe("discord", kind, err)
	if err != nil {
		log.Printf("Failed to send discord message: %v", &DeliveryError{Channel: "discord", Recipient: n.channelID, Err: err})
		return false
	}
	return true
}
